package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/model"
)

// AudienceResolver maps a scope (class) to the identities enrolled in it.
type AudienceResolver struct {
	profileStore model.ProfileStore
	logger       *logger.Logger
}

// NewAudienceResolver creates an AudienceResolver.
func NewAudienceResolver(profileStore model.ProfileStore, logger *logger.Logger) *AudienceResolver {
	return &AudienceResolver{profileStore: profileStore, logger: logger}
}

// ResolveAudience returns the identities whose student record belongs to scopeID.
// An unknown or empty scope yields an empty audience.
func (r *AudienceResolver) ResolveAudience(ctx context.Context, scopeID string) ([]uuid.UUID, error) {
	scopeID = strings.TrimSpace(scopeID)
	if scopeID == "" {
		return []uuid.UUID{}, nil
	}

	ids, err := r.profileStore.ListIdentityIDsByClass(ctx, scopeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students of class %s: %w", scopeID, err)
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}

	r.logger.Debug("Audience resolver: audience resolved",
		"scope_id", scopeID,
		"recipients", len(ids))

	return ids, nil
}
