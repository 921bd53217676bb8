package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	apiErrors "github.com/dtroode/admissions-server/internal/api/errors"
	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/model"
)

// Guard answers authorization questions about callers.
type Guard struct {
	profileStore model.ProfileStore
	logger       *logger.Logger
}

// NewGuard creates a Guard backed by the profile store.
func NewGuard(profileStore model.ProfileStore, logger *logger.Logger) *Guard {
	return &Guard{profileStore: profileStore, logger: logger}
}

// IsAdmin reports whether the identity holds the admin role.
// An identity without a profile is not an admin.
func (g *Guard) IsAdmin(ctx context.Context, identityID uuid.UUID) (bool, error) {
	profile, err := g.profileStore.GetByID(ctx, identityID)
	if errors.Is(err, model.ErrNotFound) {
		g.logger.Debug("Guard: caller has no profile",
			"identity_id", identityID)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get caller profile: %w", err)
	}

	return profile.Role == model.RoleAdmin, nil
}

// RequireAdmin returns an API error unless caller is an authenticated administrator.
func (g *Guard) RequireAdmin(ctx context.Context, caller uuid.UUID) error {
	if caller == uuid.Nil {
		return apiErrors.NewErrUnauthenticated()
	}

	isAdmin, err := g.IsAdmin(ctx, caller)
	if err != nil {
		g.logger.Error("Guard: failed to check caller role",
			"caller", caller,
			"error", err.Error())
		return apiErrors.NewErrInternalServerError(err)
	}
	if !isAdmin {
		g.logger.Info("Guard: caller is not an admin",
			"caller", caller)
		return apiErrors.NewErrUnauthorized()
	}

	return nil
}
