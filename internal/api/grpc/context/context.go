// Package context carries the authenticated caller identity in gRPC metadata.
package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

const userIDKey = "user_id"

// Manager stores and reads the caller identity id in incoming gRPC metadata.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns a context whose incoming metadata carries userID.
// Existing metadata is preserved and any user id sent by the client is replaced.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.MD{}
	} else {
		md = md.Copy()
	}
	md.Set(userIDKey, userID.String())

	return metadata.NewIncomingContext(ctx, md)
}

// GetUserIDFromContext returns the caller identity id set by the auth interceptor.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, false
	}

	values := md.Get(userIDKey)
	if len(values) == 0 {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(values[0])
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}
