package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IdentityStore manages authenticatable accounts.
type IdentityStore interface {
	Create(ctx context.Context, params NewIdentity) (Identity, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GeneratePasswordResetLink(ctx context.Context, email string) (string, error)
}

// Identity is an account in the identity store, independent of any role data.
type Identity struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// NewIdentity carries the fields required to create an Identity.
// Password is never persisted in clear text.
type NewIdentity struct {
	// ID is generated by the store when zero.
	ID          uuid.UUID
	Email       string
	Password    string
	DisplayName string
}
