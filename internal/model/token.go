package model

import "github.com/google/uuid"

// TokenManager validates bearer tokens presented by callers.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	ParseAccessToken(token string) (uuid.UUID, error)
}
