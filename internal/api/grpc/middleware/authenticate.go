package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/status"

	apiErrors "github.com/dtroode/admissions-server/internal/api/errors"
	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/model"
)

// Authenticate validates bearer tokens and injects the caller identity into context.
type Authenticate struct {
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenManager model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenManager: tokenManager, contextManager: contextManager, logger: logger}
}

// AuthFunc reads the authorization metadata, verifies the token and returns a
// context carrying the caller identity.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	token, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, toStatus(apiErrors.NewErrMissingAuthorizationToken())
	}

	identityID, err := m.authenticate(token)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token rejected",
			"error", err.Error())
		return nil, toStatus(apiErrors.NewErrInvalidAuthorizationToken())
	}

	return m.contextManager.SetUserIDToContext(ctx, identityID), nil
}

func (m *Authenticate) authenticate(token string) (uuid.UUID, error) {
	identityID, err := m.tokenManager.ParseAccessToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	if identityID == uuid.Nil {
		return uuid.Nil, apiErrors.NewErrInvalidAuthorizationToken()
	}
	return identityID, nil
}

func toStatus(err *apiErrors.APIError) error {
	return status.Error(err.GRPCCode, err.Message)
}
