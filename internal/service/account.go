package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apiErrors "github.com/dtroode/admissions-server/internal/api/errors"
	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/model"
)

// Account serves self-service and administrative operations on existing identities.
type Account struct {
	identityStore model.IdentityStore
	profileStore  model.ProfileStore
	emailSender   model.EmailSender
	storage       model.Storage
	guard         *Guard
	logger        *logger.Logger
}

// NewAccount creates an Account service.
func NewAccount(
	identityStore model.IdentityStore,
	profileStore model.ProfileStore,
	emailSender model.EmailSender,
	storage model.Storage,
	guard *Guard,
	logger *logger.Logger,
) *Account {
	return &Account{
		identityStore: identityStore,
		profileStore:  profileStore,
		emailSender:   emailSender,
		storage:       storage,
		guard:         guard,
		logger:        logger,
	}
}

// RequestPasswordReset emails a password reset link to the identity with the given email.
// Only administrators may request resets.
func (a *Account) RequestPasswordReset(ctx context.Context, caller uuid.UUID, req model.PasswordResetRequest) (string, error) {
	if err := a.guard.RequireAdmin(ctx, caller); err != nil {
		return "", err
	}
	if err := validate(req); err != nil {
		return "", err
	}

	email := strings.TrimSpace(req.Email)

	link, err := a.identityStore.GeneratePasswordResetLink(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Account service: no identity for password reset",
			"email", email)
		return "", apiErrors.NewErrInvalidInput(fmt.Sprintf("no account is registered with email %s", email))
	}
	if err != nil {
		a.logger.Error("Account service: failed to generate password reset link",
			"email", email,
			"error", err.Error())
		return "", apiErrors.NewErrInternalServerError(err)
	}

	if err := a.emailSender.SendPasswordReset(ctx, email, link); err != nil {
		a.logger.Error("Account service: failed to send password reset email",
			"email", email,
			"error", err.Error())
		return "", apiErrors.NewErrInternalServerError(err)
	}

	a.logger.Info("Account service: password reset email sent",
		"caller", caller,
		"email", email)

	return fmt.Sprintf("Password reset email sent to %s.", email), nil
}

// RegisterDeviceToken stores the caller's push delivery token.
func (a *Account) RegisterDeviceToken(ctx context.Context, caller uuid.UUID, token string) error {
	if caller == uuid.Nil {
		return apiErrors.NewErrUnauthenticated()
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return apiErrors.NewErrInvalidInput("token is required")
	}

	err := a.profileStore.SetDeliveryToken(ctx, caller, token)
	if errors.Is(err, model.ErrNotFound) {
		return apiErrors.NewErrProfileNotFound(caller.String())
	}
	if err != nil {
		a.logger.Error("Account service: failed to store delivery token",
			"identity_id", caller,
			"error", err.Error())
		return apiErrors.NewErrInternalServerError(err)
	}

	a.logger.Debug("Account service: delivery token registered",
		"identity_id", caller)

	return nil
}

// UploadProfileImage stores a new profile image and points the profile at it.
// Administrators may upload for anyone, other callers only for themselves.
func (a *Account) UploadProfileImage(ctx context.Context, caller uuid.UUID, req model.ProfileImageUpload) (string, error) {
	if caller == uuid.Nil {
		return "", apiErrors.NewErrUnauthenticated()
	}
	if caller != req.IdentityID {
		isAdmin, err := a.guard.IsAdmin(ctx, caller)
		if err != nil {
			return "", apiErrors.NewErrInternalServerError(err)
		}
		if !isAdmin {
			return "", apiErrors.NewErrForbidden()
		}
	}
	if err := validate(req); err != nil {
		return "", err
	}

	profile, err := a.profileStore.GetByID(ctx, req.IdentityID)
	if errors.Is(err, model.ErrNotFound) {
		return "", apiErrors.NewErrProfileNotFound(req.IdentityID.String())
	}
	if err != nil {
		return "", apiErrors.NewErrInternalServerError(err)
	}

	key := fmt.Sprintf("profiles/%s/%s", req.IdentityID, uuid.New())
	if err := a.storage.Upload(ctx, key, bytes.NewReader(req.Data), int64(len(req.Data)), req.ContentType); err != nil {
		a.logger.Error("Account service: failed to upload profile image",
			"identity_id", req.IdentityID,
			"error", err.Error())
		return "", apiErrors.NewErrInternalServerError(err)
	}

	if err := a.profileStore.SetImageKey(ctx, req.IdentityID, key); err != nil {
		a.logger.Error("Account service: failed to update profile image, deleting uploaded object",
			"identity_id", req.IdentityID,
			"image_key", key,
			"error", err.Error())
		if deleteErr := a.storage.Delete(context.WithoutCancel(ctx), key); deleteErr != nil {
			a.logger.Error("Account service: failed to delete uploaded object",
				"image_key", key,
				"error", deleteErr.Error())
		}
		return "", apiErrors.NewErrInternalServerError(err)
	}

	if profile.ImageKey != "" {
		if err := a.storage.Delete(ctx, profile.ImageKey); err != nil {
			a.logger.Warn("Account service: failed to delete previous profile image",
				"image_key", profile.ImageKey,
				"error", err.Error())
		}
	}

	a.logger.Info("Account service: profile image updated",
		"identity_id", req.IdentityID,
		"image_key", key)

	return key, nil
}
