package handler

import (
	"context"

	"github.com/google/uuid"

	apiErrors "github.com/dtroode/admissions-server/internal/api/errors"
	"github.com/dtroode/admissions-server/internal/api/grpc/rpc"
	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/model"
)

// ProvisioningService creates identities together with their profiles.
type ProvisioningService interface {
	ProvisionStudent(ctx context.Context, caller uuid.UUID, req model.StudentAdmission) (model.ProvisionResult, error)
	ProvisionStaff(ctx context.Context, caller uuid.UUID, req model.StaffAccount) (model.ProvisionResult, error)
}

// AccountService operates on existing identities.
type AccountService interface {
	RequestPasswordReset(ctx context.Context, caller uuid.UUID, req model.PasswordResetRequest) (string, error)
	RegisterDeviceToken(ctx context.Context, caller uuid.UUID, token string) error
	UploadProfileImage(ctx context.Context, caller uuid.UUID, req model.ProfileImageUpload) (string, error)
}

// Admission handles gRPC endpoints of the admission service.
type Admission struct {
	rpc.UnimplementedAdmissionServer
	provisioning   ProvisioningService
	account        AccountService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAdmission creates a new Admission handler.
func NewAdmission(
	provisioning ProvisioningService,
	account AccountService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Admission {
	return &Admission{
		provisioning:   provisioning,
		account:        account,
		contextManager: contextManager,
		logger:         logger,
	}
}

// ProvisionStudent creates a student account and returns its identity and admission number.
func (h *Admission) ProvisionStudent(ctx context.Context, req *rpc.ProvisionStudentRequest) (*rpc.ProvisionStudentResponse, error) {
	caller := h.caller(ctx)

	h.logger.Debug("Admission handler: processing provision student request",
		"caller", caller,
		"class_id", req.ClassID)

	result, err := h.provisioning.ProvisionStudent(ctx, caller, model.StudentAdmission{
		Email:         req.Email,
		Password:      req.Password,
		FullName:      req.FullName,
		ClassID:       req.ClassID,
		FatherName:    req.FatherName,
		MotherName:    req.MotherName,
		FatherMobile:  req.FatherMobile,
		MotherMobile:  req.MotherMobile,
		AdmissionYear: req.AdmissionYear,
		DOB:           req.DOB,
		Gender:        req.Gender,
		BloodGroup:    req.BloodGroup,
	})
	if err != nil {
		h.logger.Error("Admission handler: provision student failed",
			"caller", caller,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Admission handler: student provisioned",
		"identity_id", result.IdentityID,
		"business_id", result.BusinessID)

	return &rpc.ProvisionStudentResponse{
		IdentityID: result.IdentityID.String(),
		BusinessID: result.BusinessID.String(),
	}, nil
}

// ProvisionStaff creates an admin or teacher account.
func (h *Admission) ProvisionStaff(ctx context.Context, req *rpc.ProvisionStaffRequest) (*rpc.ProvisionStaffResponse, error) {
	caller := h.caller(ctx)

	h.logger.Debug("Admission handler: processing provision staff request",
		"caller", caller,
		"role", req.Role)

	result, err := h.provisioning.ProvisionStaff(ctx, caller, model.StaffAccount{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		h.logger.Error("Admission handler: provision staff failed",
			"caller", caller,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Admission handler: staff provisioned",
		"identity_id", result.IdentityID,
		"role", req.Role)

	return &rpc.ProvisionStaffResponse{IdentityID: result.IdentityID.String()}, nil
}

// RequestPasswordReset emails a reset link to the account with the given email.
func (h *Admission) RequestPasswordReset(ctx context.Context, req *rpc.RequestPasswordResetRequest) (*rpc.RequestPasswordResetResponse, error) {
	caller := h.caller(ctx)

	message, err := h.account.RequestPasswordReset(ctx, caller, model.PasswordResetRequest{Email: req.Email})
	if err != nil {
		h.logger.Error("Admission handler: password reset request failed",
			"caller", caller,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &rpc.RequestPasswordResetResponse{Message: message}, nil
}

// RegisterDeviceToken stores the push token of the caller's device.
func (h *Admission) RegisterDeviceToken(ctx context.Context, req *rpc.RegisterDeviceTokenRequest) (*rpc.RegisterDeviceTokenResponse, error) {
	caller := h.caller(ctx)

	if err := h.account.RegisterDeviceToken(ctx, caller, req.Token); err != nil {
		h.logger.Error("Admission handler: device token registration failed",
			"caller", caller,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &rpc.RegisterDeviceTokenResponse{}, nil
}

// UploadProfileImage replaces the profile image of the given identity, or of
// the caller when no identity is given.
func (h *Admission) UploadProfileImage(ctx context.Context, req *rpc.UploadProfileImageRequest) (*rpc.UploadProfileImageResponse, error) {
	caller := h.caller(ctx)

	identityID := caller
	if req.IdentityID != "" {
		id, err := uuid.Parse(req.IdentityID)
		if err != nil {
			return nil, handleError(apiErrors.NewErrInvalidInput("identity_id must be a valid UUID"))
		}
		identityID = id
	}

	key, err := h.account.UploadProfileImage(ctx, caller, model.ProfileImageUpload{
		IdentityID:  identityID,
		ContentType: req.ContentType,
		Data:        req.Data,
	})
	if err != nil {
		h.logger.Error("Admission handler: profile image upload failed",
			"caller", caller,
			"identity_id", req.IdentityID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &rpc.UploadProfileImageResponse{ImageKey: key}, nil
}

// caller returns the authenticated identity, or uuid.Nil when the call carries none.
func (h *Admission) caller(ctx context.Context) uuid.UUID {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil
	}
	return userID
}
