package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apiErrors "github.com/dtroode/admissions-server/internal/api/errors"
	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/metrics"
	"github.com/dtroode/admissions-server/internal/model"
)

const (
	stepCreateIdentity     = "create_identity"
	stepAllocateBusinessID = "allocate_business_id"
	stepWriteProfile       = "write_profile"
	stepDeleteIdentity     = "delete_identity"
)

// Provisioner creates identities together with their profiles.
// Every step after identity creation is compensated by deleting the identity.
type Provisioner struct {
	identityStore model.IdentityStore
	profileStore  model.ProfileStore
	guard         *Guard
	allocator     *Allocator
	stepTimeout   time.Duration
	tracer        trace.Tracer
	metrics       *metrics.Metrics
	logger        *logger.Logger
}

// NewProvisioner creates a Provisioner.
func NewProvisioner(
	identityStore model.IdentityStore,
	profileStore model.ProfileStore,
	guard *Guard,
	allocator *Allocator,
	stepTimeout time.Duration,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Provisioner {
	return &Provisioner{
		identityStore: identityStore,
		profileStore:  profileStore,
		guard:         guard,
		allocator:     allocator,
		stepTimeout:   stepTimeout,
		tracer:        otel.Tracer("github.com/dtroode/admissions-server/internal/service"),
		metrics:       metrics,
		logger:        logger,
	}
}

// ProvisionStudent creates the identity, business id, profile and student record of a new student.
func (p *Provisioner) ProvisionStudent(ctx context.Context, caller uuid.UUID, req model.StudentAdmission) (model.ProvisionResult, error) {
	p.logger.Debug("Provisioner service: provisioning student",
		"caller", caller,
		"email", req.Email)

	if err := p.guard.RequireAdmin(ctx, caller); err != nil {
		return model.ProvisionResult{}, err
	}
	if err := validate(req); err != nil {
		p.logger.Info("Provisioner service: invalid student admission",
			"caller", caller,
			"error", err.Error())
		return model.ProvisionResult{}, err
	}

	email := strings.TrimSpace(req.Email)
	fullName := strings.TrimSpace(req.FullName)

	identity, err := p.createIdentity(ctx, model.NewIdentity{
		Email:       email,
		Password:    req.Password,
		DisplayName: fullName,
	})
	if err != nil {
		return model.ProvisionResult{}, err
	}

	var allocation Allocation
	err = p.runStep(ctx, stepAllocateBusinessID, func(ctx context.Context) error {
		var allocErr error
		allocation, allocErr = p.allocator.Allocate(ctx)
		return allocErr
	})
	if err != nil {
		return model.ProvisionResult{}, p.compensate(ctx, identity, stepAllocateBusinessID, err)
	}

	profile := model.Profile{
		IdentityID:  identity.ID,
		Email:       email,
		DisplayName: fullName,
		Role:        model.RoleStudent,
		Status:      model.StatusActive,
	}
	record := &model.StudentRecord{
		IdentityID: identity.ID,
		BusinessID: allocation.BusinessID,
		Email:      email,
		FullName:   fullName,
		Guardian: model.Guardian{
			FatherName:   strings.TrimSpace(req.FatherName),
			MotherName:   strings.TrimSpace(req.MotherName),
			FatherMobile: strings.TrimSpace(req.FatherMobile),
			MotherMobile: strings.TrimSpace(req.MotherMobile),
		},
		ClassID:        strings.TrimSpace(req.ClassID),
		AdmissionEpoch: allocation.Scope,
		AdmissionYear:  strings.TrimSpace(req.AdmissionYear),
		DOB:            strings.TrimSpace(req.DOB),
		Gender:         strings.TrimSpace(req.Gender),
		BloodGroup:     strings.TrimSpace(req.BloodGroup),
		Status:         model.StatusActive,
	}

	err = p.runStep(ctx, stepWriteProfile, func(ctx context.Context) error {
		return p.profileStore.Create(ctx, profile, record)
	})
	if err != nil {
		return model.ProvisionResult{}, p.compensate(ctx, identity, stepWriteProfile, err)
	}

	p.metrics.Provisioned.WithLabelValues(string(model.RoleStudent)).Inc()
	p.logger.Info("Provisioner service: student provisioned",
		"identity_id", identity.ID,
		"business_id", allocation.BusinessID,
		"class_id", record.ClassID)

	return model.ProvisionResult{IdentityID: identity.ID, BusinessID: allocation.BusinessID}, nil
}

// ProvisionStaff creates the identity and profile of a teacher or administrator.
func (p *Provisioner) ProvisionStaff(ctx context.Context, caller uuid.UUID, req model.StaffAccount) (model.ProvisionResult, error) {
	p.logger.Debug("Provisioner service: provisioning staff",
		"caller", caller,
		"email", req.Email,
		"role", req.Role)

	if err := p.guard.RequireAdmin(ctx, caller); err != nil {
		return model.ProvisionResult{}, err
	}
	if err := validate(req); err != nil {
		p.logger.Info("Provisioner service: invalid staff account",
			"caller", caller,
			"error", err.Error())
		return model.ProvisionResult{}, err
	}

	email := strings.TrimSpace(req.Email)
	fullName := strings.TrimSpace(req.FullName)

	identity, err := p.createIdentity(ctx, model.NewIdentity{
		Email:       email,
		Password:    req.Password,
		DisplayName: fullName,
	})
	if err != nil {
		return model.ProvisionResult{}, err
	}

	profile := model.Profile{
		IdentityID:  identity.ID,
		Email:       email,
		DisplayName: fullName,
		Role:        req.Role,
		Status:      model.StatusActive,
	}
	err = p.runStep(ctx, stepWriteProfile, func(ctx context.Context) error {
		return p.profileStore.Create(ctx, profile, nil)
	})
	if err != nil {
		return model.ProvisionResult{}, p.compensate(ctx, identity, stepWriteProfile, err)
	}

	p.metrics.Provisioned.WithLabelValues(string(req.Role)).Inc()
	p.logger.Info("Provisioner service: staff provisioned",
		"identity_id", identity.ID,
		"role", req.Role)

	return model.ProvisionResult{IdentityID: identity.ID}, nil
}

// createIdentity picks the identity id up front so an insert that commits
// after the step deadline can still be deleted.
func (p *Provisioner) createIdentity(ctx context.Context, params model.NewIdentity) (model.Identity, error) {
	if params.ID == uuid.Nil {
		params.ID = uuid.New()
	}

	var identity model.Identity
	err := p.runStep(ctx, stepCreateIdentity, func(ctx context.Context) error {
		var createErr error
		identity, createErr = p.identityStore.Create(ctx, params)
		return createErr
	})
	if errors.Is(err, context.DeadlineExceeded) {
		return model.Identity{}, p.compensate(ctx, model.Identity{ID: params.ID, Email: params.Email}, stepCreateIdentity, err)
	}
	if err != nil {
		p.metrics.ProvisioningFailures.WithLabelValues(stepCreateIdentity).Inc()
		if errors.Is(err, model.ErrAlreadyExists) {
			p.logger.Info("Provisioner service: email is taken",
				"email", params.Email)
		} else {
			p.logger.Error("Provisioner service: failed to create identity",
				"email", params.Email,
				"error", err.Error())
		}
		return model.Identity{}, apiErrors.NewErrProvisioningFailed(fmt.Errorf("%s: %w", stepCreateIdentity, err))
	}

	return identity, nil
}

// compensate deletes the identity created earlier in the saga. It runs on a
// context detached from the caller so a cancelled request still cleans up.
func (p *Provisioner) compensate(ctx context.Context, identity model.Identity, step string, cause error) error {
	p.metrics.ProvisioningFailures.WithLabelValues(step).Inc()
	p.logger.Error("Provisioner service: step failed, deleting identity",
		"step", step,
		"identity_id", identity.ID,
		"error", cause.Error())

	err := p.runStep(context.WithoutCancel(ctx), stepDeleteIdentity, func(ctx context.Context) error {
		return p.identityStore.Delete(ctx, identity.ID)
	})
	switch {
	case errors.Is(err, model.ErrNotFound):
		p.logger.Info("Provisioner service: identity was never stored",
			"identity_id", identity.ID)
	case err != nil:
		p.metrics.Compensations.WithLabelValues("orphaned").Inc()
		p.logger.Error("Provisioner service: failed to delete identity, identity is orphaned",
			"identity_id", identity.ID,
			"email", identity.Email,
			"error", err.Error())
	default:
		p.metrics.Compensations.WithLabelValues("deleted").Inc()
	}

	return apiErrors.NewErrProvisioningFailed(fmt.Errorf("%s: %w", step, cause))
}

func (p *Provisioner) runStep(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "provision."+name, trace.WithAttributes(attribute.String("step", name)))
	defer span.End()

	if p.stepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.stepTimeout)
		defer cancel()
	}

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	return nil
}
