package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProfileStore persists role-tagged profiles and student records.
type ProfileStore interface {
	GetByID(ctx context.Context, identityID uuid.UUID) (Profile, error)
	// Create writes the profile and, when student is not nil, the student
	// record in a single transaction.
	Create(ctx context.Context, profile Profile, student *StudentRecord) error
	ListIdentityIDsByClass(ctx context.Context, classID string) ([]uuid.UUID, error)
	GetDeliveryToken(ctx context.Context, identityID uuid.UUID) (string, error)
	SetDeliveryToken(ctx context.Context, identityID uuid.UUID, token string) error
	SetImageKey(ctx context.Context, identityID uuid.UUID, imageKey string) error
}

// Role is the role a profile holds in the organization.
type Role string

const (
	// RoleAdmin may provision other identities.
	RoleAdmin Role = "admin"
	// RoleTeacher is a staff member without administrative rights.
	RoleTeacher Role = "teacher"
	// RoleStudent is an enrolled student with a StudentRecord.
	RoleStudent Role = "student"
)

// StatusActive is the status assigned to freshly provisioned profiles.
const StatusActive = "active"

// Profile is the application record describing a person, one per Identity.
type Profile struct {
	IdentityID    uuid.UUID
	Email         string
	DisplayName   string
	Role          Role
	Status        string
	ImageKey      string
	DeliveryToken string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Guardian holds parent contact details of a student.
type Guardian struct {
	FatherName   string
	MotherName   string
	FatherMobile string
	MotherMobile string
}

// StudentRecord is the student-specific extension of a Profile.
type StudentRecord struct {
	IdentityID     uuid.UUID
	BusinessID     BusinessID
	Email          string
	FullName       string
	Guardian       Guardian
	ClassID        string
	AdmissionEpoch string
	AdmissionYear  string
	DOB            string
	Gender         string
	BloodGroup     string
	RollNumber     *int
	Status         string
	CreatedAt      time.Time
}

// StudentAdmission is the input of a student provisioning request.
type StudentAdmission struct {
	Email         string `validate:"required,notblank,email"`
	Password      string `validate:"required,notblank"`
	FullName      string `validate:"required,notblank"`
	ClassID       string `validate:"required,notblank"`
	FatherName    string `validate:"required,notblank"`
	MotherName    string `validate:"required,notblank"`
	FatherMobile  string `validate:"required,notblank"`
	MotherMobile  string `validate:"required,notblank"`
	AdmissionYear string `validate:"required,notblank"`
	DOB           string `validate:"required,notblank"`
	Gender        string `validate:"required,notblank"`
	BloodGroup    string
}

// StaffAccount is the input of a staff provisioning request.
type StaffAccount struct {
	Email    string `validate:"required,notblank,email"`
	Password string `validate:"required,notblank"`
	FullName string `validate:"required,notblank"`
	Role     Role   `validate:"required,oneof=admin teacher"`
}

// ProvisionResult is returned by successful provisioning calls.
// BusinessID is empty for staff.
type ProvisionResult struct {
	IdentityID uuid.UUID
	BusinessID BusinessID
}

// PasswordResetRequest is the input of a password reset request.
type PasswordResetRequest struct {
	Email string `validate:"required,notblank,email"`
}

// ProfileImageUpload is the input of a profile image upload.
type ProfileImageUpload struct {
	IdentityID  uuid.UUID `validate:"required"`
	ContentType string    `validate:"required,notblank,startswith=image/"`
	Data        []byte    `validate:"required,min=1,max=5242880"`
}
