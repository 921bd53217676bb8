// Package rpc declares the admission service wire types and its gRPC service descriptor.
package rpc

// ProvisionStudentRequest creates a student identity, profile and record.
type ProvisionStudentRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FullName      string `json:"full_name"`
	ClassID       string `json:"class_id"`
	FatherName    string `json:"father_name"`
	MotherName    string `json:"mother_name"`
	FatherMobile  string `json:"father_mobile"`
	MotherMobile  string `json:"mother_mobile"`
	AdmissionYear string `json:"admission_year"`
	DOB           string `json:"dob"`
	Gender        string `json:"gender"`
	BloodGroup    string `json:"blood_group,omitempty"`
}

type ProvisionStudentResponse struct {
	IdentityID string `json:"identity_id"`
	BusinessID string `json:"business_id"`
}

// ProvisionStaffRequest creates an admin or teacher identity and profile.
type ProvisionStaffRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type ProvisionStaffResponse struct {
	IdentityID string `json:"identity_id"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email"`
}

type RequestPasswordResetResponse struct {
	Message string `json:"message"`
}

// RegisterDeviceTokenRequest stores the caller's push delivery token.
type RegisterDeviceTokenRequest struct {
	Token string `json:"token"`
}

type RegisterDeviceTokenResponse struct{}

// UploadProfileImageRequest replaces the profile image of an identity.
// Data is base64 encoded on the wire.
type UploadProfileImageRequest struct {
	IdentityID  string `json:"identity_id"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

type UploadProfileImageResponse struct {
	ImageKey string `json:"image_key"`
}
