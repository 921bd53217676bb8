// Package errors declares errors that are safe to return to API callers.
package errors

import (
	"fmt"

	"google.golang.org/grpc/codes"
)

// APIError is an error with a client-facing message and the gRPC code it maps to.
type APIError struct {
	GRPCCode codes.Code
	Message  string
	cause    error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the internal cause, if any. The cause is never sent to clients.
func (e *APIError) Unwrap() error {
	return e.cause
}

// NewErrUnauthenticated is returned when the call carries no caller identity.
func NewErrUnauthenticated() *APIError {
	return &APIError{GRPCCode: codes.Unauthenticated, Message: "the call must be authenticated"}
}

// NewErrMissingAuthorizationToken is returned when no bearer token is present.
func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{GRPCCode: codes.Unauthenticated, Message: "missing authorization token"}
}

// NewErrInvalidAuthorizationToken is returned when the bearer token cannot be verified.
func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{GRPCCode: codes.Unauthenticated, Message: "invalid authorization token"}
}

// NewErrUnauthorized is returned when the caller lacks the admin role.
func NewErrUnauthorized() *APIError {
	return &APIError{GRPCCode: codes.PermissionDenied, Message: "you must be an administrator to perform this action"}
}

// NewErrForbidden is returned when the caller may not act on the given identity.
func NewErrForbidden() *APIError {
	return &APIError{GRPCCode: codes.PermissionDenied, Message: "you are not allowed to perform this action"}
}

// NewErrInvalidInput is returned when required fields are missing or malformed.
func NewErrInvalidInput(msg string) *APIError {
	return &APIError{GRPCCode: codes.InvalidArgument, Message: msg}
}

// NewErrProfileNotFound is returned when an identity has no profile.
func NewErrProfileNotFound(identityID string) *APIError {
	return &APIError{GRPCCode: codes.NotFound, Message: fmt.Sprintf("profile %s not found", identityID)}
}

// NewErrProvisioningFailed masks identity store failures and any failure after the identity was created.
func NewErrProvisioningFailed(cause error) *APIError {
	return &APIError{
		GRPCCode: codes.Internal,
		Message:  "an error occurred while provisioning the account, please try again",
		cause:    cause,
	}
}

// NewErrInternalServerError masks unexpected dependency failures.
func NewErrInternalServerError(cause error) *APIError {
	return &APIError{GRPCCode: codes.Internal, Message: "internal server error", cause: cause}
}
