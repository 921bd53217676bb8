package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apiErrors "github.com/dtroode/admissions-server/internal/api/errors"
	"github.com/dtroode/admissions-server/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
		wantMsg  string
	}{
		{
			name:     "api error passthrough",
			in:       apiErrors.NewErrProfileNotFound("a1b2"),
			wantCode: codes.NotFound,
			wantMsg:  "profile a1b2 not found",
		},
		{
			name:     "wrapped api error",
			in:       fmt.Errorf("provision: %w", apiErrors.NewErrUnauthorized()),
			wantCode: codes.PermissionDenied,
			wantMsg:  apiErrors.NewErrUnauthorized().Message,
		},
		{
			name:     "provisioning failure hides cause",
			in:       apiErrors.NewErrProvisioningFailed(errors.New("counter unavailable")),
			wantCode: codes.Internal,
			wantMsg:  apiErrors.NewErrProvisioningFailed(nil).Message,
		},
		{
			name:     "model not found -> NotFound",
			in:       model.ErrNotFound,
			wantCode: codes.NotFound,
			wantMsg:  "not found",
		},
		{
			name:     "other -> Internal",
			in:       errors.New("boom"),
			wantCode: codes.Internal,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := handleError(tt.in)
			st, ok := status.FromError(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
		})
	}
}
