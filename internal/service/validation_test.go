package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	apiErrors "github.com/dtroode/admissions-server/internal/api/errors"
	"github.com/dtroode/admissions-server/internal/model"
)

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Email":         "email",
		"FullName":      "full_name",
		"DOB":           "dob",
		"ClassID":       "class_id",
		"AdmissionYear": "admission_year",
	}
	for in, want := range tests {
		assert.Equal(t, want, toSnakeCase(in), in)
	}
}

func TestValidate_StaffAccount(t *testing.T) {
	tests := []struct {
		name    string
		req     model.StaffAccount
		wantMsg string
	}{
		{
			name:    "blank full name",
			req:     model.StaffAccount{Email: "t@school.org", Password: "secret", FullName: "   ", Role: model.RoleTeacher},
			wantMsg: "full_name is required",
		},
		{
			name:    "malformed email",
			req:     model.StaffAccount{Email: "not-an-email", Password: "secret", FullName: "T", Role: model.RoleTeacher},
			wantMsg: "email must be a valid email",
		},
		{
			name:    "student role is not staff",
			req:     model.StaffAccount{Email: "t@school.org", Password: "secret", FullName: "T", Role: model.RoleStudent},
			wantMsg: "role must be one of [admin teacher]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(tt.req)
			require.Error(t, err)

			apiErr, ok := err.(*apiErrors.APIError)
			require.True(t, ok)
			assert.Equal(t, codes.InvalidArgument, apiErr.GRPCCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestValidate_StudentAdmission_BloodGroupOptional(t *testing.T) {
	req := validAdmission()
	req.BloodGroup = ""

	assert.NoError(t, validate(req))
}
