package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/admissions-server/internal/mocks"
	"github.com/dtroode/admissions-server/internal/model"
	"github.com/dtroode/admissions-server/internal/testutil"
)

func TestGuard_IsAdmin(t *testing.T) {
	tests := []struct {
		name    string
		profile model.Profile
		err     error
		want    bool
		wantErr bool
	}{
		{name: "admin", profile: model.Profile{Role: model.RoleAdmin}, want: true},
		{name: "teacher", profile: model.Profile{Role: model.RoleTeacher}, want: false},
		{name: "student", profile: model.Profile{Role: model.RoleStudent}, want: false},
		{name: "no profile", err: model.ErrNotFound, want: false},
		{name: "store error", err: errors.New("timeout"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := mocks.NewProfileStore(t)
			id := uuid.New()
			profiles.On("GetByID", mock.Anything, id).Return(tt.profile, tt.err).Once()

			got, err := NewGuard(profiles, testutil.MakeNoopLogger()).IsAdmin(context.Background(), id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
