package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplite/catalog-backend/internal/domain/apperror"
	"github.com/shoplite/catalog-backend/internal/domain/valueobject"
)

func testUser(t *testing.T) *User {
	t.Helper()
	email, err := valueobject.NewEmailAddress("jane.doe@example.com")
	require.NoError(t, err)
	return &User{
		ID:        "user-1",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Role:      valueobject.RoleCustomer,
		Active:    true,
	}
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", testUser(t).FullName())
}

func TestUser_ActivateDeactivate(t *testing.T) {
	u := testUser(t)

	err := u.Activate()
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAlreadyActive))

	require.NoError(t, u.Deactivate())
	assert.False(t, u.Active)

	err = u.Deactivate()
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAlreadyInactive))

	require.NoError(t, u.Activate())
	assert.True(t, u.Active)
}

func TestUser_VerifyEmail(t *testing.T) {
	u := testUser(t)

	require.NoError(t, u.VerifyEmail())
	assert.True(t, u.EmailVerified)

	err := u.VerifyEmail()
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAlreadyVerified))
}

func TestUser_UpdateProfile(t *testing.T) {
	u := testUser(t)
	newEmail, err := valueobject.NewEmailAddress("jane.smith@example.com")
	require.NoError(t, err)

	require.NoError(t, u.UpdateProfile("Jane", "Smith", newEmail))
	assert.Equal(t, "Smith", u.LastName)
	assert.True(t, u.Email.Equal(newEmail))
}

func TestUser_UpdateProfile_Invalid(t *testing.T) {
	u := testUser(t)
	email := u.Email

	tests := []struct {
		name      string
		firstName string
		lastName  string
	}{
		{"blank first name", "", "Doe"},
		{"one char first name", "J", "Doe"},
		{"over-long last name", "Jane", strings.Repeat("x", 51)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := u.UpdateProfile(tt.firstName, tt.lastName, email)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindMissingField))
		})
	}
	// nothing was applied
	assert.Equal(t, "Jane", u.FirstName)
	assert.Equal(t, "Doe", u.LastName)
}

func TestUser_UpdateProfile_MissingEmail(t *testing.T) {
	u := testUser(t)
	err := u.UpdateProfile("Jane", "Doe", valueobject.EmailAddress{})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindMissingField))
}

func TestUser_RecordLogin(t *testing.T) {
	u := testUser(t)
	require.Nil(t, u.LastLoginAt)

	at := time.Now()
	u.RecordLogin(at)
	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, at, *u.LastLoginAt)
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("first name", "Jo"))
	assert.NoError(t, ValidateName("first name", strings.Repeat("x", 50)))
	assert.Error(t, ValidateName("first name", ""))
	assert.Error(t, ValidateName("first name", "J"))
	assert.Error(t, ValidateName("first name", strings.Repeat("x", 51)))
}
