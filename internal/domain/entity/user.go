package entity

import (
	"time"

	"github.com/shoplite/catalog-backend/internal/domain/apperror"
	"github.com/shoplite/catalog-backend/internal/domain/valueobject"
)

const (
	minNameLength = 2
	maxNameLength = 50
)

// User is the aggregate root for the user domain. Active and EmailVerified
// are independent flags: any of the four combinations is reachable.
type User struct {
	ID            string
	FirstName     string
	LastName      string
	Email         valueobject.EmailAddress
	Password      valueobject.HashedPassword
	Role          valueobject.Role
	Active        bool
	EmailVerified bool
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (u *User) FullName() string { return u.FirstName + " " + u.LastName }

// Activate turns the account on. Activating an already-active account fails.
func (u *User) Activate() error {
	if u.Active {
		return apperror.New(apperror.KindAlreadyActive, "user %s is already active", u.ID)
	}
	u.Active = true
	u.UpdatedAt = time.Now()
	return nil
}

// Deactivate turns the account off. Deactivating an inactive account fails.
func (u *User) Deactivate() error {
	if !u.Active {
		return apperror.New(apperror.KindAlreadyInactive, "user %s is already inactive", u.ID)
	}
	u.Active = false
	u.UpdatedAt = time.Now()
	return nil
}

// VerifyEmail marks the email as verified, once.
func (u *User) VerifyEmail() error {
	if u.EmailVerified {
		return apperror.New(apperror.KindAlreadyVerified, "email of user %s is already verified", u.ID)
	}
	u.EmailVerified = true
	u.UpdatedAt = time.Now()
	return nil
}

func (u *User) ChangeRole(role valueobject.Role) {
	u.Role = role
	u.UpdatedAt = time.Now()
}

func (u *User) ChangePassword(password valueobject.HashedPassword) {
	u.Password = password
	u.UpdatedAt = time.Now()
}

// UpdateProfile replaces names and email after validating name bounds.
func (u *User) UpdateProfile(firstName, lastName string, email valueobject.EmailAddress) error {
	if err := ValidateName("first name", firstName); err != nil {
		return err
	}
	if err := ValidateName("last name", lastName); err != nil {
		return err
	}
	if email.IsZero() {
		return apperror.New(apperror.KindMissingField, "email is required")
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.Email = email
	u.UpdatedAt = time.Now()
	return nil
}

func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = at
}

// ValidateName checks the non-blank and 2-50 length bounds shared by first
// and last names.
func ValidateName(field, value string) error {
	if value == "" {
		return apperror.New(apperror.KindMissingField, "%s is required", field)
	}
	if len(value) < minNameLength || len(value) > maxNameLength {
		return apperror.New(apperror.KindMissingField,
			"%s must be between %d and %d characters, got %d", field, minNameLength, maxNameLength, len(value))
	}
	return nil
}
