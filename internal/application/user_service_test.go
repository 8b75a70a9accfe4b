package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplite/catalog-backend/internal/domain/apperror"
	"github.com/shoplite/catalog-backend/internal/domain/entity"
	"github.com/shoplite/catalog-backend/internal/domain/valueobject"
	"github.com/shoplite/catalog-backend/pkg/helpers"
)

const testPassword = "password123"

var (
	testHashOnce sync.Once
	testHash     valueobject.HashedPassword
)

// hashed bcrypt value shared across tests; hashing per test would dominate
// the suite runtime.
func testHashedPassword(t *testing.T) valueobject.HashedPassword {
	t.Helper()
	testHashOnce.Do(func() {
		h, err := valueobject.HashPassword(testPassword)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		testHash = h
	})
	return testHash
}

func newUserFixture(t *testing.T) (*UserService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	jwt := helpers.NewJWTManager("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
	return NewUserService(users, jwt, nil, nil, nil, false), users
}

func storedUser(t *testing.T, users *fakeUserRepo, id, emailAddr string, role valueobject.Role, active bool) *entity.User {
	t.Helper()
	email, err := valueobject.NewEmailAddress(emailAddr)
	require.NoError(t, err)
	u := entity.User{
		ID:        id,
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  testHashedPassword(t),
		Role:      role,
		Active:    active,
	}
	users.items[id] = u
	cp := u
	return &cp
}

func registerCandidate(t *testing.T, emailAddr string) *entity.User {
	t.Helper()
	email, err := valueobject.NewEmailAddress(emailAddr)
	require.NoError(t, err)
	return &entity.User{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  testHashedPassword(t),
		Role:      valueobject.RoleCustomer,
	}
}

func TestRegisterUser(t *testing.T) {
	svc, users := newUserFixture(t)

	u, err := svc.RegisterUser(context.Background(), registerCandidate(t, "jane@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.Active)
	assert.False(t, u.EmailVerified)
	assert.Len(t, users.items, 1)
}

func TestRegisterUser_MissingFields(t *testing.T) {
	svc, users := newUserFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*entity.User)
	}{
		{"blank first name", func(u *entity.User) { u.FirstName = "" }},
		{"short last name", func(u *entity.User) { u.LastName = "D" }},
		{"missing email", func(u *entity.User) { u.Email = valueobject.EmailAddress{} }},
		{"missing role", func(u *entity.User) { u.Role = "" }},
		{"missing password", func(u *entity.User) { u.Password = valueobject.HashedPassword{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := registerCandidate(t, "jane@example.com")
			tt.mutate(c)
			_, err := svc.RegisterUser(ctx, c)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindMissingField))
			assert.Empty(t, users.items)
		})
	}
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, registerCandidate(t, "jane@example.com"))
	require.NoError(t, err)

	_, err = svc.RegisterUser(ctx, registerCandidate(t, "jane@example.com"))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindDuplicateEmail))
	assert.Contains(t, err.Error(), "jane@example.com")
}

func TestAuthenticateUser(t *testing.T) {
	svc, users := newUserFixture(t)
	storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)

	u, err := svc.AuthenticateUser(context.Background(), "jane@example.com", testPassword)
	require.NoError(t, err)
	require.NotNil(t, u.LastLoginAt)
	assert.NotNil(t, users.items["u1"].LastLoginAt)
}

func TestAuthenticateUser_Failures(t *testing.T) {
	svc, users := newUserFixture(t)
	storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)
	storedUser(t, users, "u2", "off@example.com", valueobject.RoleCustomer, false)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantKind apperror.Kind
	}{
		{"unknown email", "who@example.com", testPassword, apperror.KindNotFound},
		{"inactive account", "off@example.com", testPassword, apperror.KindInactiveAccount},
		{"wrong password", "jane@example.com", "not-the-password", apperror.KindInvalidCredential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AuthenticateUser(ctx, tt.email, tt.password)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, tt.wantKind), "got kind %s", apperror.KindOf(err))
		})
	}
}

func TestAuthenticateUser_InactiveCheckedBeforePassword(t *testing.T) {
	svc, users := newUserFixture(t)
	storedUser(t, users, "u1", "off@example.com", valueobject.RoleCustomer, false)

	// wrong password against an inactive account still reports inactive
	_, err := svc.AuthenticateUser(context.Background(), "off@example.com", "not-the-password")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInactiveAccount))
}

func TestLoginAndRefresh(t *testing.T) {
	svc, users := newUserFixture(t)
	storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)
	ctx := context.Background()

	u, pair, err := svc.Login(ctx, "jane@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.AccessTokenExpiry.After(time.Now()))

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.NotEmpty(t, claims.SessionID)

	next, userID, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.NotEmpty(t, next.AccessToken)

	_, _, err = svc.Refresh(ctx, "not-a-token")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidCredential))
}

func TestUpdateUser_Profile(t *testing.T) {
	svc, users := newUserFixture(t)
	u := storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)

	cand := registerCandidate(t, "jane.smith@example.com")
	cand.LastName = "Smith"
	cand.Role = "" // keep current

	out, err := svc.UpdateUser(context.Background(), u.ID, cand, u)
	require.NoError(t, err)
	assert.Equal(t, "Smith", out.LastName)
	assert.Equal(t, "jane.smith@example.com", out.Email.Value())
	assert.Equal(t, valueobject.RoleCustomer, out.Role)
}

func TestUpdateUser_EmailTaken(t *testing.T) {
	svc, users := newUserFixture(t)
	u := storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)
	storedUser(t, users, "u2", "taken@example.com", valueobject.RoleCustomer, true)

	cand := registerCandidate(t, "taken@example.com")
	_, err := svc.UpdateUser(context.Background(), u.ID, cand, u)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindDuplicateEmail))
}

func TestUpdateUser_KeepOwnEmail(t *testing.T) {
	svc, users := newUserFixture(t)
	u := storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)

	// unchanged email must not collide with itself
	cand := registerCandidate(t, "jane@example.com")
	cand.FirstName = "Janet"
	out, err := svc.UpdateUser(context.Background(), u.ID, cand, u)
	require.NoError(t, err)
	assert.Equal(t, "Janet", out.FirstName)
}

func TestUpdateUser_RoleChangeNeedsAdmin(t *testing.T) {
	svc, users := newUserFixture(t)
	u := storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)

	cand := registerCandidate(t, "jane@example.com")
	cand.Role = valueobject.RoleManager
	_, err := svc.UpdateUser(context.Background(), u.ID, cand, u)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	admin := storedUser(t, users, "a1", "admin@example.com", valueobject.RoleAdmin, true)
	out, err := svc.UpdateUser(context.Background(), u.ID, cand, admin)
	require.NoError(t, err)
	assert.Equal(t, valueobject.RoleManager, out.Role)
}

func TestUpdateUser_OtherProfileNeedsAdmin(t *testing.T) {
	svc, users := newUserFixture(t)
	storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)
	other := storedUser(t, users, "u2", "other@example.com", valueobject.RoleCustomer, true)

	cand := registerCandidate(t, "jane@example.com")
	_, err := svc.UpdateUser(context.Background(), "u1", cand, other)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestChangePassword(t *testing.T) {
	svc, users := newUserFixture(t)
	u := storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)

	out, err := svc.ChangePassword(context.Background(), u.ID, testPassword, "brand-new-pass")
	require.NoError(t, err)
	assert.True(t, out.Password.Matches("brand-new-pass"))
	assert.False(t, out.Password.Matches(testPassword))
	assert.True(t, users.items["u1"].Password.Matches("brand-new-pass"))
}

func TestChangePassword_Failures(t *testing.T) {
	svc, users := newUserFixture(t)
	u := storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)
	ctx := context.Background()

	tests := []struct {
		name     string
		current  string
		next     string
		wantKind apperror.Kind
	}{
		{"wrong current", "not-the-password", "brand-new-pass", apperror.KindInvalidCredential},
		{"same as current", testPassword, testPassword, apperror.KindSamePassword},
		{"too short", testPassword, "short", apperror.KindMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ChangePassword(ctx, u.ID, tt.current, tt.next)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, tt.wantKind), "got kind %s", apperror.KindOf(err))
		})
	}
	assert.True(t, users.items["u1"].Password.Matches(testPassword))
}

func TestChangeRole(t *testing.T) {
	svc, users := newUserFixture(t)
	storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)
	admin := storedUser(t, users, "a1", "admin@example.com", valueobject.RoleAdmin, true)

	out, err := svc.ChangeRole(context.Background(), "u1", valueobject.RoleManager, admin)
	require.NoError(t, err)
	assert.Equal(t, valueobject.RoleManager, out.Role)
}

func TestChangeRole_Forbidden(t *testing.T) {
	svc, users := newUserFixture(t)
	customer := storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)
	storedUser(t, users, "u2", "other@example.com", valueobject.RoleCustomer, true)

	_, err := svc.ChangeRole(context.Background(), "u2", valueobject.RoleAdmin, customer)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestChangeRole_Self(t *testing.T) {
	svc, users := newUserFixture(t)
	admin := storedUser(t, users, "a1", "admin@example.com", valueobject.RoleAdmin, true)

	_, err := svc.ChangeRole(context.Background(), admin.ID, valueobject.RoleCustomer, admin)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindCannotActOnSelf))
	assert.Equal(t, valueobject.RoleAdmin, users.items["a1"].Role)
}

func TestActivateUser(t *testing.T) {
	svc, users := newUserFixture(t)
	storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, false)
	ctx := context.Background()

	out, err := svc.ActivateUser(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, out.Active)

	_, err = svc.ActivateUser(ctx, "u1")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAlreadyActive))
}

func TestDeactivateUser(t *testing.T) {
	svc, users := newUserFixture(t)
	storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)
	admin := storedUser(t, users, "a1", "admin@example.com", valueobject.RoleAdmin, true)
	ctx := context.Background()

	out, err := svc.DeactivateUser(ctx, "u1", admin)
	require.NoError(t, err)
	assert.False(t, out.Active)

	_, err = svc.DeactivateUser(ctx, "u1", admin)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAlreadyInactive))
}

func TestDeactivateUser_Self(t *testing.T) {
	svc, users := newUserFixture(t)
	admin := storedUser(t, users, "a1", "admin@example.com", valueobject.RoleAdmin, true)

	_, err := svc.DeactivateUser(context.Background(), admin.ID, admin)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindCannotActOnSelf))
	assert.True(t, users.items["a1"].Active)
}

func TestVerifyEmail(t *testing.T) {
	svc, users := newUserFixture(t)
	storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, false)
	ctx := context.Background()

	out, err := svc.VerifyEmail(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, out.EmailVerified)
	// verified and active stay independent flags
	assert.False(t, out.Active)

	_, err = svc.VerifyEmail(ctx, "u1")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAlreadyVerified))
}

func TestConfirmVerificationCode(t *testing.T) {
	mr := miniredis.RunT(t)
	svc, users := newUserFixture(t)
	svc.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, false)
	ctx := context.Background()

	require.NoError(t, mr.Set(helpers.KeyVerifyCode("u1"), "123456"))

	_, err := svc.ConfirmVerificationCode(ctx, "u1", "654321")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidCredential))

	// confirming the code brings a freshly registered account online
	out, err := svc.ConfirmVerificationCode(ctx, "u1", "123456")
	require.NoError(t, err)
	assert.True(t, out.EmailVerified)
	assert.True(t, out.Active)
	persisted := users.items["u1"]
	assert.True(t, persisted.Active)
	assert.True(t, persisted.EmailVerified)
}

func TestInitEmailVerification_AlreadyVerified(t *testing.T) {
	svc, users := newUserFixture(t)
	u := storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)
	u.EmailVerified = true
	users.items["u1"] = *u

	err := svc.InitEmailVerification(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAlreadyVerified))
}

func TestGetUserByEmail(t *testing.T) {
	svc, users := newUserFixture(t)
	storedUser(t, users, "u1", "jane@example.com", valueobject.RoleCustomer, true)
	ctx := context.Background()

	u, err := svc.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = svc.GetUserByEmail(ctx, "who@example.com")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestListUsers(t *testing.T) {
	svc, users := newUserFixture(t)
	storedUser(t, users, "u1", "a@example.com", valueobject.RoleCustomer, true)
	storedUser(t, users, "u2", "b@example.com", valueobject.RoleCustomer, true)
	storedUser(t, users, "u3", "c@example.com", valueobject.RoleCustomer, true)

	items, total, err := svc.ListUsers(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(3), total)
}
