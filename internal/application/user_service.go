package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shoplite/catalog-backend/internal/domain/apperror"
	"github.com/shoplite/catalog-backend/internal/domain/entity"
	repo "github.com/shoplite/catalog-backend/internal/domain/repository"
	"github.com/shoplite/catalog-backend/internal/domain/valueobject"
	"github.com/shoplite/catalog-backend/pkg/helpers"
	"github.com/shoplite/catalog-backend/pkg/mailer"
)

const (
	sessionTTL      = 24 * time.Hour
	verifyCodeTTL   = 24 * time.Hour
	verifyTemplate  = "verify_email"
	welcomeTemplate = "welcome"
)

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// UserService orchestrates the user lifecycle: registration, authentication,
// profile and credential changes, role changes, and the independent
// active/email-verified flags. It holds no state between calls.
type UserService struct {
	Users       repo.UserRepository
	JWT         *helpers.JWTManager
	Redis       *redis.Client
	Logger      *logrus.Logger
	Pub         *helpers.RabbitPublisher
	MailEnabled bool
}

func NewUserService(users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, pub *helpers.RabbitPublisher, mailEnabled bool) *UserService {
	return &UserService{
		Users:       users,
		JWT:         jwt,
		Redis:       rdb,
		Logger:      logger,
		Pub:         pub,
		MailEnabled: mailEnabled,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// validateCandidate checks the required user fields; each absent field yields
// its own message.
func validateCandidate(candidate *entity.User) error {
	if err := entity.ValidateName("first name", candidate.FirstName); err != nil {
		return err
	}
	if err := entity.ValidateName("last name", candidate.LastName); err != nil {
		return err
	}
	if candidate.Email.IsZero() {
		return apperror.New(apperror.KindMissingField, "email is required")
	}
	if candidate.Role == "" {
		return apperror.New(apperror.KindMissingField, "role is required")
	}
	return nil
}

// RegisterUser validates the candidate, enforces global email uniqueness and
// persists the user inactive and unverified. A verification email job is
// queued when mail sending is enabled.
func (s *UserService) RegisterUser(ctx context.Context, candidate *entity.User) (*entity.User, error) {
	if err := validateCandidate(candidate); err != nil {
		return nil, err
	}
	if candidate.Password.IsZero() {
		return nil, apperror.New(apperror.KindMissingField, "password is required")
	}
	exists, err := s.Users.ExistsByEmail(candidate.Email.Value())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.New(apperror.KindDuplicateEmail, "email %s is already registered", candidate.Email)
	}

	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	candidate.Active = false
	candidate.EmailVerified = false
	now := time.Now()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	if err := s.Users.Create(candidate); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": candidate.ID, "email": candidate.Email.Value()}).Info("user registered")
	}
	s.sendVerificationCode(ctx, candidate)
	return candidate, nil
}

// AuthenticateUser checks credentials against an active account and records
// the login time on success.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.New(apperror.KindNotFound, "no user with email %s", email)
	}
	if !u.Active {
		return nil, apperror.New(apperror.KindInactiveAccount, "account %s is inactive", u.ID)
	}
	if !u.Password.Matches(password) {
		return nil, apperror.New(apperror.KindInvalidCredential, "invalid credentials for %s", email)
	}
	u.RecordLogin(time.Now())
	if err := s.Users.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login authenticates and issues a token pair backed by a Redis session.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.AuthenticateUser(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email.Value(),
			"name":       u.FullName(),
			"role":       u.Role.String(),
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session id and both tokens after validating the refresh
// token against the current session.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", apperror.New(apperror.KindInvalidCredential, "invalid refresh token")
	}
	u, err := s.Users.GetByID(claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", apperror.New(apperror.KindInvalidCredential, "invalid refresh token")
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", apperror.New(apperror.KindInvalidCredential, "session expired")
		}
	}
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		_, _ = pipe.Exec(ctx)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, u.ID, nil
}

// UpdateUser re-validates required fields, re-checks email uniqueness when the
// email changed, and restricts role changes to admin-privileged actors.
// Non-admin actors may only update their own profile. An empty candidate role
// keeps the current one.
func (s *UserService) UpdateUser(ctx context.Context, id string, candidate *entity.User, acting *entity.User) (*entity.User, error) {
	existing, err := s.getExisting(id)
	if err != nil {
		return nil, err
	}
	if acting != nil && acting.ID != existing.ID && !acting.Role.IsAdminPrivileged() {
		return nil, apperror.New(apperror.KindForbidden, "cannot update another user's profile")
	}
	if candidate.Role == "" {
		candidate.Role = existing.Role
	}
	if err := validateCandidate(candidate); err != nil {
		return nil, err
	}
	if !existing.Email.Equal(candidate.Email) {
		other, err := s.Users.GetByEmail(candidate.Email.Value())
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != existing.ID {
			return nil, apperror.New(apperror.KindDuplicateEmail, "email %s is already registered", candidate.Email)
		}
	}
	if candidate.Role != existing.Role {
		if acting == nil || !acting.Role.IsAdminPrivileged() {
			return nil, apperror.New(apperror.KindForbidden, "changing roles requires an admin-privileged actor")
		}
		existing.ChangeRole(candidate.Role)
	}
	if err := existing.UpdateProfile(candidate.FirstName, candidate.LastName, candidate.Email); err != nil {
		return nil, err
	}
	if err := s.Users.Update(existing); err != nil {
		return nil, err
	}
	s.refreshSessionFields(ctx, existing)
	return existing, nil
}

// ChangePassword swaps the credential after verifying the current one. The
// new password must differ from the current one.
func (s *UserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) (*entity.User, error) {
	u, err := s.getExisting(id)
	if err != nil {
		return nil, err
	}
	if !u.Password.Matches(currentPassword) {
		return nil, apperror.New(apperror.KindInvalidCredential, "current password does not match for user %s", u.ID)
	}
	if u.Password.Matches(newPassword) {
		return nil, apperror.New(apperror.KindSamePassword, "new password must differ from the current password")
	}
	hashed, err := valueobject.HashPassword(newPassword)
	if err != nil {
		return nil, apperror.New(apperror.KindMissingField, "%s", err.Error())
	}
	u.ChangePassword(hashed)
	if err := s.Users.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangeRole is admin-only, and even admins cannot change their own role.
func (s *UserService) ChangeRole(ctx context.Context, id string, newRole valueobject.Role, acting *entity.User) (*entity.User, error) {
	u, err := s.getExisting(id)
	if err != nil {
		return nil, err
	}
	if acting == nil || !acting.Role.IsAdminPrivileged() {
		return nil, apperror.New(apperror.KindForbidden, "changing roles requires an admin-privileged actor")
	}
	if acting.ID == u.ID {
		return nil, apperror.New(apperror.KindCannotActOnSelf, "user %s cannot change their own role", u.ID)
	}
	u.ChangeRole(newRole)
	if err := s.Users.Update(u); err != nil {
		return nil, err
	}
	s.refreshSessionFields(ctx, u)
	return u, nil
}

// ActivateUser flips the account on; activating twice fails.
func (s *UserService) ActivateUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.getExisting(id)
	if err != nil {
		return nil, err
	}
	if err := u.Activate(); err != nil {
		return nil, err
	}
	if err := s.Users.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeactivateUser flips the account off; users cannot deactivate themselves.
func (s *UserService) DeactivateUser(ctx context.Context, id string, acting *entity.User) (*entity.User, error) {
	u, err := s.getExisting(id)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, apperror.New(apperror.KindAlreadyInactive, "user %s is already inactive", u.ID)
	}
	if acting != nil && acting.ID == u.ID {
		return nil, apperror.New(apperror.KindCannotActOnSelf, "user %s cannot deactivate their own account", u.ID)
	}
	if err := u.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.Users.Update(u); err != nil {
		return nil, err
	}
	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, sessionKey(u.ID))
	}
	return u, nil
}

// VerifyEmail marks the account email as verified; verifying twice fails.
// The active flag is left alone, a verified account can still be inactive.
func (s *UserService) VerifyEmail(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.getExisting(id)
	if err != nil {
		return nil, err
	}
	if err := u.VerifyEmail(); err != nil {
		return nil, err
	}
	if err := s.Users.Update(u); err != nil {
		return nil, err
	}
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, helpers.KeyVerifyCode(u.ID)).Err()
	}
	s.sendWelcomeEmail(ctx, u)
	return u, nil
}

// ConfirmVerificationCode checks a 6-digit emailed code before verifying.
// Registration leaves new accounts inactive until this step, so a successful
// confirmation also activates an account still in that state.
func (s *UserService) ConfirmVerificationCode(ctx context.Context, id, code string) (*entity.User, error) {
	if s.Redis == nil {
		return nil, apperror.New(apperror.KindInvalidCredential, "verification unavailable")
	}
	stored, err := s.Redis.Get(ctx, helpers.KeyVerifyCode(id)).Result()
	if err != nil || stored == "" || stored != code {
		return nil, apperror.New(apperror.KindInvalidCredential, "invalid or expired verification code")
	}
	u, err := s.VerifyEmail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		if err := u.Activate(); err != nil {
			return nil, err
		}
		if err := s.Users.Update(u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// InitEmailVerification issues (or reissues) a verification code for an
// unverified account.
func (s *UserService) InitEmailVerification(ctx context.Context, id string) error {
	u, err := s.getExisting(id)
	if err != nil {
		return err
	}
	if u.EmailVerified {
		return apperror.New(apperror.KindAlreadyVerified, "email of user %s is already verified", u.ID)
	}
	s.sendVerificationCode(ctx, u)
	return nil
}

// Logout drops the server-side session so both tokens stop working
// regardless of their remaining lifetime.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, sessionKey(userID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	return s.getExisting(id)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.New(apperror.KindNotFound, "no user with email %s", email)
	}
	return u, nil
}

// ListUsers returns one page of users plus the total count.
func (s *UserService) ListUsers(ctx context.Context, page, pageSize int) ([]*entity.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	items, err := s.Users.List(page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Users.Count()
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *UserService) getExisting(id string) (*entity.User, error) {
	u, err := s.Users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.New(apperror.KindNotFound, "user %s not found", id)
	}
	return u, nil
}

func (s *UserService) refreshSessionFields(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := sessionKey(u.ID)
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"email":      u.Email.Value(),
		"name":       u.FullName(),
		"role":       u.Role.String(),
		"updated_at": nowRFC3339(),
	})
	if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
		s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
	}
}

// sendVerificationCode stores a short-lived code in Redis and queues the
// verification email.
func (s *UserService) sendVerificationCode(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	code, err := helpers.GenOTPCode()
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("verification code generation failed")
		}
		return
	}
	if s.Redis != nil {
		_ = s.Redis.Set(ctx, helpers.KeyVerifyCode(u.ID), code, verifyCodeTTL).Err()
	}
	job := mailer.EmailJob{
		To:       u.Email.Value(),
		Template: verifyTemplate,
		Data: map[string]any{
			"Name":  u.FullName(),
			"Email": u.Email.Value(),
			"Code":  code,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("verification email enqueue failed")
	}
}

func (s *UserService) sendWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email.Value(),
		Template: welcomeTemplate,
		Data: map[string]any{
			"Name":  u.FullName(),
			"Email": u.Email.Value(),
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}
