package valueobject

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted plaintext length.
const MinPasswordLength = 8

// HashedPassword wraps a bcrypt hash. The plaintext is never stored and the
// String form is always redacted.
type HashedPassword struct {
	hash string
}

// NewHashedPassword wraps an already-hashed value, e.g. loaded from storage.
func NewHashedPassword(hash string) (HashedPassword, error) {
	if strings.TrimSpace(hash) == "" {
		return HashedPassword{}, fmt.Errorf("password hash must not be blank")
	}
	return HashedPassword{hash: hash}, nil
}

// HashPassword hashes a plaintext with a per-call random salt, so two calls on
// the same plaintext yield different hashes.
func HashPassword(plain string) (HashedPassword, error) {
	if len(plain) < MinPasswordLength {
		return HashedPassword{}, fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return HashedPassword{}, err
	}
	return HashedPassword{hash: string(b)}, nil
}

// Matches reports whether plain hashes to the stored value.
func (p HashedPassword) Matches(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(plain)) == nil
}

// Hash returns the raw bcrypt hash for persistence.
func (p HashedPassword) Hash() string { return p.hash }

func (p HashedPassword) IsZero() bool { return p.hash == "" }

func (p HashedPassword) String() string { return "[REDACTED]" }
