package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	p, err := HashPassword("correcthorse")
	require.NoError(t, err)

	assert.True(t, p.Matches("correcthorse"))
	assert.False(t, p.Matches("wronghorse"))
	assert.NotEqual(t, "correcthorse", p.Hash())
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.Error(t, err)
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	a, err := HashPassword("correcthorse")
	require.NoError(t, err)
	b, err := HashPassword("correcthorse")
	require.NoError(t, err)

	assert.NotEqual(t, a.Hash(), b.Hash())
	assert.True(t, a.Matches("correcthorse"))
	assert.True(t, b.Matches("correcthorse"))
}

func TestNewHashedPassword(t *testing.T) {
	p, err := HashPassword("correcthorse")
	require.NoError(t, err)

	restored, err := NewHashedPassword(p.Hash())
	require.NoError(t, err)
	assert.True(t, restored.Matches("correcthorse"))

	_, err = NewHashedPassword("")
	assert.Error(t, err)
	_, err = NewHashedPassword("   ")
	assert.Error(t, err)
}

func TestHashedPassword_StringRedacted(t *testing.T) {
	p, err := HashPassword("correcthorse")
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]", p.String())
	assert.NotContains(t, p.String(), p.Hash())
}

func TestHashedPassword_IsZero(t *testing.T) {
	var zero HashedPassword
	assert.True(t, zero.IsZero())
}
