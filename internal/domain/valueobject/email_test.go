package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "user@example.com", "user@example.com", false},
		{"trimmed", "  user@example.com  ", "user@example.com", false},
		{"case preserved", "User.Name@Example.COM", "User.Name@Example.COM", false},
		{"plus tag", "user+tag@example.com", "user+tag@example.com", false},
		{"subdomain", "user@mail.example.co.uk", "user@mail.example.co.uk", false},
		{"blank", "", "", true},
		{"whitespace only", "   ", "", true},
		{"no at sign", "userexample.com", "", true},
		{"no tld", "user@example", "", true},
		{"single letter tld", "user@example.c", "", true},
		{"spaces inside", "us er@example.com", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEmailAddress(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Value())
		})
	}
}

func TestEmailAddress_Equal(t *testing.T) {
	a, err := NewEmailAddress("user@example.com")
	require.NoError(t, err)
	b, err := NewEmailAddress("  user@example.com")
	require.NoError(t, err)
	c, err := NewEmailAddress("other@example.com")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestEmailAddress_IsZero(t *testing.T) {
	var zero EmailAddress
	assert.True(t, zero.IsZero())

	e, err := NewEmailAddress("user@example.com")
	require.NoError(t, err)
	assert.False(t, e.IsZero())
}
