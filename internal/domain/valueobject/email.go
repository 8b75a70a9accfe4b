package valueobject

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// EmailAddress is a validated email. The stored value is the trimmed original
// with case preserved; equality uses the trimmed value.
type EmailAddress struct {
	value string
}

func NewEmailAddress(raw string) (EmailAddress, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return EmailAddress{}, fmt.Errorf("email must not be blank")
	}
	if !emailPattern.MatchString(v) {
		return EmailAddress{}, fmt.Errorf("invalid email address %q", v)
	}
	return EmailAddress{value: v}, nil
}

func (e EmailAddress) Value() string  { return e.value }
func (e EmailAddress) String() string { return e.value }
func (e EmailAddress) IsZero() bool   { return e.value == "" }

func (e EmailAddress) Equal(other EmailAddress) bool { return e.value == other.value }
