package valueobject

import (
	"fmt"
	"strings"
)

// Role is the authorization role of a user.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
)

// ParseRole normalizes the input to upper-case and rejects unknown values.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleManager:
		return RoleManager, nil
	default:
		return "", fmt.Errorf("invalid role %q", raw)
	}
}

// IsAdminPrivileged is true for roles allowed to manage other users.
func (r Role) IsAdminPrivileged() bool { return r == RoleAdmin || r == RoleManager }

func (r Role) IsCustomer() bool { return r == RoleCustomer }

func (r Role) String() string { return string(r) }
