package agent

import (
	"fmt"
	"strings"
)

// Role selects an agent's prompt template and sampling options.
type Role int

const (
	RoleCoordinator Role = iota
	RoleFrontend
	RoleBackend
)

// Roles lists every role in pipeline order.
func Roles() []Role {
	return []Role{RoleCoordinator, RoleFrontend, RoleBackend}
}

func (r Role) String() string {
	switch r {
	case RoleCoordinator:
		return "coordinator"
	case RoleFrontend:
		return "frontend"
	case RoleBackend:
		return "backend"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole is the inverse of String, ignoring case.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles() {
		if strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown agent role: %q", s)
}
