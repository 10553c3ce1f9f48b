package user

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// RoleAdmin is the role granted to the bootstrap account.
const RoleAdmin = "admin"

// Roles is an ordered set of role names.
// It is persisted as a comma-joined string; empty means no roles.
type Roles []string

// ParseRoles splits a comma-joined role string into a normalized set.
func ParseRoles(s string) Roles {
	return NewRoles(strings.Split(s, ",")...)
}

// NewRoles builds a set from names, trimming whitespace and dropping
// blanks and duplicates while keeping first-seen order.
func NewRoles(names ...string) Roles {
	roles := make(Roles, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		roles = append(roles, name)
	}
	return roles
}

// Has reports whether role is in the set.
func (r Roles) Has(role string) bool {
	for _, name := range r {
		if name == role {
			return true
		}
	}
	return false
}

// String returns the comma-joined form.
func (r Roles) String() string {
	return strings.Join(r, ",")
}

// Value implements driver.Valuer.
func (r Roles) Value() (driver.Value, error) {
	return NewRoles(r...).String(), nil
}

// Scan implements sql.Scanner.
func (r *Roles) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = Roles{}
	case string:
		*r = ParseRoles(v)
	case []byte:
		*r = ParseRoles(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Roles", src)
	}
	return nil
}
