package types

import "strings"

// Role identifies which of the three user populations a session belongs to.
type Role string

const (
	// RoleAdmin sees every parcel and operational alert.
	RoleAdmin Role = "admin"

	// RoleAgent is a delivery agent working assigned parcels.
	RoleAgent Role = "agent"

	// RoleCustomer is a sender tracking their own parcels.
	RoleCustomer Role = "customer"
)

// String returns the string representation of a role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleCustomer:
		return true
	}
	return false
}

// ParseRole converts a string into a Role, case-insensitively.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}
