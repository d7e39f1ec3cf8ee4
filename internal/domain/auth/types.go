package auth

// Package auth contains domain-level types for the client-side session.
// It is pure and free of transport/adapter concerns.

import "encoding/json"

// Role represents an authorization role granted by the banking backend.
// Kept in string form for easy persistence; matching is case-sensitive
// against the fixed set below.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
	RoleAuditor  Role = "AUDITOR"
)

// KnownRoles lists every role the backend can grant, in a stable order.
var KnownRoles = []Role{RoleAdmin, RoleCustomer, RoleAuditor}

// IsKnown reports whether r is one of the roles the backend defines.
func (r Role) IsKnown() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleAuditor:
		return true
	default:
		return false
	}
}

// Credential is the durable record of an authenticated session: the opaque
// bearer token plus the roles granted at login. Token and roles are always
// written and cleared together; an empty token means logged out regardless
// of any leftover roles.
type Credential struct {
	Token string `json:"token"`
	Roles []Role `json:"roles"`
}

// Present reports whether the credential carries a token.
func (c Credential) Present() bool { return c.Token != "" }

// HasRole reports whether the credential grants the given role.
// Exact, case-sensitive match.
func (c Credential) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DecodeRoles parses a serialized role list. Malformed input decodes to an
// empty set rather than an error: a corrupted store must degrade to "no
// privileged access", never break the session layer.
func DecodeRoles(raw []byte) []Role {
	if len(raw) == 0 {
		return nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil
	}
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		roles = append(roles, Role(n))
	}
	return roles
}

// EncodeRoles serializes roles to the stored wire form.
func EncodeRoles(roles []Role) []byte {
	if roles == nil {
		roles = []Role{}
	}
	data, err := json.Marshal(roles)
	if err != nil {
		// []Role always marshals; keep the store write path infallible.
		return []byte("[]")
	}
	return data
}
