package domain

import "github.com/google/uuid"

// Role of the caller as reported by the identity collaborator.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleBusiness Role = "business"
	RoleSystem   Role = "system"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// SystemActor is used for transitions made by the engine itself (expiry sweep, payment callbacks).
func SystemActor() Actor {
	return Actor{UserID: uuid.Nil, Role: RoleSystem}
}

// IsSystem reports whether the actor is the engine or a trusted collaborator.
func (a Actor) IsSystem() bool {
	return a.Role == RoleSystem
}

// ParseRole maps a header value to a Role, defaulting to customer.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleBusiness:
		return RoleBusiness
	case RoleSystem:
		return RoleSystem
	default:
		return RoleCustomer
	}
}
