// Package policy implements the access-control matrix for the booking API.
// The decision function is pure: it never touches storage, and ownership
// facts are resolved by the caller before the decision is requested.
package policy

import "github.com/arklim/cinema-booking/internal/core/domain"

// Decision is the outcome of an authorization check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Operation enumerates the actions a caller can request on a resource kind.
type Operation string

const (
	Create     Operation = "create"
	ReadOne    Operation = "read_one"
	ReadMany   Operation = "read_many"
	ReadSelf   Operation = "read_self"
	UpdateSelf Operation = "update_self"
	// UpdateOther is a field-level update on a resource the caller does not own.
	UpdateOther Operation = "update_other"
	Activate    Operation = "activate"
	Deactivate  Operation = "deactivate"
	Delete      Operation = "delete"
)

// ResourceKind enumerates the resource families the matrix ranges over.
type ResourceKind string

const (
	ClientUser ResourceKind = "client_user"
	StaffUser  ResourceKind = "staff_user"
	AdminUser  ResourceKind = "admin_user"
	Movie      ResourceKind = "movie"
	Ticket     ResourceKind = "ticket"
)

// UserKind maps a user role to the resource kind its account belongs to.
func UserKind(role domain.Role) ResourceKind {
	switch role {
	case domain.RoleStaff:
		return StaffUser
	case domain.RoleAdmin:
		return AdminUser
	default:
		return ClientUser
	}
}

// Decide resolves whether the principal may perform op on a resource of the
// given kind. ownerID identifies the owning user for instance-scoped
// operations (a ticket's owner, a profile's subject) and is empty when the
// operation is not instance-scoped or the owner is unknown. Decide never
// errors; unknown combinations fall through to Deny.
func Decide(p domain.Principal, op Operation, kind ResourceKind, ownerID string) Decision {
	if p.IsAnonymous() {
		// Self-registration is the only operation open to anonymous callers.
		if op == Create && kind == ClientUser {
			return Allow
		}
		return Deny
	}

	switch p.Role {
	case domain.RoleClient:
		return decideClient(p, op, kind, ownerID)
	case domain.RoleStaff:
		return decideStaff(p, op, kind, ownerID)
	case domain.RoleAdmin:
		return decideAdmin(p, op, kind, ownerID)
	}
	return Deny
}

func decideClient(p domain.Principal, op Operation, kind ResourceKind, ownerID string) Decision {
	switch kind {
	case Movie:
		if op == ReadOne || op == ReadMany {
			return Allow
		}
	case Ticket:
		switch op {
		case Create, ReadOne, ReadSelf, UpdateSelf, Delete:
			if ownerID != "" && ownerID == p.UserID {
				return Allow
			}
		}
	case ClientUser:
		switch op {
		case ReadSelf, UpdateSelf:
			if ownerID != "" && ownerID == p.UserID {
				return Allow
			}
		}
	}
	return Deny
}

func decideStaff(p domain.Principal, op Operation, kind ResourceKind, ownerID string) Decision {
	switch kind {
	case Movie:
		switch op {
		case Create, ReadOne, ReadMany, UpdateOther, Delete:
			return Allow
		}
	case Ticket:
		// Staff observe the whole ticket ledger but never mutate it.
		if op == ReadOne || op == ReadMany {
			return Allow
		}
	case ClientUser:
		switch op {
		case Create, ReadOne, ReadMany, Activate, Deactivate:
			return Allow
		}
	case StaffUser:
		switch op {
		case Create:
			return Allow
		case ReadSelf, UpdateSelf:
			if ownerID != "" && ownerID == p.UserID {
				return Allow
			}
		}
	}
	return Deny
}

func decideAdmin(p domain.Principal, op Operation, kind ResourceKind, ownerID string) Decision {
	switch kind {
	case ClientUser, StaffUser, AdminUser:
		switch op {
		case Create, ReadOne, ReadMany, ReadSelf, Activate, Deactivate, Delete:
			return Allow
		case UpdateSelf:
			if ownerID != "" && ownerID == p.UserID {
				return Allow
			}
		case UpdateOther:
			// Admins read and manage other admins' lifecycle but may not edit
			// another admin's fields.
			if kind != AdminUser {
				return Allow
			}
		}
	}
	// Admin is administrative-only: all Movie and Ticket operations denied.
	return Deny
}
