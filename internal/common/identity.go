package common

import "context"

// Role names carried by access tokens.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleCustomer = "customer"
)

// Identity describes the authenticated caller: who they are, which company
// they belong to, and (for agency-scoped staff) which agency they act for.
// Workflows receive it explicitly through the context set by the auth
// middleware instead of reading ambient global state.
type Identity struct {
	UserID    string
	CompanyID string
	AgencyID  string
	Role      string
}

// ValidRole reports whether the value is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleCustomer
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool { return id.Role == RoleAdmin }

// IsStaff reports whether the identity is an admin or an agency manager.
func (id Identity) IsStaff() bool { return id.Role == RoleAdmin || id.Role == RoleManager }

type identityKey struct{}

// WithIdentity stores the authenticated identity on the provided context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom extracts the authenticated identity from the context.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}
