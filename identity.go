package moderator

import (
	"context"
	"fmt"
	"strings"
)

// Role is the staff role carried by the "role" claim.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleMod   Role = "mod"
)

// ClaimRole is the name of the custom claim holding the staff role.
const ClaimRole = "role"

// Claims are the signed assertions attached to a principal's token.
type Claims map[string]any

// Role returns the role claim, or "" when the claim is absent or not a string.
func (c Claims) Role() Role {
	role, _ := c[ClaimRole].(string)
	return Role(role)
}

// IsStaff reports whether the claims grant moderation rights.
func IsStaff(claims Claims) bool {
	role := claims.Role()
	return role == RoleAdmin || role == RoleMod
}

// ValidateRole parses a role assignable to staff accounts.
func ValidateRole(role string) (Role, error) {
	r := Role(strings.TrimSpace(role))
	if r != RoleAdmin && r != RoleMod {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	return r, nil
}

// Principal is a signed-in account.
type Principal struct {
	UID   string
	Email string
}

// Actor is a principal together with the claims it acts under.
type Actor struct {
	Principal
	Claims Claims
}

// IsStaff reports whether the actor may moderate.
func (a *Actor) IsStaff() bool {
	return a != nil && IsStaff(a.Claims)
}

// IdentityProvider authenticates staff and resolves their claims.
type IdentityProvider interface {
	SignIn(ctx context.Context) (*Principal, error)
	SignOut(ctx context.Context) error
	// FreshClaims MUST bypass any cached token: stale role claims would
	// grant or deny moderation rights incorrectly.
	FreshClaims(ctx context.Context, principal *Principal) (Claims, error)
}
