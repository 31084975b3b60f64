// Package session models the authenticated caller forwarded by the gateway.
package session

import (
	"context"
	"slices"
	"strings"
)

// Role is a user role granted by the identity service.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleParser          Role = "parser"
	RoleSiteUser        Role = "siteUser"
	RolePremiumUser     Role = "premiumUser"
	RoleChromeExtension Role = "chromeExtension"
)

// Session is the caller context attached to every mutation.
type Session struct {
	UserID    int64
	SessionID int64
	Roles     []Role
}

// Has reports whether the session holds any of the given roles.
func (s Session) Has(roles ...Role) bool {
	for _, r := range roles {
		if slices.Contains(s.Roles, r) {
			return true
		}
	}
	return false
}

// IsPremium reports whether the caller may see premium-only data.
func (s Session) IsPremium() bool { return s.Has(RolePremiumUser) }

// ParseRoles parses a comma separated role list, ignoring unknown entries.
func ParseRoles(raw string) []Role {
	var roles []Role
	for _, part := range strings.Split(raw, ",") {
		switch r := Role(strings.TrimSpace(part)); r {
		case RoleAdmin, RoleParser, RoleSiteUser, RolePremiumUser, RoleChromeExtension:
			if !slices.Contains(roles, r) {
				roles = append(roles, r)
			}
		}
	}
	return roles
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
