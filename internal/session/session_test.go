package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoles(t *testing.T) {
	roles := ParseRoles(" parser,premiumUser,unknown,parser ")
	assert.Equal(t, []Role{RoleParser, RolePremiumUser}, roles)
	assert.Empty(t, ParseRoles(""))
}

func TestSessionHas(t *testing.T) {
	s := Session{UserID: 7, Roles: []Role{RoleSiteUser}}
	assert.True(t, s.Has(RoleAdmin, RoleSiteUser))
	assert.False(t, s.Has(RoleParser))
	assert.False(t, s.IsPremium())
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), Session{UserID: 3, SessionID: 11})
	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(11), got.SessionID)
}
