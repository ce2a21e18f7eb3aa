package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" seller ")
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, r)

	_, err = ParseRole("SELLERS")
	assert.Error(t, err)
}

func TestRoleSet_Permits(t *testing.T) {
	open := NewRoleSet()
	for _, r := range AllRoles() {
		assert.True(t, open.Permits(r), r)
	}

	sellers := NewRoleSet(RoleSeller, RoleUser)
	assert.True(t, sellers.Permits(RoleUser))
	assert.False(t, sellers.Permits(RoleAdmin))
	assert.False(t, sellers.Permits(Role("user")), "membership is exact")
}

func TestUser_SanitizedDropsSecrets(t *testing.T) {
	tok := "refresh"
	otp := 1234
	u := &User{Email: "a@x.com", PasswordHash: "hash", RefreshToken: &tok, OTP: &otp}

	s := u.Sanitized()

	assert.Empty(t, s.PasswordHash)
	assert.Nil(t, s.RefreshToken)
	assert.Nil(t, s.OTP)
	assert.Equal(t, "hash", u.PasswordHash, "original untouched")
}
