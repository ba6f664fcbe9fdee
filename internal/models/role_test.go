package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupRole(t *testing.T) {
	info := LookupRole(RoleSuperAdmin)
	assert.Equal(t, "Super Admin", info.Label)
	assert.Equal(t, "error", info.Color)
	assert.Equal(t, TierAdmin, info.Tier)

	unknown := LookupRole("courier_lead")
	assert.Equal(t, "courier_lead", unknown.Label)
	assert.Equal(t, "default", unknown.Color)
	assert.Equal(t, TierUnknown, unknown.Tier)
	assert.False(t, UserRole("courier_lead").Valid())
}

func TestIsCustomerRole(t *testing.T) {
	assert.True(t, IsCustomerRole(RoleConsumer))
	assert.True(t, IsCustomerRole(""))
	assert.False(t, IsCustomerRole(RoleDeveloper))
}

func TestLastPage(t *testing.T) {
	assert.Equal(t, 1, LastPage(0, 10))
	assert.Equal(t, 1, LastPage(3, 10))
	assert.Equal(t, 1, LastPage(10, 10))
	assert.Equal(t, 2, LastPage(11, 10))
	assert.Equal(t, 5, LastPage(42, 10))
}

func TestRegistrationStatusTerminal(t *testing.T) {
	assert.False(t, RegistrationPending.Terminal())
	assert.True(t, RegistrationApproved.Terminal())
	assert.True(t, RegistrationRejected.Terminal())
	assert.Equal(t, "Ada Obi", Registration{FirstName: "Ada", LastName: "Obi"}.FullName())
}
