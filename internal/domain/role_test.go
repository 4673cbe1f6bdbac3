package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avsuhas/hoa-backend/internal/domain"
)

func TestParseRole(t *testing.T) {
	role, err := domain.ParseRole("board_member")
	require.NoError(t, err)
	require.Equal(t, domain.RoleBoardMember, role)

	role, err = domain.ParseRole("  Resident ")
	require.NoError(t, err)
	require.Equal(t, domain.RoleResident, role)
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	_, err := domain.ParseRole("janitor")
	require.ErrorIs(t, err, domain.ErrInvalidRole)
	require.Contains(t, err.Error(), "super_admin")
	require.Contains(t, err.Error(), "tenant")

	_, err = domain.ParseRole("")
	require.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestElevatableExcludesSuperAdmin(t *testing.T) {
	require.False(t, domain.RoleSuperAdmin.Elevatable())
	require.False(t, domain.RoleResident.Elevatable())
	require.False(t, domain.RoleTenant.Elevatable())
	require.True(t, domain.RolePropertyManager.Elevatable())
	require.True(t, domain.RoleBoardMember.Elevatable())
	require.True(t, domain.RoleCommunityAdmin.Elevatable())
}

func TestRoleIn(t *testing.T) {
	require.True(t, domain.RoleBoardMember.In(domain.RoleSuperAdmin, domain.RoleBoardMember))
	require.False(t, domain.RoleTenant.In(domain.RoleSuperAdmin, domain.RoleBoardMember))
	require.False(t, domain.RoleTenant.In())
}
