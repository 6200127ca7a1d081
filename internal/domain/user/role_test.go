package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleGating(t *testing.T) {
	assert.True(t, RoleLearner.CanTrack())
	assert.False(t, RoleProfessor.CanTrack())
	assert.False(t, RoleAdmin.CanTrack())
	assert.False(t, Role("").CanTrack())

	assert.False(t, RoleLearner.CanViewAnalytics())
	assert.True(t, RoleProfessor.CanViewAnalytics())
	assert.True(t, RoleAdmin.CanViewAnalytics())

	assert.True(t, RoleLearner.IsValid())
	assert.False(t, Role("guest").IsValid())
}
