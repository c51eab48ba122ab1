package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", Invalid("customer email is required"), "Customer email is required."},
		{"wrapped sentinel", fmt.Errorf("purchase: %w", ErrNoSeats), "No available seats."},
		{"agent affiliation", ErrNotAuthorized, "Not authorized to sell for this airline."},
		{"unknown", errors.New("pq: connection reset by peer"), "Operation failed."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, UserMessage(tc.err))
		})
	}
}

func TestValidationErrorIsValidation(t *testing.T) {
	err := fmt.Errorf("register: %w", Invalid("name is required"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIdentityHas(t *testing.T) {
	staff := &Identity{Role: RoleStaff, UserID: "ops", Permissions: []Permission{PermissionOperator}}
	assert.True(t, staff.Has(PermissionOperator))
	assert.False(t, staff.Has(PermissionAdmin))

	agent := &Identity{Role: RoleAgent, UserID: "a@x.com", Permissions: []Permission{PermissionAdmin}}
	assert.False(t, agent.Has(PermissionAdmin))

	var anonymous *Identity
	assert.False(t, anonymous.Authenticated())
	assert.False(t, anonymous.Has(PermissionAdmin))
}

func TestCommission(t *testing.T) {
	assert.Equal(t, int64(1250), Commission(12500))
	assert.Equal(t, int64(1), Commission(5))
	assert.Equal(t, int64(0), Commission(0))
}
