package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusCreated, StatusPending, StatusSuccessful, StatusFailed} {
		assert.True(t, s.Valid(), s)
	}

	// vocabulary drift from older revisions must be rejected
	for _, s := range []Status{"success", "SUCCESSFUL", "cancelled", "paid", ""} {
		assert.False(t, s.Valid(), s)
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusCreated, StatusPending, true},
		{StatusCreated, StatusFailed, true},
		// a provider notification can outrun the initialize response
		{StatusCreated, StatusSuccessful, true},
		{StatusPending, StatusSuccessful, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusCreated, false},
		{StatusSuccessful, StatusPending, false},
		{StatusSuccessful, StatusFailed, false},
		{StatusFailed, StatusPending, false},
		{StatusFailed, StatusSuccessful, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusCreated.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusSuccessful.Terminal())
	assert.True(t, StatusFailed.Terminal())
}
