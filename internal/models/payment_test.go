package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusCompleted, StatusResolved, true},
		{StatusCompleted, StatusRefunded, true},

		{StatusCompleted, StatusPending, false},
		{StatusFailed, StatusCompleted, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusRefunded, StatusCompleted, false},
		{StatusPending, StatusResolved, false},
		{StatusResolved, StatusRefunded, false},

		// Redelivery of the same status is always allowed.
		{StatusCompleted, StatusCompleted, true},
		{StatusPending, StatusPending, true},

		{StatusPending, "paid", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestValidPredecessorsIncludesTarget(t *testing.T) {
	preds := ValidPredecessors(StatusCompleted)
	assert.Contains(t, preds, StatusPending)
	assert.Contains(t, preds, StatusProcessing)
	assert.Contains(t, preds, StatusCompleted)
	assert.NotContains(t, preds, StatusFailed)

	assert.Nil(t, ValidPredecessors("paid"))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusProcessing, StatusCompleted, StatusResolved, StatusFailed, StatusCancelled, StatusRefunded} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("PAID"))
	assert.False(t, ValidStatus(""))
}
