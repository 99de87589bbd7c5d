package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		current Status
		op      Operation
		next    Status
		allowed bool
	}{
		{StatusDispatch, OpRelease, StatusIntransit, true},
		{StatusDispatch, OpComplete, StatusCompleted, true},
		{StatusDispatch, OpReceive, "", false},
		{StatusDispatch, OpCancel, "", false},
		{StatusIntransit, OpReceive, StatusDispatch, true},
		{StatusIntransit, OpCancel, StatusCanceled, true},
		{StatusIntransit, OpRelease, "", false},
		{StatusIntransit, OpComplete, "", false},
		{StatusCompleted, OpRelease, "", false},
		{StatusCompleted, OpReceive, "", false},
		{StatusCompleted, OpComplete, "", false},
		{StatusCompleted, OpCancel, "", false},
		{StatusCanceled, OpRelease, "", false},
		{StatusCanceled, OpReceive, "", false},
		{StatusCanceled, OpComplete, "", false},
		{StatusCanceled, OpCancel, "", false},
	}

	for _, tt := range tests {
		next, ok := NextStatus(tt.current, tt.op)
		assert.Equal(t, tt.allowed, ok, "%s %s", tt.current, tt.op)
		if tt.allowed {
			assert.Equal(t, tt.next, next, "%s %s", tt.current, tt.op)
		}
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, Terminal(StatusDispatch))
	assert.False(t, Terminal(StatusIntransit))
	assert.True(t, Terminal(StatusCompleted))
	assert.True(t, Terminal(StatusCanceled))
}
