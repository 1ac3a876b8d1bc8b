package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{StatusPending, StatusSuccess},
		{StatusPending, StatusFailed},
		{StatusPending, StatusExpired},
		{StatusPending, StatusCanceled},
		{StatusSuccess, StatusRefunded},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s should be allowed", tr[0], tr[1])
	}

	denied := [][2]string{
		{StatusSuccess, StatusPending},
		{StatusSuccess, StatusFailed},
		{StatusSuccess, StatusExpired},
		{StatusFailed, StatusSuccess},
		{StatusExpired, StatusSuccess},
		{StatusRefunded, StatusSuccess},
		{StatusRefunded, StatusPending},
		{StatusFailed, StatusPending},
		{StatusPending, StatusRefunded},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr[0], tr[1]), "%s -> %s should be denied", tr[0], tr[1])
	}
}

func TestIsNoop(t *testing.T) {
	assert.True(t, IsNoop(StatusSuccess, StatusSuccess))
	assert.False(t, IsNoop(StatusPending, StatusSuccess))
}
