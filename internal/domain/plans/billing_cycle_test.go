package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBillingCycle(t *testing.T) {
	assert.Equal(t, "weekly", BillingCycle(7))
	assert.Equal(t, "monthly", BillingCycle(30))
	assert.Equal(t, "quarterly", BillingCycle(90))
	assert.Equal(t, "yearly", BillingCycle(365))
	assert.Equal(t, "14_days", BillingCycle(14))
}
