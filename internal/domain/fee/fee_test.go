package fee

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	assert.True(t, Compute(0).Equal(decimal.NewFromInt(15)))
	assert.True(t, Compute(3).Equal(decimal.NewFromInt(60)))
	assert.True(t, Compute(10).Equal(decimal.NewFromInt(165)))
}
