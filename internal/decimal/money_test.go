package decimal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	value, err := FromString("119000.50")
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromFloat(119000.50)))

	value, err = FromString("  \n")
	require.NoError(t, err)
	assert.True(t, value.IsZero())

	_, err = FromString("ciento diecinueve mil")
	require.Error(t, err)
}

func TestSum(t *testing.T) {
	total := Sum(decimal.NewFromInt(100000), decimal.NewFromInt(10000), decimal.NewFromInt(9000))
	assert.True(t, total.Equal(decimal.NewFromInt(119000)))

	assert.True(t, Sum().IsZero())
}
