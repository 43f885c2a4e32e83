package kernel_test

import (
	"testing"

	"logistics/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("multiply_and_add", func(t *testing.T) {
		unit := kernel.NewMoneyFromCents(250)

		total := unit.Multiply(3).Add(kernel.NewMoneyFromCents(50))

		assert.Equal(t, int64(800), total.Cents())
	})

	t.Run("float_round_trip", func(t *testing.T) {
		m := kernel.NewMoneyFromFloat(12.34)

		assert.Equal(t, int64(1234), m.Cents())
		assert.InDelta(t, 12.34, m.Float64(), 0.001)
	})

	t.Run("float_rounds_to_nearest_cent", func(t *testing.T) {
		m := kernel.NewMoneyFromFloat(0.105)

		assert.Equal(t, int64(11), m.Cents())
	})
}

func TestMoney_Validation(t *testing.T) {
	t.Run("negative_amount_fails_non_negative_check", func(t *testing.T) {
		m := kernel.NewMoneyFromCents(-1)

		require.Error(t, m.ValidateNonNegative("unitPrice"))
	})

	t.Run("zero_amount_passes_non_negative_check", func(t *testing.T) {
		var m kernel.Money

		require.NoError(t, m.ValidateNonNegative("unitPrice"))
	})

	t.Run("zero_amount_fails_positive_check", func(t *testing.T) {
		var m kernel.Money

		require.Error(t, m.ValidatePositive("totalAmount"))
	})

	t.Run("positive_amount_passes_positive_check", func(t *testing.T) {
		m := kernel.NewMoneyFromCents(1)

		require.NoError(t, m.ValidatePositive("totalAmount"))
	})
}
