package shipment_test

import (
	"testing"

	"logistics/internal/core/domain/model/shipment"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []shipment.Status {
	return []shipment.Status{
		shipment.Pending,
		shipment.PickedUp,
		shipment.Processing,
		shipment.InTransit,
		shipment.OutForDelivery,
		shipment.Delivered,
		shipment.Failed,
		shipment.Cancelled,
	}
}

// allowedTransitions mirrors the documented pipeline, including cancellation
// from every non-terminal status. The grid below proves the table is closed.
func allowedTransitions() map[shipment.Status][]shipment.Status {
	return map[shipment.Status][]shipment.Status{
		shipment.Pending:        {shipment.PickedUp, shipment.Cancelled},
		shipment.PickedUp:       {shipment.Processing, shipment.Cancelled},
		shipment.Processing:     {shipment.InTransit, shipment.Cancelled},
		shipment.InTransit:      {shipment.OutForDelivery, shipment.Cancelled},
		shipment.OutForDelivery: {shipment.Delivered, shipment.Failed, shipment.Cancelled},
		shipment.Delivered:      {},
		shipment.Failed:         {},
		shipment.Cancelled:      {},
	}
}

func TestStatus_TransitionTable_IsClosed(t *testing.T) {
	for _, from := range allStatuses() {
		for _, to := range allStatuses() {
			from, to := from, to
			t.Run(from.String()+"_to_"+to.String(), func(t *testing.T) {
				expected := false
				for _, allowed := range allowedTransitions()[from] {
					if allowed == to {
						expected = true
					}
				}

				got, err := from.TransitionTo(to)
				if expected {
					require.NoError(t, err)
					assert.Equal(t, to, got)
				} else {
					require.ErrorIs(t, err, errs.ErrInvalidTransition)
					assert.Equal(t, shipment.Unknown, got)
				}
			})
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, shipment.Delivered.IsTerminal())
	assert.True(t, shipment.Failed.IsTerminal())
	assert.True(t, shipment.Cancelled.IsTerminal())
	assert.False(t, shipment.Pending.IsTerminal())
	assert.False(t, shipment.OutForDelivery.IsTerminal())
}

func TestStatusFromString(t *testing.T) {
	t.Run("parses_all_valid_statuses", func(t *testing.T) {
		for _, s := range allStatuses() {
			parsed, err := shipment.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("accepts_created_as_pending_alias", func(t *testing.T) {
		parsed, err := shipment.StatusFromString("CREATED")

		require.NoError(t, err)
		assert.Equal(t, shipment.Pending, parsed)
	})

	t.Run("rejects_unknown_value", func(t *testing.T) {
		_, err := shipment.StatusFromString("TELEPORTED")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_CancellationFromUnknownIsRejected(t *testing.T) {
	_, err := shipment.Unknown.TransitionTo(shipment.Cancelled)

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}
