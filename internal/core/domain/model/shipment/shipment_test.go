package shipment_test

import (
	"testing"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/shipment"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(t *testing.T) shipment.Item {
	t.Helper()
	item, err := shipment.NewItem(kernel.NewUUID(), "inv-1", "Pallet jack", 2, kernel.NewMoneyFromCents(14900))
	require.NoError(t, err)
	return item
}

func newTestShipment(t *testing.T) *shipment.Shipment {
	t.Helper()
	s, err := shipment.NewShipment(kernel.NewUUID(), kernel.NewUUID(), "TRK0001",
		"1 Warehouse Way", "9 Customer Close", "Jordan Smith",
		time.Now().UTC().Add(72*time.Hour), []shipment.Item{testItem(t)})
	require.NoError(t, err)
	return s
}

func TestNewShipment(t *testing.T) {
	t.Run("creates_pending_shipment_with_history", func(t *testing.T) {
		s := newTestShipment(t)

		assert.Equal(t, shipment.Pending, s.Status())
		assert.Equal(t, int64(1), s.Version())
		assert.Nil(t, s.ActualDeliveryDate())
		require.Len(t, s.History(), 1)
		assert.Equal(t, shipment.Pending, s.History()[0].Status())
	})

	t.Run("rejects_missing_tracking_number", func(t *testing.T) {
		_, err := shipment.NewShipment(kernel.NewUUID(), kernel.NewUUID(), "",
			"origin", "destination", "", time.Now(), nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects_missing_order_reference", func(t *testing.T) {
		_, err := shipment.NewShipment(kernel.NewUUID(), kernel.UUID{}, "TRK0001",
			"origin", "destination", "", time.Now(), nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects_missing_addresses", func(t *testing.T) {
		_, err := shipment.NewShipment(kernel.NewUUID(), kernel.NewUUID(), "TRK0001",
			"", "destination", "", time.Now(), nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestNewItem(t *testing.T) {
	t.Run("rejects_non_positive_quantity", func(t *testing.T) {
		_, err := shipment.NewItem(kernel.NewUUID(), "inv-1", "Pallet jack", 0, kernel.Money{})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_missing_inventory_reference", func(t *testing.T) {
		_, err := shipment.NewItem(kernel.NewUUID(), "", "Pallet jack", 1, kernel.Money{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestShipment_ChangeStatus(t *testing.T) {
	t.Run("legal_transition_appends_history_with_location", func(t *testing.T) {
		s := newTestShipment(t)

		err := s.ChangeStatus(shipment.PickedUp, "Depot 7", "collected by carrier")

		require.NoError(t, err)
		assert.Equal(t, shipment.PickedUp, s.Status())
		require.Len(t, s.History(), 2)
		assert.Equal(t, "Depot 7", s.History()[1].Location())
	})

	t.Run("illegal_transition_leaves_shipment_unchanged", func(t *testing.T) {
		s := newTestShipment(t)

		err := s.ChangeStatus(shipment.Delivered, "", "")

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, shipment.Pending, s.Status())
		assert.Len(t, s.History(), 1)
	})

	t.Run("delivered_stamps_actual_delivery_date", func(t *testing.T) {
		s := newTestShipment(t)

		require.NoError(t, s.ChangeStatus(shipment.PickedUp, "", ""))
		require.NoError(t, s.ChangeStatus(shipment.Processing, "", ""))
		require.NoError(t, s.ChangeStatus(shipment.InTransit, "", ""))
		require.NoError(t, s.ChangeStatus(shipment.OutForDelivery, "", ""))
		require.NoError(t, s.ChangeStatus(shipment.Delivered, "9 Customer Close", ""))

		require.NotNil(t, s.ActualDeliveryDate())
		assert.Len(t, s.History(), 6)
	})

	t.Run("cancellation_allowed_mid_pipeline", func(t *testing.T) {
		s := newTestShipment(t)
		require.NoError(t, s.ChangeStatus(shipment.PickedUp, "", ""))

		err := s.ChangeStatus(shipment.Cancelled, "", "customer request")

		require.NoError(t, err)
		assert.Equal(t, shipment.Cancelled, s.Status())
	})

	t.Run("terminal_status_rejects_everything", func(t *testing.T) {
		s := newTestShipment(t)
		require.NoError(t, s.ChangeStatus(shipment.Cancelled, "", ""))

		err := s.ChangeStatus(shipment.PickedUp, "", "")

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestShipment_Items(t *testing.T) {
	t.Run("add_and_remove_item", func(t *testing.T) {
		s := newTestShipment(t)
		extra := testItem(t)

		s.AddItem(extra)
		require.Len(t, s.Items(), 2)

		removed := s.RemoveItem(extra.ID())

		assert.True(t, removed)
		assert.Len(t, s.Items(), 1)
	})

	t.Run("remove_unknown_item_returns_false", func(t *testing.T) {
		s := newTestShipment(t)

		assert.False(t, s.RemoveItem(kernel.NewUUID()))
	})
}

func TestShipment_MarkPersisted(t *testing.T) {
	s := newTestShipment(t)
	before := s.Version()
	at := time.Now().UTC()

	s.MarkPersisted(at)

	assert.Equal(t, before+1, s.Version())
	assert.Equal(t, at, s.UpdatedAt())
}

func TestRestoreShipment(t *testing.T) {
	t.Run("restores_all_fields", func(t *testing.T) {
		id := kernel.NewUUID()
		orderID := kernel.NewUUID()
		created := time.Now().UTC().Add(-time.Hour)
		delivered := time.Now().UTC()

		s, err := shipment.RestoreShipment(id, orderID, "TRK0001", shipment.Delivered,
			"origin", "destination", "Jordan Smith", created.Add(48*time.Hour), &delivered,
			nil, nil, 7, created, delivered)

		require.NoError(t, err)
		assert.True(t, s.ID().IsEqual(id))
		assert.Equal(t, shipment.Delivered, s.Status())
		assert.Equal(t, int64(7), s.Version())
		require.NotNil(t, s.ActualDeliveryDate())
	})

	t.Run("rejects_invalid_status", func(t *testing.T) {
		_, err := shipment.RestoreShipment(kernel.NewUUID(), kernel.NewUUID(), "TRK0001",
			shipment.Unknown, "origin", "destination", "", time.Now(), nil,
			nil, nil, 1, time.Now(), time.Now())

		require.Error(t, err)
	})
}

func TestShipment_Validate(t *testing.T) {
	var s shipment.Shipment

	require.ErrorIs(t, s.Validate(), shipment.ErrShipmentIsNotConstructed)
}
