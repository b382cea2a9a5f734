package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/domain/model/kernel"
)

func newTestAgent(t *testing.T) *DeliveryAgent {
	t.Helper()

	phone, err := kernel.NewPhone("+919812345678")
	require.NoError(t, err)

	a, err := NewDeliveryAgent(kernel.NewUUID(), "Ravi Kumar", phone, VehicleMotorcycle)
	require.NoError(t, err)
	return a
}

func TestNewDeliveryAgent(t *testing.T) {
	t.Run("should create agent off duty with empty hands", func(t *testing.T) {
		a := newTestAgent(t)

		assert.NoError(t, a.Validate())
		assert.False(t, a.IsAvailable())
		assert.Nil(t, a.CurrentOrderID())
		assert.Zero(t, a.CompletedPickups())
		assert.Zero(t, a.CompletedDeliveries())
	})

	t.Run("should reject empty name", func(t *testing.T) {
		phone, err := kernel.NewPhone("+919812345678")
		require.NoError(t, err)

		_, err = NewDeliveryAgent(kernel.NewUUID(), "", phone, VehicleBicycle)
		assert.ErrorIs(t, err, ErrNameIsRequired)
	})

	t.Run("should reject unknown vehicle", func(t *testing.T) {
		phone, err := kernel.NewPhone("+919812345678")
		require.NoError(t, err)

		_, err = NewDeliveryAgent(kernel.NewUUID(), "Ravi", phone, VehicleType("hoverboard"))
		assert.Error(t, err)
	})

	t.Run("should fail validation on zero value", func(t *testing.T) {
		var a DeliveryAgent
		assert.ErrorIs(t, a.Validate(), ErrAgentIsNotConstructed)
	})
}

func TestDeliveryAgent_Dispatch(t *testing.T) {
	t.Run("should take order while on duty and free", func(t *testing.T) {
		a := newTestAgent(t)
		a.GoOnDuty()
		orderID := kernel.NewUUID()

		require.True(t, a.CanTakeOrder())
		require.NoError(t, a.TakeOrder(orderID))

		assert.True(t, a.CurrentOrderID().IsEqual(orderID))
		assert.False(t, a.CanTakeOrder())
	})

	t.Run("should refuse dispatch while off duty", func(t *testing.T) {
		a := newTestAgent(t)

		err := a.TakeOrder(kernel.NewUUID())

		assert.ErrorIs(t, err, ErrAgentNotAvailable)
	})

	t.Run("should refuse a second order while one is in hand", func(t *testing.T) {
		a := newTestAgent(t)
		a.GoOnDuty()
		require.NoError(t, a.TakeOrder(kernel.NewUUID()))

		err := a.TakeOrder(kernel.NewUUID())

		assert.ErrorIs(t, err, ErrAgentNotAvailable)
	})

	t.Run("should keep the order in hand when going off duty", func(t *testing.T) {
		a := newTestAgent(t)
		a.GoOnDuty()
		require.NoError(t, a.TakeOrder(kernel.NewUUID()))

		a.GoOffDuty()

		assert.NotNil(t, a.CurrentOrderID())
		assert.False(t, a.CanTakeOrder())
	})

	t.Run("should free hands on release without crediting completion", func(t *testing.T) {
		a := newTestAgent(t)
		a.GoOnDuty()
		require.NoError(t, a.TakeOrder(kernel.NewUUID()))

		require.NoError(t, a.ReleaseOrder())

		assert.Nil(t, a.CurrentOrderID())
		assert.Zero(t, a.CompletedDeliveries())
	})
}

func TestDeliveryAgent_Counters(t *testing.T) {
	t.Run("should keep order in hand after pickup and free it on delivery", func(t *testing.T) {
		a := newTestAgent(t)
		a.GoOnDuty()
		require.NoError(t, a.TakeOrder(kernel.NewUUID()))

		a.RecordPickup()
		assert.Equal(t, 1, a.CompletedPickups())
		assert.NotNil(t, a.CurrentOrderID())

		require.NoError(t, a.RecordDelivery())
		assert.Equal(t, 1, a.CompletedDeliveries())
		assert.Nil(t, a.CurrentOrderID())
	})

	t.Run("should reject delivery credit with empty hands", func(t *testing.T) {
		a := newTestAgent(t)

		assert.ErrorIs(t, a.RecordDelivery(), ErrNoActiveOrder)
	})
}

func TestDeliveryAgent_ReportLocation(t *testing.T) {
	t.Run("should store the latest position", func(t *testing.T) {
		a := newTestAgent(t)
		point, err := kernel.NewGeoPoint(12.9716, 77.5946)
		require.NoError(t, err)

		require.NoError(t, a.ReportLocation(point))

		require.NotNil(t, a.LastLocation())
		assert.True(t, a.LastLocation().IsEqual(point))
	})
}
