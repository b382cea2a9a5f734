package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/domain/model/kernel"
)

func TestReturnEligibleAt(t *testing.T) {
	deliveredAt := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("should be eligible 23 hours after delivery", func(t *testing.T) {
		assert.True(t, ReturnEligibleAt(deliveredAt, deliveredAt.Add(23*time.Hour), DefaultReturnWindow))
	})

	t.Run("should be eligible exactly at the window boundary", func(t *testing.T) {
		assert.True(t, ReturnEligibleAt(deliveredAt, deliveredAt.Add(24*time.Hour), DefaultReturnWindow))
	})

	t.Run("should not be eligible 25 hours after delivery", func(t *testing.T) {
		assert.False(t, ReturnEligibleAt(deliveredAt, deliveredAt.Add(25*time.Hour), DefaultReturnWindow))
	})
}

func TestOrder_RequestReturn(t *testing.T) {
	agentID := kernel.NewUUID()

	t.Run("should open return within the window", func(t *testing.T) {
		o := deliveredOrder(t, agentID, testTime)

		err := o.RequestReturn("wrong size", testTime.Add(23*time.Hour), DefaultReturnWindow)

		require.NoError(t, err)
		require.NotNil(t, o.ReturnDetails())
		assert.Equal(t, ReturnRequested, o.ReturnDetails().Status())
		assert.Equal(t, "wrong size", o.ReturnDetails().Reason())
	})

	t.Run("should reject return after the window expires", func(t *testing.T) {
		o := deliveredOrder(t, agentID, testTime)

		err := o.RequestReturn("wrong size", testTime.Add(25*time.Hour), DefaultReturnWindow)

		assert.ErrorIs(t, err, ErrReturnNotEligible)
		assert.Nil(t, o.ReturnDetails())
	})

	t.Run("should reject return on an undelivered order", func(t *testing.T) {
		o := acceptedOrder(t, agentID)

		err := o.RequestReturn("wrong size", testTime, DefaultReturnWindow)

		assert.ErrorIs(t, err, ErrReturnNotEligible)
	})

	t.Run("should reject a second return request", func(t *testing.T) {
		o := deliveredOrder(t, agentID, testTime)
		require.NoError(t, o.RequestReturn("wrong size", testTime.Add(time.Hour), DefaultReturnWindow))

		err := o.RequestReturn("also damaged", testTime.Add(2*time.Hour), DefaultReturnWindow)

		assert.Error(t, err)
	})
}

func TestOrder_ReturnWorkflow(t *testing.T) {
	agentID := kernel.NewUUID()
	returnAgent := kernel.NewUUID()

	requestedReturn := func(t *testing.T) *Order {
		t.Helper()
		o := deliveredOrder(t, agentID, testTime)
		require.NoError(t, o.RequestReturn("wrong size", testTime.Add(time.Hour), DefaultReturnWindow))
		return o
	}

	assignedReturn := func(t *testing.T) *Order {
		t.Helper()
		o := requestedReturn(t)
		require.NoError(t, o.ApproveReturn("ok", testTime))
		require.NoError(t, o.AssignReturnAgent(returnAgent, testTime))
		require.NoError(t, o.AcceptReturnAssignment(returnAgent, testTime))
		return o
	}

	t.Run("should walk the full happy path to completion", func(t *testing.T) {
		o := assignedReturn(t)

		require.NoError(t, o.CompleteReturnPickup(returnAgent, "collected", nil, nil, testTime))
		require.NoError(t, o.CompleteReturnDelivery(returnAgent, "dropped at shop", nil, nil, testTime))
		require.NoError(t, o.CloseReturn(testTime))

		assert.Equal(t, ReturnCompleted, o.ReturnDetails().Status())
		assert.NotNil(t, o.ReturnDetails().CompletedAt())
		// the forward lifecycle stays Delivered throughout
		assert.Equal(t, Delivered, o.Status())
	})

	t.Run("should reject the request terminally", func(t *testing.T) {
		o := requestedReturn(t)

		require.NoError(t, o.RejectReturn("outside policy", testTime))

		assert.Equal(t, ReturnRejected, o.ReturnDetails().Status())
		assert.Error(t, o.AssignReturnAgent(returnAgent, testTime))
	})

	t.Run("should revert to approved when the agent declines", func(t *testing.T) {
		o := requestedReturn(t)
		require.NoError(t, o.ApproveReturn("ok", testTime))
		require.NoError(t, o.AssignReturnAgent(returnAgent, testTime))

		err := o.RejectReturnAssignment(returnAgent, "out of area", testTime)

		require.NoError(t, err)
		assert.Equal(t, ReturnApproved, o.ReturnDetails().Status())
		assert.Nil(t, o.ReturnDetails().AgentID())
	})

	t.Run("should record pickup failure terminally", func(t *testing.T) {
		o := assignedReturn(t)

		require.NoError(t, o.FailReturnPickup(returnAgent, "buyer unreachable", testTime))

		assert.Equal(t, ReturnPickupFailed, o.ReturnDetails().Status())
		assert.Equal(t, "buyer unreachable", o.ReturnDetails().FailureNote())
		assert.Error(t, o.CompleteReturnPickup(returnAgent, "", nil, nil, testTime))
	})

	t.Run("should deny return actions to an unassigned agent", func(t *testing.T) {
		o := assignedReturn(t)

		err := o.CompleteReturnPickup(kernel.NewUUID(), "", nil, nil, testTime)

		assert.ErrorIs(t, err, ErrUnauthorizedOrder)
	})
}
