package shipmentControllers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/glowhub/apperror"
	cartControllers "github.com/junaidrashid-git/glowhub/controllers/cart"
	orderControllers "github.com/junaidrashid-git/glowhub/controllers/order"
	"github.com/junaidrashid-git/glowhub/database/databasetest"
	"github.com/junaidrashid-git/glowhub/models"
)

func placeOrder(t *testing.T, h *databasetest.Harness, f databasetest.Fixture) uint {
	t.Helper()
	ctx := context.Background()
	_, err := cartControllers.AddItem(ctx, h.Env, f.Customer.ID, "GH-HAIR-001", 1)
	require.NoError(t, err)
	res, err := orderControllers.Checkout(ctx, h.Env, f.Customer.ID, f.ShippingAddress.ID, "")
	require.NoError(t, err)
	return res.OrderID
}

func setStatus(t *testing.T, h *databasetest.Harness, orderID uint, s models.OrderStatus) {
	t.Helper()
	require.NoError(t, h.DB.Model(&models.Order{}).Where("id = ?", orderID).Update("status", s).Error)
}

func statusOf(t *testing.T, h *databasetest.Harness, orderID uint) models.OrderStatus {
	t.Helper()
	var o models.Order
	require.NoError(t, h.DB.First(&o, orderID).Error)
	return o.Status
}

func TestCreateShipmentMovesOrder(t *testing.T) {
	tests := []struct {
		from, want models.OrderStatus
	}{
		{models.OrderCreated, models.OrderShipped},
		{models.OrderPaid, models.OrderShipped},
		{models.OrderInPreparation, models.OrderShipped},
		{models.OrderShipped, models.OrderShipped},
		{models.OrderDelivered, models.OrderDelivered},
		{models.OrderCancelled, models.OrderCancelled},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			h := databasetest.New(t)
			f := databasetest.Seed(t, h)
			orderID := placeOrder(t, h, f)
			setStatus(t, h, orderID, tt.from)

			s, err := CreateShipment(context.Background(), h.Env, orderID, ShipmentRequest{Carrier: "BRT", Tracking: "BRT-" + string(tt.from)})
			require.NoError(t, err)
			assert.Equal(t, models.ShipmentPreparing, s.Status)
			assert.Equal(t, tt.want, statusOf(t, h, orderID))
		})
	}
}

func TestCreateShipmentTwice(t *testing.T) {
	h := databasetest.New(t)
	f := databasetest.Seed(t, h)
	ctx := context.Background()
	orderID := placeOrder(t, h, f)

	first, err := CreateShipment(ctx, h.Env, orderID, ShipmentRequest{Carrier: "GLS", Tracking: "GLS-1", Status: "in_transit", EstimatedDelivery: "2025-10-04"})
	require.NoError(t, err)
	assert.Equal(t, models.ShipmentInTransit, first.Status)
	require.NotNil(t, first.EstimatedDelivery)

	second, err := CreateShipment(ctx, h.Env, orderID, ShipmentRequest{Carrier: "GLS", Tracking: "GLS-2"})
	require.NoError(t, err)
	assert.Equal(t, first.CarrierID, second.CarrierID)
	assert.Equal(t, models.OrderShipped, statusOf(t, h, orderID))

	_, err = CreateShipment(ctx, h.Env, orderID, ShipmentRequest{Carrier: "GLS", Tracking: "GLS-1"})
	assert.ErrorIs(t, err, apperror.ErrConstraintViolation)

	_, err = CreateShipment(ctx, h.Env, orderID, ShipmentRequest{Carrier: "GLS", Tracking: "GLS-3", Status: "LOST"})
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	_, err = CreateShipment(ctx, h.Env, orderID+7, ShipmentRequest{Carrier: "GLS", Tracking: "GLS-4"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var shipments int64
	require.NoError(t, h.DB.Model(&models.Shipment{}).Count(&shipments).Error)
	assert.EqualValues(t, 2, shipments)
}
