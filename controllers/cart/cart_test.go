package cartControllers

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/glowhub/apperror"
	"github.com/junaidrashid-git/glowhub/database/databasetest"
	"github.com/junaidrashid-git/glowhub/models"
)

func TestAddItemMergesLinesAndKeepsFirstPrice(t *testing.T) {
	h := databasetest.New(t)
	f := databasetest.Seed(t, h)
	ctx := context.Background()

	_, err := AddItem(ctx, h.Env, f.Customer.ID, "GH-SKIN-001", 1)
	require.NoError(t, err)

	require.NoError(t, h.DB.Model(&models.Product{}).Where("sku = ?", "GH-SKIN-001").
		Update("list_price", decimal.RequireFromString("15.00")).Error)

	line, err := AddItem(ctx, h.Env, f.Customer.ID, "GH-SKIN-001", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, "12.90", line.PriceSeen.StringFixed(2))

	var count int64
	require.NoError(t, h.DB.Model(&models.CartLine{}).Where("cart_id = ?", f.Cart.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItemNewLineUsesCurrentListPrice(t *testing.T) {
	h := databasetest.New(t)
	f := databasetest.Seed(t, h)

	require.NoError(t, h.DB.Model(&models.Product{}).Where("sku = ?", "GH-HAIR-001").
		Update("list_price", decimal.RequireFromString("11.25")).Error)

	line, err := AddItem(context.Background(), h.Env, f.Customer.ID, "GH-HAIR-001", 1)
	require.NoError(t, err)
	assert.Equal(t, "11.25", line.PriceSeen.StringFixed(2))
}

func TestAddItemUpdatesLastModified(t *testing.T) {
	h := databasetest.New(t)
	f := databasetest.Seed(t, h)

	_, err := AddItem(context.Background(), h.Env, f.Customer.ID, "GH-SKIN-002", 1)
	require.NoError(t, err)

	var cart models.Cart
	require.NoError(t, h.DB.First(&cart, f.Cart.ID).Error)
	assert.True(t, cart.LastModified.After(databasetest.Start))
}

func TestAddItemRejects(t *testing.T) {
	h := databasetest.New(t)
	f := databasetest.Seed(t, h)
	ctx := context.Background()

	tests := []struct {
		name       string
		customerID uint
		sku        string
		qty        int
		want       error
	}{
		{"zero quantity", f.Customer.ID, "GH-SKIN-001", 0, apperror.ErrInvalidArgument},
		{"negative quantity", f.Customer.ID, "GH-SKIN-001", -2, apperror.ErrInvalidArgument},
		{"unknown product", f.Customer.ID, "GH-NOPE-999", 1, apperror.ErrNotFound},
		{"unknown customer", f.Customer.ID + 100, "GH-SKIN-001", 1, apperror.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddItem(ctx, h.Env, tt.customerID, tt.sku, tt.qty)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var count int64
	require.NoError(t, h.DB.Model(&models.CartLine{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRemoveItem(t *testing.T) {
	h := databasetest.New(t)
	f := databasetest.Seed(t, h)
	ctx := context.Background()

	_, err := AddItem(ctx, h.Env, f.Customer.ID, "GH-SKIN-001", 1)
	require.NoError(t, err)

	require.NoError(t, RemoveItem(ctx, h.Env, f.Customer.ID, "GH-SKIN-001"))
	// Removing again is a no-op.
	require.NoError(t, RemoveItem(ctx, h.Env, f.Customer.ID, "GH-SKIN-001"))

	cart, err := GetOrCreateCart(ctx, h.Env, f.Customer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestGetOrCreateCartCreatesOnce(t *testing.T) {
	h := databasetest.New(t)
	ctx := context.Background()

	customer := models.Customer{Email: "new@example.com", FirstName: "Ada", LastName: "Neri", RegistrationDate: databasetest.Start}
	require.NoError(t, h.DB.Create(&customer).Error)

	first, err := GetOrCreateCart(ctx, h.Env, customer.ID)
	require.NoError(t, err)
	second, err := GetOrCreateCart(ctx, h.Env, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = GetOrCreateCart(ctx, h.Env, customer.ID+1)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestConcurrentAddItemLosesNoUpdates(t *testing.T) {
	h := databasetest.NewFile(t)
	f := databasetest.Seed(t, h)

	const writers = 8
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, writers)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = AddItem(context.Background(), h.Env, f.Customer.ID, "GH-SKIN-001", 2)
		}(i)
	}
	close(start)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	var lines []models.CartLine
	require.NoError(t, h.DB.Where("cart_id = ?", f.Cart.ID).Find(&lines).Error)
	require.Len(t, lines, 1)
	assert.Equal(t, 2*writers, lines[0].Quantity)
}
