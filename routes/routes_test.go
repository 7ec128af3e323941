package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/glowhub/database/databasetest"
	"github.com/junaidrashid-git/glowhub/events"
	"github.com/junaidrashid-git/glowhub/models"
)

func init() { gin.SetMode(gin.TestMode) }

func call(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestCheckoutToDeliveryOverHTTP(t *testing.T) {
	h := databasetest.New(t)
	f := databasetest.Seed(t, h)
	r := NewRouter(h.Env, nil)
	customer := fmt.Sprintf("/customers/%d", f.Customer.ID)

	w := call(t, r, http.MethodPost, customer+"/cart", gin.H{"sku": "GH-SKIN-001", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = call(t, r, http.MethodPost, customer+"/cart", gin.H{"sku": "GH-SKIN-002", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(t, r, http.MethodPost, customer+"/checkout", gin.H{"shipping_address_id": f.ShippingAddress.ID, "coupon_code": "WELCOME10"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[struct {
		OrderID  uint            `json:"order_id"`
		NetTotal decimal.Decimal `json:"net_total"`
	}](t, w)
	assert.True(t, decimal.RequireFromString("28.26").Equal(res.NetTotal), res.NetTotal.String())

	order := fmt.Sprintf("/orders/%d", res.OrderID)
	w = call(t, r, http.MethodPost, order+"/payments", gin.H{"method": "CARD", "amount": "28.26", "outcome": "OK", "transaction_id": "tx-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, r, http.MethodPost, order+"/shipments", gin.H{"carrier": "BRT", "tracking": "BRT-0001"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, r, http.MethodGet, order, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Order](t, w)
	assert.Equal(t, models.OrderShipped, got.Status)
	assert.Len(t, got.Lines, 2)
	assert.Len(t, got.Payments, 1)
	assert.Len(t, got.Shipments, 1)
	require.NotNil(t, got.Coupon)
	assert.Equal(t, "WELCOME10", got.Coupon.CouponCode)

	w = call(t, r, http.MethodGet, "/reports/customer-orders?email="+f.Customer.Email, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rows := decode[[]map[string]any](t, w)
	require.Len(t, rows, 1)
	assert.Equal(t, string(models.OrderShipped), rows[0]["status"])

	assert.Equal(t, []events.Type{events.OrderPlaced, events.PaymentRecorded, events.OrderStatusMoved, events.ShipmentCreated, events.OrderStatusMoved}, h.Recorder.Types())
}

func TestErrorStatuses(t *testing.T) {
	h := databasetest.New(t)
	f := databasetest.Seed(t, h)
	r := NewRouter(h.Env, nil)
	customer := fmt.Sprintf("/customers/%d", f.Customer.ID)

	// a cart line keeps GH-SKIN-001 referenced
	w := call(t, r, http.MethodPost, customer+"/cart", gin.H{"sku": "GH-SKIN-001", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	other := fmt.Sprintf("/customers/%d", f.Customer.ID+100)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		kind   string
	}{
		{"unknown customer", http.MethodPost, other + "/checkout", gin.H{"shipping_address_id": f.ShippingAddress.ID}, http.StatusNotFound, "NOT_FOUND"},
		{"unknown order", http.MethodGet, "/orders/9999", nil, http.StatusNotFound, "NOT_FOUND"},
		{"bad id", http.MethodGet, "/orders/abc", nil, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"negative quantity", http.MethodPost, customer + "/cart", gin.H{"sku": "GH-SKIN-001", "quantity": -1}, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"unknown sku", http.MethodPost, customer + "/cart", gin.H{"sku": "NOPE", "quantity": 1}, http.StatusNotFound, "NOT_FOUND"},
		{"fixed coupon", http.MethodPost, "/coupons/FREESHIP5/evaluate", gin.H{"gross_total": "50.00"}, http.StatusOK, ""},
		{"unknown coupon", http.MethodPost, "/coupons/NOPE/evaluate", gin.H{"gross_total": "50.00"}, http.StatusUnprocessableEntity, "INVALID_COUPON"},
		{"product in use", http.MethodDelete, "/products/GH-SKIN-001", nil, http.StatusConflict, "CONSTRAINT_VIOLATION"},
		{"unused product", http.MethodDelete, "/products/GH-HAIR-001", nil, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := call(t, r, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.kind != "" {
				body := decode[map[string]string](t, w)
				assert.Equal(t, tc.kind, body["kind"])
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}
