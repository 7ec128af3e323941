package reportControllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/apperror"
	productcontroller "github.com/junaidrashid-git/glowhub/controllers/product"
	"github.com/junaidrashid-git/glowhub/middleware"
)

type row interface {
	header() []string
	cells() []any
}

// Workbook renders rows as a one-sheet workbook with a header row.
func Workbook[T row](sheetName string, rows []T) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return nil, err
	}

	var zero T
	headerRow := sheet.AddRow()
	for _, h := range zero.header() {
		headerRow.AddCell().SetValue(h)
	}
	for _, r := range rows {
		xr := sheet.AddRow()
		for _, v := range r.cells() {
			xr.AddCell().SetValue(v)
		}
	}
	return file, nil
}

// respond writes rows as JSON, or as an xlsx download with ?format=xlsx.
func respond[T row](c *gin.Context, name string, rows []T, err error) {
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	if !strings.EqualFold(c.Query("format"), "xlsx") {
		c.JSON(http.StatusOK, rows)
		return
	}

	file, err := Workbook(name, rows)
	if err != nil {
		middleware.Fail(c, fmt.Errorf("failed to create Excel sheet: %w", err))
		return
	}
	productcontroller.WriteWorkbook(c, name+".xlsx", file)
}

func required(c *gin.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		middleware.Fail(c, apperror.InvalidArgument("%s is required", name))
		return "", false
	}
	return v, true
}

// parseInstant accepts an RFC 3339 timestamp or a bare date. A bare date used
// as the end of a period covers the whole day.
func parseInstant(raw string, end bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, apperror.InvalidArgument("invalid time %q", raw)
	}
	if end {
		return d.Add(24*time.Hour - time.Second), nil
	}
	return d, nil
}

// GET /reports/customer-orders?email=
func CustomerOrders(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := required(c, "email")
		if !ok {
			return
		}
		rows, err := OrdersByCustomerEmail(c.Request.Context(), env, email)
		respond(c, "customer-orders", rows, err)
	}
}

// GET /reports/orders/:id/lines
func OrderLines(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		rows, err := OrderLineDetail(c.Request.Context(), env, orderID)
		respond(c, "order-lines", rows, err)
	}
}

// GET /reports/carrier-shipments?carrier=&from=&to=
// The period defaults to the last 30 days.
func CarrierShipments(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		carrier, ok := required(c, "carrier")
		if !ok {
			return
		}

		to := env.Now()
		from := to.AddDate(0, 0, -30)
		var err error
		if raw := c.Query("from"); raw != "" {
			if from, err = parseInstant(raw, false); err != nil {
				middleware.Fail(c, err)
				return
			}
		}
		if raw := c.Query("to"); raw != "" {
			if to, err = parseInstant(raw, true); err != nil {
				middleware.Fail(c, err)
				return
			}
		}

		rows, err := ShipmentsByCarrier(c.Request.Context(), env, carrier, from, to)
		respond(c, "carrier-shipments", rows, err)
	}
}

// GET /reports/low-stock
func LowStock(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := BelowReorderThreshold(c.Request.Context(), env)
		respond(c, "low-stock", rows, err)
	}
}

// GET /reports/coupon-usage?code=
func CouponUsage(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := required(c, "code")
		if !ok {
			return
		}
		rows, err := CouponUsers(c.Request.Context(), env, code)
		respond(c, "coupon-usage", rows, err)
	}
}

// GET /reports/category-reviews?category=
func CategoryReviews(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, ok := required(c, "category")
		if !ok {
			return
		}
		rows, err := ReviewsByCategory(c.Request.Context(), env, category)
		respond(c, "category-reviews", rows, err)
	}
}
