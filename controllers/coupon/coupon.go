package couponControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/apperror"
	"github.com/junaidrashid-git/glowhub/middleware"
	"github.com/junaidrashid-git/glowhub/models"
)

var hundred = decimal.NewFromInt(100)

// Evaluate returns the discount coupon grants on gross at today. Percentage
// discounts are rounded half-up to cents; fixed discounts are capped at gross.
// Usage counts are neither read nor written.
func Evaluate(coupon *models.Coupon, gross decimal.Decimal, today time.Time) (decimal.Decimal, error) {
	today = app.DateOf(today)
	start, end := app.DateOf(coupon.StartDate), app.DateOf(coupon.EndDate)
	if today.Before(start) || today.After(end) {
		return decimal.Zero, apperror.CouponNotActive(coupon.Code, fmt.Sprintf("valid from %s to %s, today is %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly), today.Format(time.DateOnly)))
	}
	if gross.LessThan(coupon.MinimumOrder) {
		return decimal.Zero, apperror.BelowMinimum(coupon.Code, fmt.Sprintf("order total %s is below the minimum %s",
			gross.StringFixed(2), coupon.MinimumOrder.StringFixed(2)))
	}

	switch coupon.Type {
	case models.CouponPercentage:
		return gross.Mul(coupon.Value).Div(hundred).Round(2), nil
	case models.CouponFixed:
		return decimal.Min(coupon.Value, gross), nil
	}
	return decimal.Zero, apperror.InvalidArgument("coupon %s has unknown type %q", coupon.Code, coupon.Type)
}

// NormalizeCode is the stored form of a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup loads a coupon by code on tx. An unknown code is InvalidCoupon, not NotFound.
func Lookup(tx *gorm.DB, code string) (*models.Coupon, error) {
	code = NormalizeCode(code)
	var coupon models.Coupon
	if err := tx.First(&coupon, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.InvalidCoupon(code)
		}
		return nil, apperror.FromStore("coupon", code, err)
	}
	return &coupon, nil
}

// EvaluateCode looks code up and evaluates it against gross.
func EvaluateCode(tx *gorm.DB, code string, gross decimal.Decimal, today time.Time) (*models.Coupon, decimal.Decimal, error) {
	coupon, err := Lookup(tx, code)
	if err != nil {
		return nil, decimal.Zero, err
	}
	discount, err := Evaluate(coupon, gross, today)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return coupon, discount, nil
}

type CouponInput struct {
	Code         string          `json:"code" binding:"required"`
	Type         string          `json:"type" binding:"required"`
	Value        decimal.Decimal `json:"value"`
	StartDate    string          `json:"start_date" binding:"required"`
	EndDate      string          `json:"end_date" binding:"required"`
	MinimumOrder decimal.Decimal `json:"minimum_order"`
	MaxUsages    int             `json:"max_usages"`
}

// CreateCoupon validates and stores a new coupon.
func CreateCoupon(ctx context.Context, env *app.Env, in CouponInput) (*models.Coupon, error) {
	code := NormalizeCode(in.Code)
	if code == "" {
		return nil, apperror.InvalidArgument("coupon code is required")
	}
	typ, err := models.ParseCouponType(in.Type)
	if err != nil {
		return nil, apperror.InvalidArgument("%v", err)
	}
	start, err := time.Parse(time.DateOnly, in.StartDate)
	if err != nil {
		return nil, apperror.InvalidArgument("invalid start_date %q", in.StartDate)
	}
	end, err := time.Parse(time.DateOnly, in.EndDate)
	if err != nil {
		return nil, apperror.InvalidArgument("invalid end_date %q", in.EndDate)
	}

	switch {
	case end.Before(start):
		return nil, apperror.InvalidArgument("end_date %s is before start_date %s", in.EndDate, in.StartDate)
	case in.Value.IsNegative():
		return nil, apperror.InvalidArgument("coupon value must not be negative")
	case typ == models.CouponPercentage && in.Value.GreaterThan(hundred):
		return nil, apperror.InvalidArgument("percentage coupon value must not exceed 100")
	case in.MinimumOrder.IsNegative():
		return nil, apperror.InvalidArgument("minimum_order must not be negative")
	case in.MaxUsages <= 0:
		return nil, apperror.InvalidArgument("max_usages must be positive")
	}

	coupon := models.Coupon{
		Code:         code,
		Type:         typ,
		Value:        in.Value.Round(2),
		StartDate:    start,
		EndDate:      end,
		MinimumOrder: in.MinimumOrder.Round(2),
		MaxUsages:    in.MaxUsages,
	}
	if err := env.Conn(ctx).Create(&coupon).Error; err != nil {
		return nil, apperror.FromStore("coupon", code, err)
	}
	env.Log.Info("coupon created", zap.String("code", code), zap.String("type", string(typ)))
	return &coupon, nil
}

// POST /coupons
func PostCoupon(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CouponInput
		if !middleware.Bind(c, &input) {
			return
		}
		coupon, err := CreateCoupon(c.Request.Context(), env, input)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, coupon)
	}
}

type EvaluateInput struct {
	GrossTotal decimal.Decimal `json:"gross_total"`
}

// POST /coupons/:code/evaluate
func EvaluateCoupon(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input EvaluateInput
		if !middleware.Bind(c, &input) {
			return
		}
		if input.GrossTotal.IsNegative() {
			middleware.Fail(c, apperror.InvalidArgument("gross_total must not be negative"))
			return
		}

		coupon, discount, err := EvaluateCode(env.Conn(c.Request.Context()), c.Param("code"), input.GrossTotal, env.Today())
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"code":           coupon.Code,
			"gross_total":    input.GrossTotal.StringFixed(2),
			"discount_total": discount.StringFixed(2),
			"net_total":      input.GrossTotal.Sub(discount).Round(2).StringFixed(2),
		})
	}
}
