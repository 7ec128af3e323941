package reviewControllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/apperror"
	"github.com/junaidrashid-git/glowhub/middleware"
	"github.com/junaidrashid-git/glowhub/models"
)

type ReviewInput struct {
	SKU    string  `json:"sku" binding:"required"`
	Rating int     `json:"rating" binding:"required"`
	Title  *string `json:"title"`
	Body   *string `json:"body"`
}

// CreateReview stores a customer's review of a product. Each customer may
// review a product once.
func CreateReview(ctx context.Context, env *app.Env, customerID uint, in ReviewInput) (*models.Review, error) {
	sku := strings.TrimSpace(in.SKU)
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperror.InvalidArgument("rating must be between 1 and 5, got %d", in.Rating)
	}

	review := models.Review{
		CustomerID: customerID,
		SKU:        sku,
		Rating:     in.Rating,
		Title:      in.Title,
		Body:       in.Body,
		ReviewedOn: env.Today(),
	}
	err := env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Customer{}, customerID).Error; err != nil {
			return apperror.FromStore("customer", apperror.Key(customerID), err)
		}
		if err := tx.Select("sku").First(&models.Product{}, "sku = ?", sku).Error; err != nil {
			return apperror.FromStore("product", sku, err)
		}
		if err := tx.Omit(clause.Associations).Create(&review).Error; err != nil {
			return apperror.FromStore("review", sku, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	env.Log.Info("review created", zap.Uint("customer_id", customerID), zap.String("sku", sku), zap.Int("rating", in.Rating))
	return &review, nil
}

// POST /customers/:id/reviews
func PostReview(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		var input ReviewInput
		if !middleware.Bind(c, &input) {
			return
		}
		review, err := CreateReview(c.Request.Context(), env, customerID, input)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}
