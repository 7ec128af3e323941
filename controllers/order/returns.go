package orderControllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/apperror"
	"github.com/junaidrashid-git/glowhub/middleware"
	"github.com/junaidrashid-git/glowhub/models"
)

type ReturnRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// OpenReturn opens a return against one order line. A line can be returned once.
func OpenReturn(ctx context.Context, env *app.Env, orderLineID uint, reason string) (*models.Return, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.InvalidArgument("return reason is required")
	}

	var ret models.Return
	err := env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.OrderLine{}, orderLineID).Error; err != nil {
			return apperror.FromStore("order line", apperror.Key(orderLineID), err)
		}
		ret = models.Return{
			OrderLineID: orderLineID,
			Reason:      reason,
			Status:      models.ReturnOpen,
			OpenedOn:    env.Today(),
		}
		if err := tx.Create(&ret).Error; err != nil {
			return apperror.FromStore("return", apperror.Key(orderLineID), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	env.Log.Info("return opened", zap.Uint("order_line_id", orderLineID), zap.Uint("return_id", ret.ID))
	return &ret, nil
}

// POST /order-lines/:id/returns
func OpenReturnHandler(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		lineID, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		var req ReturnRequest
		if !middleware.Bind(c, &req) {
			return
		}

		ret, err := OpenReturn(c.Request.Context(), env, lineID, req.Reason)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, ret)
	}
}
