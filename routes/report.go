package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/glowhub/app"
	reportControllers "github.com/junaidrashid-git/glowhub/controllers/report"
)

// SetupReportRoutes registers the "/reports/*" projections. Each accepts ?format=xlsx.
func SetupReportRoutes(r *gin.Engine, env *app.Env) {
	reports := r.Group("/reports")
	{
		reports.GET("/customer-orders", reportControllers.CustomerOrders(env))
		reports.GET("/orders/:id/lines", reportControllers.OrderLines(env))
		reports.GET("/carrier-shipments", reportControllers.CarrierShipments(env))
		reports.GET("/low-stock", reportControllers.LowStock(env))
		reports.GET("/coupon-usage", reportControllers.CouponUsage(env))
		reports.GET("/category-reviews", reportControllers.CategoryReviews(env))
	}
}
