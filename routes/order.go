package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/glowhub/app"
	orderControllers "github.com/junaidrashid-git/glowhub/controllers/order"
	paymentControllers "github.com/junaidrashid-git/glowhub/controllers/payment"
	shipmentControllers "github.com/junaidrashid-git/glowhub/controllers/shipment"
	"github.com/junaidrashid-git/glowhub/events"
)

func SetupOrderRoutes(r *gin.Engine, env *app.Env, hub *events.Hub) {
	orders := r.Group("/orders")
	{
		// websocket endpoint for real-time order updates
		if hub != nil {
			orders.GET("/ws", hub.Handler)
		}

		orders.GET("/:id", orderControllers.GetOrderByIDHandler(env))
		orders.POST("/:id/payments", paymentControllers.PayOrderHandler(env))
		orders.POST("/:id/shipments", shipmentControllers.CreateShipmentHandler(env))
	}

	r.POST("/order-lines/:id/returns", orderControllers.OpenReturnHandler(env))
}
