package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/glowhub/app"
	cartControllers "github.com/junaidrashid-git/glowhub/controllers/cart"
	customerControllers "github.com/junaidrashid-git/glowhub/controllers/customer"
	orderControllers "github.com/junaidrashid-git/glowhub/controllers/order"
	reviewControllers "github.com/junaidrashid-git/glowhub/controllers/review"
)

// SetupCustomerRoutes registers all "/customers/*" endpoints.
func SetupCustomerRoutes(r *gin.Engine, env *app.Env) {
	customers := r.Group("/customers")
	{
		customers.POST("", customerControllers.PostCustomer(env))
		customers.GET("/:id", customerControllers.GetCustomerHandler(env))
		customers.DELETE("/:id", customerControllers.DeleteCustomerHandler(env))
		customers.POST("/:id/addresses", customerControllers.PostAddress(env))

		// ──────────────── Shopping Cart ────────────────
		customers.GET("/:id/cart", cartControllers.GetCustomerCart(env))
		customers.POST("/:id/cart", cartControllers.UpdateCartItem(env))
		customers.DELETE("/:id/cart/:sku", cartControllers.DeleteCartItem(env))

		customers.POST("/:id/checkout", orderControllers.CheckoutHandler(env))
		customers.POST("/:id/reviews", reviewControllers.PostReview(env))
	}
}
