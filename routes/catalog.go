package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/glowhub/app"
	couponControllers "github.com/junaidrashid-git/glowhub/controllers/coupon"
	productcontroller "github.com/junaidrashid-git/glowhub/controllers/product"
)

// SetupCatalogRoutes registers categories, products, warehouses and coupons.
func SetupCatalogRoutes(r *gin.Engine, env *app.Env) {
	// ─────────── Category Management ───────────
	categories := r.Group("/categories")
	{
		categories.POST("", productcontroller.PostCategory(env))
		categories.GET("/tree", productcontroller.GetCategoryTree(env))
		categories.DELETE("/:id", productcontroller.DeleteCategoryHandler(env))
	}

	// ─────────── Product Management ───────────
	products := r.Group("/products")
	{
		products.POST("", productcontroller.PostProduct(env))
		products.GET("", productcontroller.GetProducts(env))
		products.GET("/export", productcontroller.ExportProductsToExcel(env))
		products.PUT("/:sku/price", productcontroller.UpdatePrice(env))
		products.DELETE("/:sku", productcontroller.DeleteProductHandler(env))
	}

	// ─────────── Inventory ───────────
	warehouses := r.Group("/warehouses")
	{
		warehouses.POST("", productcontroller.PostWarehouse(env))
		warehouses.PUT("/:id/stock/:sku", productcontroller.PutStock(env))
		warehouses.POST("/:id/stock/import", productcontroller.ImportStockFromExcel(env))
	}

	coupons := r.Group("/coupons")
	{
		coupons.POST("", couponControllers.PostCoupon(env))
		coupons.POST("/:code/evaluate", couponControllers.EvaluateCoupon(env))
	}
}
