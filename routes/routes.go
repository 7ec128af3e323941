package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/events"
	"github.com/junaidrashid-git/glowhub/middleware"
)

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, env *app.Env, hub *events.Hub) {
	// customers, addresses, carts, checkout and reviews
	SetupCustomerRoutes(r, env)

	// categories, products, warehouses and coupons
	SetupCatalogRoutes(r, env)

	// order routes
	SetupOrderRoutes(r, env, hub)

	// read-only projections
	SetupReportRoutes(r, env)
}

// NewRouter builds the engine with logging, recovery and CORS in front of every route.
func NewRouter(env *app.Env, hub *events.Hub) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(env.Log), gin.Recovery())

	// workbook imports
	r.MaxMultipartMemory = 32 << 20

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	SetupRoutes(r, env, hub)
	return r
}
