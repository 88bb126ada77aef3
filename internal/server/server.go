package server

import (
	"net/http"

	"velora-be/internal/config"
	"velora-be/internal/handlers"
	"velora-be/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	User    *handlers.UserHandler
	Product *handlers.ProductHandler
	Cart    *handlers.CartHandler
	Order   *handlers.OrderHandler
}

// NewRouter assembles the HTTP surface: public catalog and auth routes,
// token-guarded cart/order routes, admin routes, and the gateway
// callback which must stay reachable without a token.
func NewRouter(cfg *config.Config, h Handlers) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: false,
	}))
	r.Use(middleware.RateLimit())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	users := api.Group("/user")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/admin", h.User.AdminLogin)
	}

	products := api.Group("/product")
	{
		products.GET("/list", h.Product.List)
		products.POST("/add", middleware.RequireAuth(), middleware.RequireAdmin(), h.Product.Add)
	}

	carts := api.Group("/cart", middleware.RequireAuth())
	{
		carts.POST("/add", h.Cart.Add)
		carts.POST("/update", h.Cart.Update)
		carts.POST("/get", h.Cart.Get)
	}

	orders := api.Group("/order")
	{
		orders.POST("/place", middleware.RequireAuth(), h.Order.PlaceOrder)
		orders.POST("/phonepe", middleware.RequireAuth(), h.Order.PlacePhonePeOrder)
		orders.POST("/phonepe-callback", h.Order.PhonePeCallback)
		orders.POST("/userorders", middleware.RequireAuth(), h.Order.UserOrders)
		orders.POST("/status", middleware.RequireAuth(), middleware.RequireAdmin(), h.Order.UpdateStatus)
		orders.POST("/list", middleware.RequireAuth(), middleware.RequireAdmin(), h.Order.ListOrders)
	}

	return r
}
