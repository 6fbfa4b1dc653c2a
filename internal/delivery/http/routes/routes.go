package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/227007/E-commerce-backend/internal/delivery/http/handlers"
	"github.com/227007/E-commerce-backend/internal/delivery/http/middleware"
)

// Register wires the order API. The buyer and company listings live under
// their own prefixes so static paths never collide with /orders/:id.
func Register(router *gin.Engine, orderHandler *handlers.OrderHandler, metrics *middleware.ServerMetrics) {
	if metrics != nil {
		router.Use(metrics.Middleware())
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))

	api := router.Group("/api", middleware.Identity())

	orders := api.Group("/orders")
	orders.POST("", orderHandler.CreateOrder)
	orders.GET("", middleware.RequireUserType("admin"), orderHandler.GetOrders)
	orders.GET("/:id", orderHandler.GetOrder)
	orders.PUT("/:id/pay", middleware.RequireUserType("company", "admin"), orderHandler.PayOrder)
	orders.PUT("/:id/status", middleware.RequireUserType("company", "admin"), orderHandler.UpdateOrderStatus)
	orders.POST("/:id/notes", middleware.RequireUserType("company", "admin"), orderHandler.AddOrderNote)

	api.GET("/my/orders", orderHandler.GetMyOrders)
	api.GET("/company/orders", middleware.RequireUserType("company"), orderHandler.GetCompanyOrders)
}
