package routes

import (
	"github.com/gin-gonic/gin"

	"fusion6/controllers"
	"fusion6/middleware"
)

func RegisterRoutes(r *gin.Engine, h *controllers.Handler) {

	api := r.Group("/api")
	api.Use(middleware.ProfileMiddleware())
	{
		api.POST("/signup", h.Signup)
		api.POST("/login", h.Login)
		api.POST("/logout", h.Logout)

		api.GET("/menu", h.GetMenu)
		api.GET("/menu/:id", h.GetMenuItem)

		api.GET("/profile", h.GetProfile)
		api.PUT("/profile", h.UpdateProfile)

		api.GET("/cart", h.GetCart)
		api.POST("/cart", h.AddToCart)
		api.DELETE("/cart", h.ClearCart)
		api.DELETE("/cart/last-added", h.ClearLastAdded)
		api.PUT("/cart/:productId", h.UpdateCart)
		api.DELETE("/cart/:productId", h.RemoveFromCart)

		api.GET("/checkout/summary", h.CheckoutSummary)
		api.POST("/checkout", h.Checkout)

		api.GET("/orders", h.GetOrders)
		api.DELETE("/orders", h.ClearOrders)
		api.GET("/orders/latest", h.GetLatestOrder)
		api.GET("/orders/latest/tracking", h.GetTracking)
		api.GET("/orders/latest/tracking/stream", h.StreamTracking)

		api.POST("/services/:service/inquiries", h.SubmitInquiry)
		api.GET("/services/:service/inquiries", h.GetInquiries)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(h.Tokens), middleware.AdminMiddleware())
		{
			admin.GET("/orders", h.GetOrdersAdmin)
			admin.GET("/orders/:id", h.GetOrderByIDAdmin)
			admin.GET("/insights", h.GetInsights)

			admin.POST("/menu", h.CreateMenuItem)
			admin.PUT("/menu/:id", h.UpdateMenuItem)
			admin.DELETE("/menu/:id", h.DeleteMenuItem)
		}
	}
}
