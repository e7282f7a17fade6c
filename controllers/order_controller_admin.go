package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fusion6/analytics"
)

func (h *Handler) GetOrdersAdmin(c *gin.Context) {
	orders := h.Orders.ShopOrders(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "count": len(orders), "data": orders})
}

func (h *Handler) GetOrderByIDAdmin(c *gin.Context) {
	o, err := h.Orders.ShopOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": o})
}

func (h *Handler) GetInsights(c *gin.Context) {
	ctx := c.Request.Context()
	insights := analytics.Summarize(h.Orders.ShopOrders(ctx), h.Identity.Count(ctx), analytics.DefaultTopDishes)
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": insights})
}
