package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fusion6/models"
)

func (h *Handler) cartResponse(c *gin.Context, message string, snapshot models.Cart) {
	if snapshot.Items == nil {
		snapshot.Items = []models.LineItem{}
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data": gin.H{
			"items":         snapshot.Items,
			"lastAddedItem": snapshot.LastAdded,
			"summary":       h.Pricing.Summarize(snapshot),
		},
	})
}

func (h *Handler) GetCart(c *gin.Context) {
	h.cartResponse(c, "Fetch success", h.cart(c).Snapshot())
}

// AddToCart adds one unit of a menu dish.
func (h *Handler) AddToCart(c *gin.Context) {
	var body struct {
		ProductID string `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx := c.Request.Context()
	item, err := h.Menu.Get(ctx, body.ProductID)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.cartResponse(c, "Added to cart", h.cart(c).Add(ctx, item.Product))
}

// UpdateCart sets a line's quantity. Zero or less removes the line.
func (h *Handler) UpdateCart(c *gin.Context) {
	var body struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	snapshot := h.cart(c).SetQuantity(c.Request.Context(), c.Param("productId"), *body.Quantity)
	h.cartResponse(c, "Cart updated", snapshot)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	h.cartResponse(c, "Item removed", h.cart(c).Remove(c.Request.Context(), c.Param("productId")))
}

func (h *Handler) ClearCart(c *gin.Context) {
	h.cartResponse(c, "Cart cleared", h.cart(c).Clear(c.Request.Context()))
}

func (h *Handler) ClearLastAdded(c *gin.Context) {
	h.cartResponse(c, "Acknowledged", h.cart(c).ClearLastAdded(c.Request.Context()))
}
