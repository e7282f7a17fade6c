package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fusion6/identity"
	"fusion6/models"
	"fusion6/tracking"
)

func (h *Handler) CheckoutSummary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Fetch success",
		"data":    h.Pricing.Summarize(h.cart(c).Snapshot()),
	})
}

// Checkout places an order from the profile's cart. A signed-in user is
// recorded as the buyer; guests may pass a name and email in the body.
func (h *Handler) Checkout(c *gin.Context) {
	var buyer models.Buyer
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&buyer); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	ctx := c.Request.Context()
	var userID string
	user, err := h.Identity.Current(ctx, h.session(c))
	switch {
	case err == nil:
		userID = user.ID
		buyer = models.Buyer{Name: user.Name, Email: user.Email}
	case !errors.Is(err, identity.ErrNotSignedIn):
		h.fail(c, err)
		return
	}

	placed, err := h.Orders.PlaceOrder(ctx, h.local(c), h.cart(c), userID, &buyer)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order placed", "data": placed})
}

func (h *Handler) GetOrders(c *gin.Context) {
	orders := h.Orders.Orders(c.Request.Context(), h.local(c))
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "count": len(orders), "data": orders})
}

func (h *Handler) ClearOrders(c *gin.Context) {
	h.Orders.ClearOrders(c.Request.Context(), h.local(c))
	c.JSON(http.StatusOK, gin.H{"message": "Order history cleared"})
}

func (h *Handler) GetLatestOrder(c *gin.Context) {
	latest, err := h.Orders.Latest(c.Request.Context(), h.local(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": latest})
}

// GetTracking returns the tracking view as it stands when the page opens.
func (h *Handler) GetTracking(c *gin.Context) {
	tr, err := tracking.Open(c.Request.Context(), h.local(c), h.Tracking)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Fetch success",
		"data":    gin.H{"order": tr.Order(), "progress": tr.Progress()},
	})
}

// StreamTracking pushes a "progress" event per status change until the order
// is delivered. The simulation stops when the client goes away.
func (h *Handler) StreamTracking(c *gin.Context) {
	tr, err := tracking.Open(c.Request.Context(), h.local(c), h.Tracking)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer tr.Stop()

	updates := make(chan tracking.Progress, len(models.OrderStatuses()))
	initial := tr.Progress()
	tr.Start(func(p tracking.Progress) { updates <- p })

	c.Header("Content-Type", sse.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Render(-1, sse.Event{Event: "progress", Id: initial.OrderID, Data: initial})
	c.Writer.Flush()

	done := c.Request.Context().Done()
	clientGone := c.Stream(func(w io.Writer) bool {
		select {
		case <-done:
			return false
		case p := <-updates:
			c.Render(-1, sse.Event{Event: "progress", Id: p.OrderID, Data: p})
			return !p.Done
		}
	})

	h.Logger.Debug("tracking stream closed",
		zap.String("profile_id", h.profileID(c)),
		zap.Bool("client_gone", clientGone))
}
