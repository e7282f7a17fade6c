package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"fusion6/cart"
	"fusion6/identity"
	"fusion6/inquiry"
	"fusion6/menu"
	"fusion6/middleware"
	"fusion6/order"
	"fusion6/store"
	"fusion6/tracking"
)

// Handler carries the engines the HTTP handlers work on.
type Handler struct {
	Profiles  *store.Profiles
	Carts     *cart.Registry
	Orders    *order.Engine
	Pricing   order.Pricing
	Identity  *identity.Service
	Tokens    *identity.Tokens
	Menu      *menu.Catalog
	Inquiries *inquiry.Service
	Tracking  tracking.Options
	Logger    *zap.Logger
}

func (h *Handler) profileID(c *gin.Context) string {
	return c.GetString(middleware.KeyProfileID)
}

// local is the profile's durable namespace.
func (h *Handler) local(c *gin.Context) *store.Store {
	return h.Profiles.Local(h.profileID(c))
}

func (h *Handler) session(c *gin.Context) identity.Session {
	id := h.profileID(c)
	return identity.Session{
		Durable: h.Profiles.Local(id),
		Tab:     h.Profiles.Session(id),
	}
}

func (h *Handler) cart(c *gin.Context) *cart.Engine {
	return h.Carts.For(c.Request.Context(), h.profileID(c))
}

// fail writes the response for a domain error.
func (h *Handler) fail(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, identity.ErrDuplicateEmail),
		errors.Is(err, menu.ErrDuplicateID):
		status = http.StatusConflict
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrNotSignedIn):
		status = http.StatusUnauthorized
	case errors.Is(err, order.ErrEmptyCartCheckout),
		errors.Is(err, identity.ErrInvalidInput),
		errors.Is(err, menu.ErrInvalidItem),
		errors.Is(err, menu.ErrReservedID),
		errors.As(err, &verrs):
		status = http.StatusBadRequest
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, menu.ErrItemNotFound),
		errors.Is(err, inquiry.ErrUnknownService):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.Logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
