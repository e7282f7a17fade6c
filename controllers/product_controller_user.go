package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMenu lists dishes, optionally filtered with ?category=.
func (h *Handler) GetMenu(c *gin.Context) {
	ctx := c.Request.Context()
	items := h.Menu.List(ctx, c.Query("category"))
	c.JSON(http.StatusOK, gin.H{
		"message":    "Fetch success",
		"categories": h.Menu.Categories(ctx),
		"data":       items,
	})
}

func (h *Handler) GetMenuItem(c *gin.Context) {
	item, err := h.Menu.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": item})
}
