package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fusion6/menu"
	"fusion6/models"
)

func (h *Handler) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	created, err := h.Menu.Create(c.Request.Context(), item)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item created", "data": created})
}

func (h *Handler) UpdateMenuItem(c *gin.Context) {
	var patch menu.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.Menu.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "data": updated})
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id := c.Param("id")
	if err := h.Menu.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted", "id": id})
}
