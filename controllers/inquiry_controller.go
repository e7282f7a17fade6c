package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fusion6/inquiry"
	"fusion6/models"
)

func (h *Handler) SubmitInquiry(c *gin.Context) {
	var form models.Inquiry
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	saved, err := h.Inquiries.Submit(c.Request.Context(), h.local(c), c.Param("service"), form)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Inquiry received", "data": saved})
}

func (h *Handler) GetInquiries(c *gin.Context) {
	service := c.Param("service")
	if !inquiry.Known(service) {
		h.fail(c, inquiry.ErrUnknownService)
		return
	}

	inquiries := h.Inquiries.List(c.Request.Context(), h.local(c), service)
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "count": len(inquiries), "data": inquiries})
}
