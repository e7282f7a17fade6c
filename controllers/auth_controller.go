package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fusion6/identity"
	"fusion6/middleware"
	"fusion6/models"
)

func (h *Handler) issue(c *gin.Context, status int, message string, user *models.User) {
	token, err := h.Tokens.Issue(*user)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(status, gin.H{
		"message": message,
		"data":    gin.H{"user": user, "token": token},
	})
}

func (h *Handler) Signup(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
		Remember bool   `json:"remember"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.Identity.Signup(c.Request.Context(), h.session(c), identity.SignupInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Phone:    input.Phone,
		Address:  input.Address,
	}, input.Remember)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.issue(c, http.StatusCreated, "User registered successfully", user)
}

func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Remember bool   `json:"remember"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.Identity.Login(c.Request.Context(), h.session(c), input.Email, input.Password, input.Remember)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.issue(c, http.StatusOK, "Login success", user)
}

// Logout clears the session pointer and revokes the bearer token, if any.
// Logging out twice is not an error.
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	h.Identity.Logout(ctx, h.session(c))
	if token := middleware.BearerToken(c); token != "" {
		h.Tokens.Revoke(ctx, token)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.Identity.Current(c.Request.Context(), h.session(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": user})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var body struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.Identity.UpdateProfile(c.Request.Context(), h.session(c), identity.ProfilePatch{
		Name:    body.Name,
		Phone:   body.Phone,
		Address: body.Address,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "data": user})
}
