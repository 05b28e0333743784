package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,max=5000"`
}

// Contact forwards a public enquiry to the business inbox.
func (h HandlerSet) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.mail.SendContact(c.Request.Context(), req.Name, req.Email, req.Message); err != nil {
		h.log.Error().Err(err).Msg("contact mail failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "message could not be delivered"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Thanks for reaching out. We'll get back to you soon."})
}
