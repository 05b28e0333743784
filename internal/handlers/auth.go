package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"k9vision/api/internal/models"
	"k9vision/api/internal/service"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user": userResponse{
			ID:       user.ID,
			Username: user.Username,
			Role:     string(user.Role),
		},
	})
}

type adminRegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=admin client"`
}

func (h HandlerSet) AdminRegister(c *gin.Context) {
	var req adminRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.CreateUser(c.Request.Context(), req.Username, req.Password, models.UserRole(req.Role))
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user": userResponse{
			ID:       user.ID,
			Username: user.Username,
			Role:     string(user.Role),
		},
	})
}

type selfRegisterRequest struct {
	ClientName string  `json:"client_name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	DogName    string  `json:"dog_name" binding:"required"`
	DogBreed   *string `json:"breed"`
	DogAge     *int    `json:"age"`
	Username   string  `json:"username" binding:"required,min=3"`
	Password   string  `json:"password" binding:"required,min=8"`
}

func (h HandlerSet) SelfRegister(c *gin.Context) {
	var req selfRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.accounts.SelfRegister(c.Request.Context(), service.SelfRegisterInput{
		ClientName: req.ClientName,
		Email:      req.Email,
		DogName:    req.DogName,
		DogBreed:   req.DogBreed,
		DogAge:     req.DogAge,
		Username:   req.Username,
		Password:   req.Password,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful. Please check your email to verify your account.",
	})
}

type verifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h HandlerSet) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// forgotPasswordMessage is returned whether or not the email matches an
// account. Byte-identical both ways; enumeration learns nothing.
const forgotPasswordMessage = "If an account with that email exists, a reset link has been sent."

func (h HandlerSet) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": forgotPasswordMessage})
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h HandlerSet) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password has been reset successfully"})
}

type setupAccountRequest struct {
	Token    string `json:"token" binding:"required"`
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h HandlerSet) SetupAccount(c *gin.Context) {
	var req setupAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.SetupAccount(c.Request.Context(), req.Token, req.Username, req.Password); err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Account created successfully"})
}

type validateTokenRequest struct {
	Token string `json:"token" binding:"required"`
	Type  string `json:"type" binding:"required"`
}

// ValidateToken is a pre-flight check for setup and reset pages. An
// invalid token is a 200 with valid:false, never an error.
func (h HandlerSet) ValidateToken(c *gin.Context) {
	var req validateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tc, err := h.accounts.ValidateToken(c.Request.Context(), req.Token, models.TokenType(req.Type))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if tc == nil {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	data := gin.H{}
	if tc.ClientName != nil {
		data["client_name"] = *tc.ClientName
	}
	if tc.DogName != nil {
		data["dog_name"] = *tc.DogName
	}
	if tc.Email != nil {
		data["email"] = *tc.Email
	}
	if tc.ClientEmail != nil {
		data["email"] = *tc.ClientEmail
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "data": data})
}
