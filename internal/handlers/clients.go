package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"k9vision/api/internal/models"
	"k9vision/api/internal/repository"
	"k9vision/api/internal/security"
	"k9vision/api/internal/service"
)

type clientResponse struct {
	ID         int64   `json:"id"`
	UserID     *int64  `json:"user_id"`
	ClientName string  `json:"client_name"`
	Email      string  `json:"email"`
	DogName    string  `json:"dog_name"`
	DogBreed   *string `json:"breed"`
	DogAge     *int    `json:"age"`
	Notes      *string `json:"notes"`
	Username   *string `json:"username,omitempty"`
}

func toClientResponse(client models.Client) clientResponse {
	return clientResponse{
		ID:         client.ID,
		UserID:     client.UserID,
		ClientName: client.ClientName,
		Email:      client.Email,
		DogName:    client.DogName,
		DogBreed:   client.DogBreed,
		DogAge:     client.DogAge,
		Notes:      client.Notes,
		Username:   client.Username,
	}
}

func parsePositiveID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := parsePositiveID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

func (h HandlerSet) ListClients(c *gin.Context) {
	clients, err := h.store.Clients().List(c.Request.Context())
	if err != nil {
		h.serviceError(c, err)
		return
	}

	resp := make([]clientResponse, 0, len(clients))
	for _, client := range clients {
		resp = append(resp, toClientResponse(client))
	}
	c.JSON(http.StatusOK, gin.H{"clients": resp})
}

type createClientRequest struct {
	ClientName string  `json:"client_name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	DogName    string  `json:"dog_name" binding:"required"`
	DogBreed   *string `json:"breed"`
	DogAge     *int    `json:"age"`
	Username   string  `json:"username" binding:"required,min=3"`
	Password   string  `json:"password" binding:"required,min=8"`
}

// CreateClient is the admin shortcut: client profile plus an active,
// already-credentialed user in one call. No verification round trip.
func (h HandlerSet) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// same canonical form the lifecycle flows store, so password-reset
	// lookups by email keep matching
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx := c.Request.Context()
	var clientID int64
	err := h.store.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Clients().FindByEmail(ctx, req.Email); err == nil {
			return service.ErrClientEmailExists
		} else if err != repository.ErrClientNotFound {
			return err
		}
		if _, err := tx.Users().FindByUsername(ctx, req.Username); err == nil {
			return service.ErrUsernameTaken
		} else if err != repository.ErrUserNotFound {
			return err
		}

		hash, err := security.HashPassword(req.Password)
		if err != nil {
			return err
		}

		userID, err := tx.Users().Create(ctx, models.User{
			Username:     req.Username,
			Email:        &req.Email,
			PasswordHash: hash,
			Role:         models.UserRoleClient,
			Status:       models.UserStatusActive,
		})
		if err != nil {
			return err
		}

		clientID, err = tx.Clients().Create(ctx, models.Client{
			UserID:     &userID,
			ClientName: req.ClientName,
			Email:      req.Email,
			DogName:    req.DogName,
			DogBreed:   req.DogBreed,
			DogAge:     req.DogAge,
		})
		return err
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "client_id": clientID})
}

func (h HandlerSet) GetClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	client, err := h.store.Clients().GetByID(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": toClientResponse(client)})
}

func (h HandlerSet) DeleteClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accounts.DeleteClient(c.Request.Context(), id); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) GetClientByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if caller, ok := currentUserID(c); !ok || (!isAdmin(c) && caller != userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	client, err := h.store.Clients().FindByUserID(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": toClientResponse(client)})
}

type updateClientRequest struct {
	ClientName string  `json:"client_name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	DogName    string  `json:"dog_name" binding:"required"`
	DogBreed   *string `json:"breed"`
	DogAge     *int    `json:"age"`
	Notes      *string `json:"notes"`
}

func (h HandlerSet) UpdateClientByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if caller, ok := currentUserID(c); !ok || (!isAdmin(c) && caller != userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var req updateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	client, err := h.store.Clients().FindByUserID(ctx, userID)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	client.ClientName = req.ClientName
	client.Email = req.Email
	client.DogName = req.DogName
	client.DogBreed = req.DogBreed
	client.DogAge = req.DogAge
	client.Notes = req.Notes

	if err := h.store.Clients().Update(ctx, client); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "client": toClientResponse(client)})
}

type inviteClientRequest struct {
	ClientName string  `json:"client_name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	DogName    string  `json:"dog_name" binding:"required"`
	DogBreed   *string `json:"breed"`
	DogAge     *int    `json:"age"`
}

func (h HandlerSet) InviteClient(c *gin.Context) {
	var req inviteClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientID, err := h.accounts.InviteClient(c.Request.Context(), service.InviteInput{
		ClientName: req.ClientName,
		Email:      req.Email,
		DogName:    req.DogName,
		DogBreed:   req.DogBreed,
		DogAge:     req.DogAge,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "client_id": clientID, "invite_sent": true})
}

type adminResetPasswordRequest struct {
	ClientID    int64  `json:"client_id" binding:"required"`
	Mode        string `json:"mode" binding:"required,oneof=email manual"`
	NewPassword string `json:"new_password" binding:"omitempty,min=8"`
}

func (h HandlerSet) AdminResetPassword(c *gin.Context) {
	var req adminResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Mode == service.ResetModeManual && req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "new_password is required for manual mode"})
		return
	}

	if err := h.accounts.AdminResetPassword(c.Request.Context(), req.ClientID, req.Mode, req.NewPassword); err != nil {
		h.serviceError(c, err)
		return
	}

	message := "Password updated"
	if req.Mode == service.ResetModeEmail {
		message = "Reset email sent"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}
