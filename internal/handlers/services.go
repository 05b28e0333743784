package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"k9vision/api/internal/models"
)

type serviceResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Active      bool    `json:"active"`
}

func toServiceResponse(svc models.Service) serviceResponse {
	return serviceResponse{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		Price:       svc.Price,
		Active:      svc.Active,
	}
}

// ListServices returns active offerings to clients and everything to
// admins.
func (h HandlerSet) ListServices(c *gin.Context) {
	services, err := h.store.Services().List(c.Request.Context(), !isAdmin(c))
	if err != nil {
		h.serviceError(c, err)
		return
	}

	resp := make([]serviceResponse, 0, len(services))
	for _, svc := range services {
		resp = append(resp, toServiceResponse(svc))
	}
	c.JSON(http.StatusOK, gin.H{"services": resp})
}

type serviceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Active      *bool   `json:"active"`
}

func (h HandlerSet) CreateService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	id, err := h.store.Services().Create(c.Request.Context(), models.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Active:      active,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "service_id": id})
}

func (h HandlerSet) UpdateService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc, err := h.store.Services().GetByID(ctx, id)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	svc.Name = req.Name
	svc.Description = req.Description
	svc.Price = req.Price
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.store.Services().Update(ctx, svc); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "service": toServiceResponse(svc)})
}

func (h HandlerSet) DeleteService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.store.Services().Delete(c.Request.Context(), id); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
