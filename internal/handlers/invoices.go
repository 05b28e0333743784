package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"k9vision/api/internal/models"
	"k9vision/api/internal/repository"
)

type invoiceItemResponse struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Amount      float64 `json:"amount"`
}

type invoiceResponse struct {
	ID        int64                 `json:"id"`
	ClientID  int64                 `json:"client_id"`
	Status    string                `json:"status"`
	Total     float64               `json:"total"`
	DueDate   *string               `json:"due_date"`
	Items     []invoiceItemResponse `json:"items,omitempty"`
	CreatedAt string                `json:"created_at"`
}

func toInvoiceResponse(invoice models.Invoice, items []models.InvoiceItem) invoiceResponse {
	resp := invoiceResponse{
		ID:        invoice.ID,
		ClientID:  invoice.ClientID,
		Status:    string(invoice.Status),
		Total:     invoice.Total,
		CreatedAt: invoice.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if invoice.DueDate != nil {
		due := invoice.DueDate.UTC().Format("2006-01-02")
		resp.DueDate = &due
	}
	for _, item := range items {
		resp.Items = append(resp.Items, invoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Amount:      item.Amount,
		})
	}
	return resp
}

func (h HandlerSet) ListInvoices(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		invoices []models.Invoice
		err      error
	)
	if clientID := c.Query("client_id"); clientID != "" {
		id, parseErr := parsePositiveID(clientID)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client_id must be a positive integer"})
			return
		}
		invoices, err = h.store.Invoices().ListByClient(ctx, id)
	} else {
		invoices, err = h.store.Invoices().List(ctx)
	}
	if err != nil {
		h.serviceError(c, err)
		return
	}

	resp := make([]invoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		resp = append(resp, toInvoiceResponse(invoice, nil))
	}
	c.JSON(http.StatusOK, gin.H{"invoices": resp})
}

type invoiceItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
}

type createInvoiceRequest struct {
	ClientID int64                `json:"client_id" binding:"required"`
	DueDate  *string              `json:"due_date"`
	Items    []invoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (h HandlerSet) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD"})
			return
		}
		dueDate = &parsed
	}

	ctx := c.Request.Context()
	var invoiceID int64
	err := h.store.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Clients().GetByID(ctx, req.ClientID); err != nil {
			return err
		}

		total := 0.0
		for _, item := range req.Items {
			total += float64(item.Quantity) * item.Amount
		}

		var err error
		invoiceID, err = tx.Invoices().Insert(ctx, models.Invoice{
			ClientID: req.ClientID,
			Status:   models.InvoiceStatusDraft,
			Total:    total,
			DueDate:  dueDate,
		})
		if err != nil {
			return err
		}

		for _, item := range req.Items {
			if err := tx.Invoices().InsertItem(ctx, models.InvoiceItem{
				InvoiceID:   invoiceID,
				Description: item.Description,
				Quantity:    item.Quantity,
				Amount:      item.Amount,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "invoice_id": invoiceID})
}

func (h HandlerSet) GetInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	invoice, err := h.store.Invoices().GetByID(ctx, id)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	items, err := h.store.Invoices().ListItems(ctx, id)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": toInvoiceResponse(invoice, items)})
}

type updateInvoiceStatusRequest struct {
	Status models.InvoiceStatus `json:"status" binding:"required,oneof=draft sent paid"`
}

func (h HandlerSet) UpdateInvoiceStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Invoices().UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// EmailInvoice sends the invoice to the client's address and flips a
// draft to sent.
func (h HandlerSet) EmailInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	invoice, err := h.store.Invoices().GetByID(ctx, id)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	client, err := h.store.Clients().GetByID(ctx, invoice.ClientID)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	if err := h.mail.SendInvoice(ctx, client.Email, client.ClientName, invoice.ID, invoice.Total); err != nil {
		h.serviceError(c, err)
		return
	}

	if invoice.Status == models.InvoiceStatusDraft {
		if err := h.store.Invoices().UpdateStatus(ctx, id, models.InvoiceStatusSent); err != nil {
			h.serviceError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sent_to": client.Email})
}
