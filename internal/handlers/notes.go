package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"k9vision/api/internal/models"
)

type noteResponse struct {
	ID        int64  `json:"id"`
	ClientID  int64  `json:"client_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toNoteResponse(note models.Note) noteResponse {
	return noteResponse{
		ID:        note.ID,
		ClientID:  note.ClientID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: note.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (h HandlerSet) ListNotes(c *gin.Context) {
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	allowed, err := h.clientScopeAllowed(c, clientID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	notes, err := h.store.Notes().ListByClient(c.Request.Context(), clientID)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	resp := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		resp = append(resp, toNoteResponse(note))
	}
	c.JSON(http.StatusOK, gin.H{"notes": resp})
}

type createNoteRequest struct {
	ClientID int64  `json:"client_id" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

func (h HandlerSet) CreateNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.Clients().GetByID(ctx, req.ClientID); err != nil {
		h.serviceError(c, err)
		return
	}

	id, err := h.store.Notes().Create(ctx, models.Note{
		ClientID: req.ClientID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "note_id": id})
}

type updateNoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h HandlerSet) UpdateNote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Notes().Update(c.Request.Context(), id, req.Title, req.Content); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) DeleteNote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.store.Notes().Delete(c.Request.Context(), id); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) ListFunFacts(c *gin.Context) {
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	allowed, err := h.clientScopeAllowed(c, clientID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	facts, err := h.store.FunFacts().ListByClient(c.Request.Context(), clientID)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	type factResponse struct {
		ID   int64  `json:"id"`
		Fact string `json:"fact"`
	}
	resp := make([]factResponse, 0, len(facts))
	for _, fact := range facts {
		resp = append(resp, factResponse{ID: fact.ID, Fact: fact.Fact})
	}
	c.JSON(http.StatusOK, gin.H{"fun_facts": resp})
}

type createFunFactRequest struct {
	ClientID int64  `json:"client_id" binding:"required"`
	Fact     string `json:"fact" binding:"required"`
}

func (h HandlerSet) CreateFunFact(c *gin.Context) {
	var req createFunFactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.Clients().GetByID(ctx, req.ClientID); err != nil {
		h.serviceError(c, err)
		return
	}

	id, err := h.store.FunFacts().Create(ctx, models.FunFact{
		ClientID: req.ClientID,
		Fact:     req.Fact,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "fun_fact_id": id})
}

func (h HandlerSet) DeleteFunFact(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.store.FunFacts().Delete(c.Request.Context(), id); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
