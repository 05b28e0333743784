package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"k9vision/api/internal/ids"
	"k9vision/api/internal/models"
)

const maxUploadBytes = 50 << 20

var mediaContentTypes = map[string]models.MediaType{
	"image/jpeg":      models.MediaTypePhoto,
	"image/png":       models.MediaTypePhoto,
	"image/gif":       models.MediaTypePhoto,
	"image/webp":      models.MediaTypePhoto,
	"video/mp4":       models.MediaTypeVideo,
	"video/quicktime": models.MediaTypeVideo,
	"video/webm":      models.MediaTypeVideo,
}

type mediaResponse struct {
	ID           int64  `json:"id"`
	ClientID     int64  `json:"client_id"`
	Type         string `json:"type"`
	URL          string `json:"url"`
	OriginalName string `json:"original_name"`
	Caption      string `json:"caption"`
}

func toMediaResponse(media models.Media) mediaResponse {
	return mediaResponse{
		ID:           media.ID,
		ClientID:     media.ClientID,
		Type:         string(media.Type),
		URL:          "/media/" + media.Filename,
		OriginalName: media.OriginalName,
		Caption:      media.Caption,
	}
}

func (h HandlerSet) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	clientID, err := strconv.ParseInt(c.PostForm("client_id"), 10, 64)
	if err != nil || clientID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id must be a positive integer"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	mediaType, ok := mediaContentTypes[contentType]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported content type " + contentType})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.Clients().GetByID(ctx, clientID); err != nil {
		h.serviceError(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		h.serviceError(c, err)
		return
	}
	defer file.Close()

	filename := ids.New() + strings.ToLower(filepath.Ext(header.Filename))
	if err := h.objects.Put(ctx, filename, file, header.Size, contentType); err != nil {
		h.serviceError(c, err)
		return
	}

	media := models.Media{
		ClientID:     clientID,
		Type:         mediaType,
		Filename:     filename,
		OriginalName: header.Filename,
		Caption:      c.PostForm("caption"),
	}
	id, err := h.store.Media().Create(ctx, media)
	if err != nil {
		// The row is the source of truth; an orphaned object is
		// harmless but not worth keeping.
		if rmErr := h.objects.Remove(ctx, filename); rmErr != nil {
			h.log.Warn().Err(rmErr).Str("filename", filename).Msg("orphaned upload not removed")
		}
		h.serviceError(c, err)
		return
	}

	media.ID = id
	c.JSON(http.StatusCreated, gin.H{"success": true, "media": toMediaResponse(media)})
}

func (h HandlerSet) ListMedia(c *gin.Context) {
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

	items, err := h.store.Media().ListByClient(c.Request.Context(), clientID)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	resp := make([]mediaResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toMediaResponse(item))
	}
	c.JSON(http.StatusOK, gin.H{"media": resp})
}

func (h HandlerSet) DeleteMedia(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	media, err := h.store.Media().GetByID(ctx, id)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	if err := h.store.Media().Delete(ctx, id); err != nil {
		h.serviceError(c, err)
		return
	}
	if err := h.objects.Remove(ctx, media.Filename); err != nil {
		h.log.Warn().Err(err).Str("filename", media.Filename).Msg("stored object not removed")
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ServeMedia streams a stored object straight through. Filenames are
// generated ids, so knowing one is the access credential.
func (h HandlerSet) ServeMedia(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || strings.ContainsAny(filename, "/\\") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
		return
	}

	obj, info, err := h.objects.Get(c.Request.Context(), filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	defer obj.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, obj, nil)
}
