package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"k9vision/api/internal/reviews"
)

// ListReviews proxies the business's Yelp reviews for the public site.
// Without an API key, and on any upstream failure, it answers 200 with
// static:true so the frontend falls back to its baked-in quotes.
func (h HandlerSet) ListReviews(c *gin.Context) {
	if !h.reviews.Enabled() {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"reviews": []reviews.Review{},
			"static":  true,
			"message": "Using static reviews - configure a Yelp API key to enable live reviews",
		})
		return
	}

	revs, total, err := h.reviews.Fetch(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("yelp reviews fetch failed")
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"reviews": []reviews.Review{},
			"static":  true,
		})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": revs,
		"total":   total,
		"static":  false,
	})
}
