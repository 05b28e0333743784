package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"k9vision/api/internal/config"
	"k9vision/api/internal/reviews"
)

func reviewsRouter(client *reviews.Client) *gin.Engine {
	h := HandlerSet{
		log:     zerolog.Nop(),
		reviews: client,
	}
	r := gin.New()
	r.GET("/reviews", h.ListReviews)
	return r
}

func getReviews(t *testing.T, r *gin.Engine) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, body
}

// Without an API key the endpoint must still answer 200 so the public
// site can fall back to its baked-in quotes.
func TestListReviews_StaticFallback(t *testing.T) {
	r := reviewsRouter(reviews.New(config.YelpConfig{BusinessID: "k9-vision"}))

	code, body := getReviews(t, r)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}
	if body["static"] != true {
		t.Fatalf("static = %v, want true", body["static"])
	}
	if revs, ok := body["reviews"].([]any); !ok || len(revs) != 0 {
		t.Fatalf("reviews = %v, want empty array", body["reviews"])
	}
}

func TestListReviews_NilClientFallback(t *testing.T) {
	r := reviewsRouter(nil)

	code, body := getReviews(t, r)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["static"] != true {
		t.Fatalf("static = %v, want true", body["static"])
	}
}
