package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"k9vision/api/internal/config"
	"k9vision/api/internal/service"
)

func newClientTestRouter(store *stubStore) *gin.Engine {
	cfg := &config.AppConfig{}
	cfg.Security.JWTSecret = "test-secret"

	h := HandlerSet{
		log:      zerolog.Nop(),
		cfg:      cfg,
		store:    store,
		accounts: service.NewAccountService(store, noopMailer{}, zerolog.Nop()),
	}

	r := gin.New()
	r.POST("/clients", h.CreateClient)
	return r
}

// An admin-entered mixed-case email must land in the same canonical
// form the lifecycle flows store, or a later forgot-password lookup
// never finds the account.
func TestCreateClientHandler_NormalizesEmail(t *testing.T) {
	store := newStubStore()
	r := newClientTestRouter(store)

	rec := postJSON(r, "/clients", gin.H{
		"client_name": "Jane Doe",
		"email":       "  Jane@Example.COM ",
		"dog_name":    "Rex",
		"username":    "jane",
		"password":    "super-secret-1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	user, err := store.Users().FindByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("user not stored under normalized email: %v", err)
	}
	if user.Email == nil || *user.Email != "jane@example.com" {
		t.Fatalf("user email = %v", user.Email)
	}

	client, err := store.Clients().FindByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("client not stored under normalized email: %v", err)
	}
	if client.Email != "jane@example.com" {
		t.Fatalf("client email = %q", client.Email)
	}
}

func TestCreateClientHandler_DuplicateEmail(t *testing.T) {
	store := newStubStore()
	r := newClientTestRouter(store)

	payload := gin.H{
		"client_name": "Jane Doe",
		"email":       "jane@example.com",
		"dog_name":    "Rex",
		"username":    "jane",
		"password":    "super-secret-1",
	}
	if rec := postJSON(r, "/clients", payload); rec.Code != http.StatusCreated {
		t.Fatalf("first create: status = %d", rec.Code)
	}

	payload["username"] = "jane2"
	if rec := postJSON(r, "/clients", payload); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate email: status = %d, want 409", rec.Code)
	}
}
