package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"k9vision/api/internal/config"
	"k9vision/api/internal/models"
	"k9vision/api/internal/repository"
	"k9vision/api/internal/security"
	"k9vision/api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubStore backs the handler tests with maps. The embedded interfaces
// panic on any path a test was not meant to reach.
type stubStore struct {
	repository.Store
	nextID  int64
	users   map[int64]*models.User
	clients map[int64]*models.Client
	tokens  map[string]*models.AccountToken
}

func newStubStore() *stubStore {
	return &stubStore{
		users:   make(map[int64]*models.User),
		clients: make(map[int64]*models.Client),
		tokens:  make(map[string]*models.AccountToken),
	}
}

func (s *stubStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *stubStore) Users() repository.UserStore     { return stubUsers{s: s} }
func (s *stubStore) Clients() repository.ClientStore { return stubClients{s: s} }
func (s *stubStore) Tokens() repository.TokenStore   { return stubTokens{s: s} }

func (s *stubStore) InTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

type stubUsers struct {
	repository.UserStore
	s *stubStore
}

func (r stubUsers) Create(_ context.Context, user models.User) (int64, error) {
	user.ID = r.s.id()
	r.s.users[user.ID] = &user
	return user.ID, nil
}

func (r stubUsers) FindByUsername(_ context.Context, username string) (models.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			return *u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (r stubUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range r.s.users {
		if u.Email != nil && *u.Email == email {
			return *u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (r stubUsers) UpdatePasswordHash(_ context.Context, id int64, hash []byte) error {
	if u, ok := r.s.users[id]; ok {
		u.PasswordHash = hash
		return nil
	}
	return repository.ErrUserNotFound
}

type stubClients struct {
	repository.ClientStore
	s *stubStore
}

func (r stubClients) Create(_ context.Context, client models.Client) (int64, error) {
	client.ID = r.s.id()
	r.s.clients[client.ID] = &client
	return client.ID, nil
}

func (r stubClients) GetByID(_ context.Context, id int64) (models.Client, error) {
	if c, ok := r.s.clients[id]; ok {
		return *c, nil
	}
	return models.Client{}, repository.ErrClientNotFound
}

func (r stubClients) FindByEmail(_ context.Context, email string) (models.Client, error) {
	for _, c := range r.s.clients {
		if c.Email == email {
			return *c, nil
		}
	}
	return models.Client{}, repository.ErrClientNotFound
}

type stubTokens struct {
	repository.TokenStore
	s *stubStore
}

func (r stubTokens) Insert(_ context.Context, token models.AccountToken) error {
	token.ID = r.s.id()
	r.s.tokens[token.Token] = &token
	return nil
}

func (r stubTokens) FindValid(_ context.Context, token string, typ models.TokenType, now time.Time) (models.TokenContext, error) {
	tok, ok := r.s.tokens[token]
	if !ok || !tok.Valid(typ, now) {
		return models.TokenContext{}, repository.ErrTokenNotFound
	}
	tc := models.TokenContext{AccountToken: *tok}
	if tok.ClientID != nil {
		if c, ok := r.s.clients[*tok.ClientID]; ok {
			tc.ClientName = &c.ClientName
			tc.DogName = &c.DogName
			tc.ClientEmail = &c.Email
		}
	}
	return tc, nil
}

func (r stubTokens) Consume(_ context.Context, token string, now time.Time) (bool, error) {
	tok, ok := r.s.tokens[token]
	if !ok || tok.UsedAt != nil {
		return false, nil
	}
	used := now
	tok.UsedAt = &used
	return true, nil
}

func (r stubTokens) Invalidate(_ context.Context, typ models.TokenType, userID int64, email string, now time.Time) error {
	for _, tok := range r.s.tokens {
		if tok.Type != typ || tok.UsedAt != nil {
			continue
		}
		byUser := userID != 0 && tok.UserID != nil && *tok.UserID == userID
		byEmail := email != "" && tok.Email != nil && *tok.Email == email
		if byUser || byEmail {
			used := now
			tok.UsedAt = &used
		}
	}
	return nil
}

type noopMailer struct{}

func (noopMailer) SendInvite(context.Context, string, string, string, string) error {
	return nil
}

func (noopMailer) SendVerification(context.Context, string, string, string) error {
	return nil
}

func (noopMailer) SendPasswordReset(context.Context, string, string, bool) error {
	return nil
}

func newAuthTestRouter(store *stubStore) *gin.Engine {
	cfg := &config.AppConfig{}
	cfg.Security.JWTSecret = "test-secret"
	cfg.Security.SessionTTL = time.Hour

	h := HandlerSet{
		log:      zerolog.Nop(),
		cfg:      cfg,
		store:    store,
		auth:     service.NewAuthService(store, cfg, zerolog.Nop()),
		accounts: service.NewAccountService(store, noopMailer{}, zerolog.Nop()),
	}

	r := gin.New()
	r.POST("/login", h.Login)
	r.POST("/forgot-password", h.ForgotPassword)
	r.POST("/reset-password", h.ResetPassword)
	r.POST("/validate-token", h.ValidateToken)
	return r
}

func postJSON(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func seedActiveUser(t *testing.T, store *stubStore, username string, email string, password string) int64 {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	id := store.id()
	store.users[id] = &models.User{
		ID:           id,
		Username:     username,
		Email:        &email,
		PasswordHash: hash,
		Role:         models.UserRoleClient,
		Status:       models.UserStatusActive,
	}
	return id
}

func TestLoginHandler(t *testing.T) {
	store := newStubStore()
	seedActiveUser(t, store, "alice", "alice@example.com", "s3cret-pass")
	r := newAuthTestRouter(store)

	rec := postJSON(r, "/login", gin.H{"username": "alice", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status = %d, want 401", rec.Code)
	}

	rec = postJSON(r, "/login", gin.H{"username": "alice", "password": "s3cret-pass"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("no token in response")
	}
	if resp.User.Username != "alice" {
		t.Fatalf("username = %q", resp.User.Username)
	}
}

// The forgot-password response must be byte-identical whether or not
// the email belongs to an account.
func TestForgotPasswordHandler_UniformResponse(t *testing.T) {
	store := newStubStore()
	seedActiveUser(t, store, "alice", "alice@example.com", "s3cret-pass")
	r := newAuthTestRouter(store)

	known := postJSON(r, "/forgot-password", gin.H{"email": "alice@example.com"})
	unknown := postJSON(r, "/forgot-password", gin.H{"email": "ghost@example.com"})

	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("status = %d / %d, want 200 / 200", known.Code, unknown.Code)
	}
	if !bytes.Equal(known.Body.Bytes(), unknown.Body.Bytes()) {
		t.Fatalf("responses differ:\n%s\n%s", known.Body.String(), unknown.Body.String())
	}
}

func TestValidateTokenHandler_Invalid(t *testing.T) {
	r := newAuthTestRouter(newStubStore())

	rec := postJSON(r, "/validate-token", gin.H{"token": "nope", "type": "invite"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Valid {
		t.Fatalf("unknown token reported valid")
	}
}

func TestValidateTokenHandler_InviteContext(t *testing.T) {
	store := newStubStore()
	clientID := store.id()
	store.clients[clientID] = &models.Client{
		ID:         clientID,
		ClientName: "Bob",
		Email:      "bob@example.com",
		DogName:    "Luna",
	}
	email := "bob@example.com"
	store.tokens["invite-token-value"] = &models.AccountToken{
		Token:     "invite-token-value",
		Type:      models.TokenTypeInvite,
		ClientID:  &clientID,
		Email:     &email,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	r := newAuthTestRouter(store)

	rec := postJSON(r, "/validate-token", gin.H{"token": "invite-token-value", "type": "invite"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Valid bool `json:"valid"`
		Data  struct {
			ClientName string `json:"client_name"`
			DogName    string `json:"dog_name"`
			Email      string `json:"email"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Valid {
		t.Fatalf("token reported invalid")
	}
	if resp.Data.ClientName != "Bob" || resp.Data.DogName != "Luna" || resp.Data.Email != "bob@example.com" {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
}

func TestResetPasswordHandler_BadToken(t *testing.T) {
	r := newAuthTestRouter(newStubStore())

	rec := postJSON(r, "/reset-password", gin.H{"token": "nope", "password": "brand-new-pass"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}
