package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"k9vision/api/internal/models"
	"k9vision/api/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(secret string, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{Auth(secret)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "claims missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"uid": claims.UserID, "role": claims.Role})
	})
	r.GET("/protected", chain...)
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuth_MissingHeader(t *testing.T) {
	r := authRouter("secret")

	rec := doGet(r, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	r := authRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	r := authRouter("secret")

	rec := doGet(r, "not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_WrongSecret(t *testing.T) {
	r := authRouter("secret")

	token, err := security.GenerateSessionToken("other-secret", 1, "alice", "admin", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	rec := doGet(r, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	r := authRouter("secret")

	token, err := security.GenerateSessionToken("secret", 7, "alice", "client", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	rec := doGet(r, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestRequireRoles_ClientBlocked(t *testing.T) {
	r := authRouter("secret", RequireRoles(models.UserRoleAdmin))

	token, err := security.GenerateSessionToken("secret", 7, "bob", "client", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	rec := doGet(r, token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRoles_AdminAllowed(t *testing.T) {
	r := authRouter("secret", RequireRoles(models.UserRoleAdmin))

	token, err := security.GenerateSessionToken("secret", 1, "root", "admin", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	rec := doGet(r, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

// RequireRoles with no Auth in front must fail closed as a 401, not let
// the request through.
func TestRequireRoles_NoClaims(t *testing.T) {
	r := gin.New()
	r.GET("/admin", RequireRoles(models.UserRoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
