package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"k9vision/api/internal/config"
	"k9vision/api/internal/mailer"
	"k9vision/api/internal/middleware"
	"k9vision/api/internal/models"
	"k9vision/api/internal/repository"
	"k9vision/api/internal/reviews"
	"k9vision/api/internal/service"
	"k9vision/api/internal/storage"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	store    repository.Store
	objects  *storage.ObjectStore
	cache    *redis.Client
	mail     *mailer.Mailer
	reviews  *reviews.Client
	auth     *service.AuthService
	accounts *service.AccountService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, objects *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	store := repository.NewPostgres(db)
	mail := mailer.New(cfg.Email, log)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		store:    store,
		objects:  objects,
		cache:    cache,
		mail:     mail,
		reviews:  reviews.New(cfg.Yelp),
		auth:     service.NewAuthService(store, cfg, log),
		accounts: service.NewAccountService(store, mail, log),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	limited := middleware.RateLimit(h.cache, h.cfg.RateLimit.Requests, h.cfg.RateLimit.Window)
	authRequired := middleware.Auth(h.cfg.Security.JWTSecret)
	adminOnly := middleware.RequireRoles(models.UserRoleAdmin)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", limited, h.Login)
	auth.POST("/register", authRequired, adminOnly, h.AdminRegister)
	auth.POST("/self-register", limited, h.SelfRegister)
	auth.POST("/verify-email", h.VerifyEmail)
	auth.POST("/forgot-password", limited, h.ForgotPassword)
	auth.POST("/reset-password", h.ResetPassword)
	auth.POST("/setup-account", h.SetupAccount)
	auth.POST("/validate-token", h.ValidateToken)

	clients := v1.Group("/clients", authRequired)
	clients.GET("", adminOnly, h.ListClients)
	clients.POST("", adminOnly, h.CreateClient)
	clients.GET("/:id", adminOnly, h.GetClient)
	clients.DELETE("/:id", adminOnly, h.DeleteClient)
	clients.GET("/user/:userId", h.GetClientByUser)
	clients.PUT("/user/:userId", h.UpdateClientByUser)
	clients.POST("/invite", adminOnly, h.InviteClient)
	clients.POST("/reset-password", adminOnly, h.AdminResetPassword)

	notes := v1.Group("/notes", authRequired)
	notes.GET("/client/:clientId", h.ListNotes)
	notes.POST("", adminOnly, h.CreateNote)
	notes.PUT("/:id", adminOnly, h.UpdateNote)
	notes.DELETE("/:id", adminOnly, h.DeleteNote)

	facts := v1.Group("/fun-facts", authRequired)
	facts.GET("/client/:clientId", h.ListFunFacts)
	facts.POST("", adminOnly, h.CreateFunFact)
	facts.DELETE("/:id", adminOnly, h.DeleteFunFact)

	media := v1.Group("/media", authRequired)
	media.POST("/upload", adminOnly, h.UploadMedia)
	media.GET("/client/:clientId", h.ListMedia)
	media.DELETE("/:id", adminOnly, h.DeleteMedia)

	services := v1.Group("/services", authRequired)
	services.GET("", h.ListServices)
	services.POST("", adminOnly, h.CreateService)
	services.PUT("/:id", adminOnly, h.UpdateService)
	services.DELETE("/:id", adminOnly, h.DeleteService)

	invoices := v1.Group("/invoices", authRequired, adminOnly)
	invoices.GET("", h.ListInvoices)
	invoices.POST("", h.CreateInvoice)
	invoices.GET("/:id", h.GetInvoice)
	invoices.PATCH("/:id", h.UpdateInvoiceStatus)
	invoices.POST("/:id/email", h.EmailInvoice)

	v1.GET("/reviews", h.ListReviews)
	v1.POST("/contact", limited, h.Contact)
}

// RegisterMedia mounts the public media passthrough outside /api so
// stored URLs like /media/<filename> resolve directly.
func (h HandlerSet) RegisterMedia(root gin.IRouter) {
	root.GET("/media/:filename", h.ServeMedia)
}

// serviceError maps service and repository sentinels onto the response
// taxonomy. Unknown errors are logged with detail; the client only
// sees a generic message.
func (h HandlerSet) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": "please verify your email before logging in"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrClientEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, repository.ErrClientNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrNoteNotFound),
		errors.Is(err, repository.ErrFunFactNotFound),
		errors.Is(err, repository.ErrMediaNotFound),
		errors.Is(err, repository.ErrServiceNotFound),
		errors.Is(err, repository.ErrInvoiceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// isAdmin and currentUserID read the claims set by the auth middleware.
func isAdmin(c *gin.Context) bool {
	claims, ok := middleware.Claims(c)
	return ok && claims.Role == string(models.UserRoleAdmin)
}

func currentUserID(c *gin.Context) (int64, bool) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// clientScopeAllowed reports whether the caller may read resources
// belonging to the given client: admins always, clients only their own
// profile.
func (h HandlerSet) clientScopeAllowed(c *gin.Context, clientID int64) (bool, error) {
	if isAdmin(c) {
		return true, nil
	}
	userID, ok := currentUserID(c)
	if !ok {
		return false, nil
	}

	client, err := h.store.Clients().FindByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return false, nil
		}
		return false, err
	}
	return client.ID == clientID, nil
}
