package api

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/amara/scholarfind/internal/auth"
	"github.com/amara/scholarfind/internal/content"
	"github.com/amara/scholarfind/internal/db"
	"github.com/amara/scholarfind/internal/models"
	"github.com/amara/scholarfind/internal/search"
	"github.com/amara/scholarfind/internal/storage"
)

type Server struct {
	Store       *db.Store
	AuthService *auth.Service
	Index       *content.Index
	Files       storage.Storage
	Echo        *echo.Echo
	DB          *pgxpool.Pool
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(pool *pgxpool.Pool, index *content.Index, files storage.Storage) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:5173"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	s := &Server{
		DB:          pool,
		Store:       db.NewStore(pool),
		AuthService: auth.NewService(pool),
		Index:       index,
		Files:       files,
		Echo:        e,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")

	// Public content
	api.GET("/opportunities", s.handleListOpportunities)
	api.GET("/opportunities/:id", s.handleGetOpportunity)
	api.GET("/blogs", s.handleListBlogPosts)
	api.POST("/contact", s.handleSubmitContact)

	// Auth
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	// Protected
	protected := api.Group("")
	protected.Use(auth.Middleware)
	protected.POST("/favorites/:id", s.handleAddFavorite)
	protected.DELETE("/favorites/:id", s.handleRemoveFavorite)
	protected.GET("/favorites", s.handleListFavorites)
	protected.POST("/blogs/:id/upvote", s.handleToggleUpvote)
	protected.POST("/blogs/:id/view", s.handleRecordView)
	protected.GET("/blogs/upvoted/count", s.handleUpvotedCount)
	protected.POST("/help-requests", s.handleCreateHelpRequest)
	protected.GET("/help-requests", s.handleListMyHelpRequests)
	protected.POST("/documents", s.handleUploadDocument)
	protected.GET("/documents", s.handleListMyDocuments)

	// Admin dashboard
	admin := api.Group("/admin")
	admin.Use(s.adminMiddleware)
	admin.GET("/help-requests", s.handleAdminListHelpRequests)
	admin.PATCH("/help-requests/:id/status", s.handleUpdateHelpRequestStatus)
	admin.GET("/contact-submissions", s.handleAdminListContacts)
}

// apiError writes the uniform error shape every remote failure degrades
// to. Nothing escapes as an unhandled exception; Recover is the backstop.
func apiError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, map[string]string{"code": code, "message": message})
}

func validationError(c echo.Context, err error) error {
	var verr *auth.ValidationError
	if errors.As(err, &verr) {
		return apiError(c, http.StatusBadRequest, "validation/"+verr.Field, verr.Message)
	}
	return apiError(c, http.StatusBadRequest, "validation/failed", err.Error())
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "bad-request", "Invalid request")
	}
	if err := auth.ValidateSignup(req); err != nil {
		return validationError(c, err)
	}

	resp, err := s.AuthService.Signup(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrUserExists {
			return apiError(c, http.StatusConflict, "auth/email-in-use", err.Error())
		}
		return apiError(c, http.StatusInternalServerError, "auth/signup-failed", err.Error())
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "bad-request", "Invalid request")
	}

	resp, err := s.AuthService.Login(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrInvalidCreds {
			return apiError(c, http.StatusUnauthorized, "auth/invalid-credentials", "Invalid credentials")
		}
		return apiError(c, http.StatusInternalServerError, "auth/login-failed", err.Error())
	}

	return c.JSON(http.StatusOK, resp)
}

type opportunityList struct {
	Opportunities []models.Opportunity `json:"opportunities"`
	Total         int                  `json:"total"`
	Facets        search.FacetCounts   `json:"facets"`
}

func (s *Server) handleListOpportunities(c echo.Context) error {
	q := search.Query{
		Type:          c.QueryParam("type"),
		Keywords:      c.QueryParam("keywords"),
		FundingTypes:  splitCSV(c.QueryParam("funding_type")),
		LevelsOfStudy: splitCSV(c.QueryParam("level_of_study")),
		SubjectAreas:  splitCSV(c.QueryParam("subject_areas")),
		SortBy:        c.QueryParam("sort"),
	}

	results := search.Filter(s.Index.Opportunities(), q)
	facets := search.Facets(results)

	if userID, ok := auth.OptionalUserID(c); ok {
		ids, err := s.Store.ListFavoriteIDs(c.Request().Context(), userID)
		if err != nil {
			c.Logger().Errorf("Failed to load favorites: %v", err)
		} else {
			markFavorites(results, ids)
		}
	}

	return c.JSON(http.StatusOK, opportunityList{
		Opportunities: results,
		Total:         len(results),
		Facets:        facets,
	})
}

func (s *Server) handleGetOpportunity(c echo.Context) error {
	opp, ok := s.Index.Opportunity(c.Param("id"))
	if !ok {
		return apiError(c, http.StatusNotFound, "not-found", "Opportunity not found")
	}

	if userID, authed := auth.OptionalUserID(c); authed {
		ids, err := s.Store.ListFavoriteIDs(c.Request().Context(), userID)
		if err == nil {
			for _, id := range ids {
				if id == opp.ID {
					opp.IsFavorited = true
					break
				}
			}
		}
	}

	return c.JSON(http.StatusOK, opp)
}

// Favorites

func (s *Server) handleAddFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return apiError(c, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
	}

	oppID := c.Param("id")
	if _, ok := s.Index.Opportunity(oppID); !ok {
		return apiError(c, http.StatusNotFound, "not-found", "Opportunity not found")
	}

	if err := s.Store.AddFavorite(ctx, userID, oppID); err != nil {
		if errors.Is(err, db.ErrAlreadyFavorited) {
			return apiError(c, http.StatusConflict, "already-favorited", "Already in favorites")
		}
		return apiError(c, http.StatusInternalServerError, "favorites/add-failed", "Failed to add favorite")
	}

	return c.JSON(http.StatusCreated, map[string]string{"status": "favorited"})
}

func (s *Server) handleRemoveFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return apiError(c, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
	}

	if err := s.Store.RemoveFavorite(ctx, userID, c.Param("id")); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apiError(c, http.StatusNotFound, "not-found", "Favorite not found")
		}
		return apiError(c, http.StatusInternalServerError, "favorites/remove-failed", "Failed to remove favorite")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "unfavorited"})
}

func (s *Server) handleListFavorites(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return apiError(c, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
	}

	ids, err := s.Store.ListFavoriteIDs(ctx, userID)
	if err != nil {
		return apiError(c, http.StatusInternalServerError, "favorites/list-failed", "Failed to fetch favorites")
	}

	// Favorites outliving their listing are simply skipped; the relation's
	// lifetime is independent of the opportunity's.
	opps := []models.Opportunity{}
	for _, id := range ids {
		if opp, ok := s.Index.Opportunity(id); ok {
			opp.IsFavorited = true
			opps = append(opps, opp)
		}
	}

	return c.JSON(http.StatusOK, opps)
}

func markFavorites(opps []models.Opportunity, favoriteIDs []string) {
	set := make(map[string]bool, len(favoriteIDs))
	for _, id := range favoriteIDs {
		set[id] = true
	}
	for i := range opps {
		opps[i].IsFavorited = set[opps[i].ID]
	}
}

// splitCSV splits a comma-separated query parameter into trimmed non-empty strings.
func splitCSV(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret()
		if err != nil {
			return apiError(c, http.StatusInternalServerError, "admin/config-error", "Server admin configuration error")
		}

		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return apiError(c, http.StatusUnauthorized, "admin/unauthorized", "Unauthorized admin access")
	}
}

func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
