// Package web renders the dashboard UI. Every page fetches what it needs
// through the backend client on each request; nothing is cached across
// requests and navigating back always re-fetches.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/internal/backend"
	"github.com/twinhealth/healthdash/internal/dashboard"
	"github.com/twinhealth/healthdash/internal/middleware"
	"github.com/twinhealth/healthdash/internal/session"
	"github.com/twinhealth/healthdash/pkg/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server wires the view layer to the backend client and session service
type Server struct {
	client  *backend.Client
	session *session.Service
	dash    *dashboard.Service
	logger  *zap.Logger
}

// NewServer creates the web server
func NewServer(client *backend.Client, sess *session.Service, dash *dashboard.Service, logger *zap.Logger) *Server {
	return &Server{
		client:  client,
		session: sess,
		dash:    dash,
		logger:  logger,
	}
}

// Router builds the gin engine with middleware, templates and routes
func (s *Server) Router() *gin.Engine {
	r := gin.New()

	r.Use(middleware.RecoveryMiddleware(s.logger))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggingMiddleware(s.logger))
	r.Use(middleware.ErrorLoggingMiddleware(s.logger))

	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	// Auth pages: authenticated users are redirected to the dashboard.
	guest := r.Group("/", s.redirectIfAuthenticated())
	{
		guest.GET("/", s.showLogin)
		guest.GET("/login", s.showLogin)
		guest.POST("/login", s.handleLogin)
		guest.GET("/register", s.showRegister)
		guest.POST("/register", s.handleRegister)
	}

	// Dashboard pages: unauthenticated users are redirected to login.
	authed := r.Group("/", s.requireAuthenticated())
	{
		authed.GET("/dashboard", s.showDashboard)
		authed.POST("/dashboard/sync", s.handleSync)
		authed.GET("/dashboard/scans", s.showScans)
		authed.GET("/dashboard/scans/upload", s.showUpload)
		authed.POST("/dashboard/scans/upload", s.handleUpload)
		authed.GET("/dashboard/scans/:id", s.showScanDetail)
		authed.GET("/dashboard/settings", s.showSettings)
		authed.POST("/googlefit/connect", s.handleGoogleFitConnect)
		authed.POST("/googlefit/disconnect", s.handleGoogleFitDisconnect)
		authed.GET("/dashboard/twin", s.showTwin)
		authed.GET("/oauth/callback", s.handleOAuthCallback)
		authed.GET("/ws/vitals", s.handleVitalsFeed)
		authed.POST("/logout", s.handleLogout)
	}

	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})

	return r
}

// requireAuthenticated redirects anonymous visitors to the login page
func (s *Server) requireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.session.Authenticated() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if user, _ := s.session.Current(); user != nil {
			c.Set("username", user.Username)
		}
		c.Next()
	}
}

// redirectIfAuthenticated keeps logged-in users off the auth pages
func (s *Server) redirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.session.Authenticated() {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

// pageData is the payload common to every rendered page
type pageData struct {
	Title   string
	User    *model.User
	Authed  bool
	Notice  string
	Problem string
	Data    any
}

func (s *Server) render(c *gin.Context, status int, name, title string, data any) {
	user, authed := s.session.Current()
	c.HTML(status, name, pageData{
		Title:   title,
		User:    user,
		Authed:  authed,
		Notice:  noticeFromQuery(c),
		Problem: problemFromQuery(c),
		Data:    data,
	})
}

// Post-redirect notices carried in query params, mirroring the flows the
// OAuth callback and settings pages rely on.
func noticeFromQuery(c *gin.Context) string {
	switch c.Query("success") {
	case "google_fit_connected":
		return "Google Fit connected successfully!"
	case "google_fit_disconnected":
		return "Google Fit disconnected successfully."
	case "scan_uploaded":
		return "Medical scan uploaded successfully."
	case "synced":
		return "Health data synced successfully."
	case "":
		return ""
	default:
		return "Done."
	}
}

func problemFromQuery(c *gin.Context) string {
	switch c.Query("error") {
	case "oauth_failed":
		return "Google Fit authorization failed. Please try again."
	case "missing_parameters":
		return "Missing authorization code or state parameter."
	case "token_exchange_failed":
		return "Failed to connect Google Fit. Please try again."
	case "sync_failed":
		return "Failed to sync health data. Please try again."
	case "":
		return ""
	default:
		return "Something went wrong. Please try again."
	}
}
