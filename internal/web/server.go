package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oatsaysai/letters-to-kopi/internal/assist"
	"github.com/oatsaysai/letters-to-kopi/internal/session"
	"github.com/oatsaysai/letters-to-kopi/internal/store"
)

const sessionCookie = "kopi_session"

// Options holds the HTTP-facing settings
type Options struct {
	PublicURL    string
	ErrorDisplay time.Duration // how long the client shows a failed-login hint
	Mode         string        // gin mode
}

// Server is the letters web API
type Server struct {
	store     *store.Store
	gate      *session.Gate
	sessions  *session.Manager
	assistant *assist.Assistant
	guard     *assist.Guard
	opts      Options
	router    *gin.Engine
}

// NewServer creates a new web server
func NewServer(st *store.Store, gate *session.Gate, sessions *session.Manager, assistant *assist.Assistant, opts Options) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		router.Use(gin.Logger())
	}

	s := &Server{
		store:     st,
		gate:      gate,
		sessions:  sessions,
		assistant: assistant,
		guard:     assist.NewGuard(),
		opts:      opts,
		router:    router,
	}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.POST("/login", s.handleLogin)
		api.POST("/logout", s.handleLogout)
		api.GET("/session", s.handleSession)

		authed := api.Group("", s.requireSession)
		{
			authed.PUT("/view", s.handleSwitchView)

			authed.GET("/menu", s.handleMenu)
			authed.POST("/menu/:id/open", s.handleOpenItem)
			authed.POST("/menu/back", s.handleBack)
		}

		creator := api.Group("", s.requireSession, s.requireCreator)
		{
			creator.GET("/letters", s.handleListLetters)
			creator.POST("/letters", s.handleCreateLetter)

			creator.GET("/manager/items", s.handleListItems)
			creator.POST("/manager/items", s.handleAddItem)
			creator.PATCH("/manager/items/:id", s.handleUpdateItem)
			creator.DELETE("/manager/items/:id", s.handleDeleteItem)

			creator.POST("/assist/inspiration", s.handleInspiration)
			creator.POST("/assist/refine", s.handleRefine)

			creator.GET("/share/qr", s.handleShareQR)
		}
	}

	return s
}

// Handler returns the HTTP handler for use in an http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) secureCookies() bool {
	return strings.HasPrefix(s.opts.PublicURL, "https://")
}
