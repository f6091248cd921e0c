package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oatsaysai/letters-to-kopi/internal/assist"
	"github.com/oatsaysai/letters-to-kopi/internal/models"
	"github.com/oatsaysai/letters-to-kopi/internal/store"
	"github.com/oatsaysai/letters-to-kopi/internal/view"
	"github.com/oatsaysai/letters-to-kopi/pkg/qrcode"
)

const maxDraftSize = 100 << 10 // 100KB

type loginRequest struct {
	Secret string `json:"secret"`
}

type switchViewRequest struct {
	View models.View `json:"view"`
}

type inspirationRequest struct {
	Mood      models.Mood `json:"mood"`
	Recipient string      `json:"recipient"`
}

type refineRequest struct {
	Content string `json:"content"`
}

type letterOption struct {
	ID        string `json:"id"`
	Recipient string `json:"recipient"`
	Date      string `json:"date"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Session handlers

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	role, err := s.gate.Authenticate(req.Secret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":        "invalid passcode",
			"retryAfterMs": s.opts.ErrorDisplay.Milliseconds(),
		})
		return
	}

	if old, ok := s.currentSession(c); ok {
		s.sessions.Logout(old.Token)
	}
	sess := s.sessions.Start(role)
	s.setSessionCookie(c, sess.Token)

	c.JSON(http.StatusOK, sess.State())
}

func (s *Server) handleLogout(c *gin.Context) {
	if sess, ok := s.currentSession(c); ok {
		s.sessions.Logout(sess.Token)
	}
	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, models.ViewState{})
}

func (s *Server) handleSession(c *gin.Context) {
	sess, ok := s.currentSession(c)
	if !ok {
		c.JSON(http.StatusOK, models.ViewState{})
		return
	}
	c.JSON(http.StatusOK, sess.State())
}

func (s *Server) handleSwitchView(c *gin.Context) {
	var req switchViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess := sessionFrom(c)
	err := sess.View(func(vc *view.Controller) error {
		return vc.Switch(req.View)
	})
	switch {
	case errors.Is(err, view.ErrUnknownView):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, view.ErrForbiddenView):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "state": sess.State()})
	default:
		c.JSON(http.StatusOK, sess.State())
	}
}

// Letter handlers

func (s *Server) handleListLetters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"letters": s.store.Letters()})
}

func (s *Server) handleCreateLetter(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxDraftSize)

	var draft models.LetterDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	letter, err := s.store.CreateLetter(c.Request.Context(), draft)
	if errors.Is(err, store.ErrInvalidDraft) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Printf("handleCreateLetter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save letter"})
		return
	}

	sess := sessionFrom(c)
	_ = sess.View(func(vc *view.Controller) error {
		return vc.Switch(models.ViewWall)
	})

	c.JSON(http.StatusCreated, gin.H{"letter": letter, "state": sess.State()})
}

// Menu handlers

func (s *Server) handleMenu(c *gin.Context) {
	page := view.BuildMenu(s.store.Menu(), s.store.Letter)
	c.JSON(http.StatusOK, gin.H{"menu": page, "state": sessionFrom(c).State()})
}

func (s *Server) handleOpenItem(c *gin.Context) {
	item, letter, ok := s.store.ResolveMenuItem(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}

	sess := sessionFrom(c)
	err := sess.View(func(vc *view.Controller) error {
		return vc.Open(item, letter)
	})
	switch {
	case errors.Is(err, view.ErrNotOnMenu):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, view.ErrNotInteractive):
		c.JSON(http.StatusForbidden, gin.H{"error": "this one is still brewing"})
	default:
		c.JSON(http.StatusOK, gin.H{"letter": letter, "state": sess.State()})
	}
}

func (s *Server) handleBack(c *gin.Context) {
	sess := sessionFrom(c)
	_ = sess.View(func(vc *view.Controller) error {
		vc.Back()
		return nil
	})
	c.JSON(http.StatusOK, sess.State())
}

// Menu manager handlers

func (s *Server) handleListItems(c *gin.Context) {
	letters := s.store.Letters()
	options := make([]letterOption, 0, len(letters))
	for _, l := range letters {
		options = append(options, letterOption{ID: l.ID, Recipient: l.Recipient, Date: l.Date})
	}
	c.JSON(http.StatusOK, gin.H{"items": s.store.Menu(), "letters": options})
}

func (s *Server) handleAddItem(c *gin.Context) {
	item, err := s.store.AddMenuItem(c.Request.Context())
	if err != nil {
		log.Printf("handleAddItem: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add menu item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (s *Server) handleUpdateItem(c *gin.Context) {
	id := c.Param("id")

	var patch models.MenuItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if _, ok := s.store.MenuItem(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}

	if _, err := s.store.UpsertMenuItem(c.Request.Context(), id, patch); err != nil {
		if errors.Is(err, store.ErrInvalidItem) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("handleUpdateItem: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update menu item"})
		return
	}

	item, _ := s.store.MenuItem(id)
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// handleDeleteItem removes an item only when the caller confirmed it
func (s *Server) handleDeleteItem(c *gin.Context) {
	id := c.Param("id")

	if c.Query("confirm") != "true" {
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "Remove this item from the menu? Repeat with confirm=true."})
		return
	}
	if _, ok := s.store.MenuItem(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}

	items, err := s.store.RemoveMenuItem(c.Request.Context(), id)
	if err != nil {
		log.Printf("handleDeleteItem: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove menu item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Assist handlers

func (s *Server) handleInspiration(c *gin.Context) {
	var req inspirationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Mood == "" {
		req.Mood = models.MoodLatte
	}
	if !req.Mood.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mood"})
		return
	}

	s.withGuard(c, assist.ControlInspiration, func(ctx context.Context) string {
		return s.assistant.BrewInspiration(ctx, req.Mood, req.Recipient)
	})
}

func (s *Server) handleRefine(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxDraftSize)

	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "draft is empty"})
		return
	}

	s.withGuard(c, assist.ControlRefine, func(ctx context.Context) string {
		return s.assistant.RefineLetter(ctx, req.Content)
	})
}

// withGuard runs fn unless the same control is already busy for this session.
// The call outlives a disconnected client; its result is then just dropped.
func (s *Server) withGuard(c *gin.Context, control assist.Control, fn func(ctx context.Context) string) {
	sess := sessionFrom(c)
	release, ok := s.guard.Acquire(sess.Token, control)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "still brewing the last request"})
		return
	}
	defer release()

	suggestion := fn(context.WithoutCancel(c.Request.Context()))
	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}

// Share handler

func (s *Server) handleShareQR(c *gin.Context) {
	png, err := qrcode.PNG(s.opts.PublicURL)
	if err != nil {
		log.Printf("handleShareQR: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not draw QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
