// Package view tracks which screen a session is on and what it may switch to.
//
// A creator moves freely between the wall, the write view, the menu manager
// and the menu. A recipient is pinned to the menu. From the menu, opening an
// interactive item enters a reading sub-state that Back leaves again.
package view

import (
	"errors"

	"github.com/oatsaysai/letters-to-kopi/internal/models"
)

var (
	ErrForbiddenView  = errors.New("view not available for this role")
	ErrUnknownView    = errors.New("unknown view")
	ErrNotOnMenu      = errors.New("letters can only be opened from the menu")
	ErrNotInteractive = errors.New("menu item is not available")
)

// Controller is the view state of one session. It is not safe for concurrent
// use; the owning session serializes access.
type Controller struct {
	role    models.Role
	current models.View
	reading string
}

// New returns a controller positioned on the role's initial view
func New(role models.Role) *Controller {
	return &Controller{role: role, current: InitialView(role)}
}

// InitialView is where a role lands right after logging in
func InitialView(role models.Role) models.View {
	if role == models.RoleRecipient {
		return models.ViewMenu
	}
	return models.ViewWall
}

// Allowed reports whether role may ever show v
func Allowed(role models.Role, v models.View) bool {
	switch role {
	case models.RoleCreator:
		return v.Valid()
	case models.RoleRecipient:
		return v == models.ViewMenu
	}
	return false
}

// Switch moves to v and leaves any open letter. A recipient stays on the
// menu whatever is asked for; ErrForbiddenView reports the refused target.
func (c *Controller) Switch(v models.View) error {
	if !v.Valid() {
		return ErrUnknownView
	}
	c.reading = ""
	if !Allowed(c.role, v) {
		c.current = InitialView(c.role)
		return ErrForbiddenView
	}
	c.current = v
	return nil
}

// Open enters the reading sub-state for a menu item and its resolved letter.
// letter is nil when the item is unlinked or its link is dangling.
func (c *Controller) Open(item models.MenuItemConfig, letter *models.Letter) error {
	if c.current != models.ViewMenu {
		return ErrNotOnMenu
	}
	if !Interactive(item, letter) {
		return ErrNotInteractive
	}
	c.reading = letter.ID
	return nil
}

// Back closes the open letter and returns to the menu
func (c *Controller) Back() {
	if c.reading != "" {
		c.reading = ""
		c.current = models.ViewMenu
	}
}

// Current returns the active view
func (c *Controller) Current() models.View {
	return c.current
}

// Reading returns the id of the open letter, or "" when none is open
func (c *Controller) Reading() string {
	return c.reading
}

// State is a snapshot for API responses
func (c *Controller) State() models.ViewState {
	return models.ViewState{Role: c.role, View: c.current, Reading: c.reading}
}

// Interactive reports whether a recipient can open item: it must be
// available and its letter must exist.
func Interactive(item models.MenuItemConfig, letter *models.Letter) bool {
	return item.IsAvailable && item.Linked() && letter != nil && letter.ID == item.LetterID
}

// BuildMenu groups items by category in display order. lookup resolves a
// letter id to a letter, returning false when there is none.
func BuildMenu(items []models.MenuItemConfig, lookup func(id string) (models.Letter, bool)) models.MenuPage {
	page := models.MenuPage{Sections: []models.MenuSection{}}
	for _, cat := range models.Categories {
		section := models.MenuSection{Category: cat, Items: []models.MenuEntry{}}
		for _, item := range items {
			if item.Category != cat {
				continue
			}
			var letter *models.Letter
			if l, ok := lookup(item.LetterID); ok {
				letter = &l
			}
			interactive := Interactive(item, letter)
			if !interactive {
				page.Brewing = true
			}
			section.Items = append(section.Items, models.MenuEntry{
				ID:          item.ID,
				Title:       item.Title,
				Description: item.Description,
				Price:       item.Price,
				Interactive: interactive,
			})
		}
		if len(section.Items) == 0 {
			continue
		}
		page.Sections = append(page.Sections, section)
	}
	return page
}
