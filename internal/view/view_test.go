package view

import (
	"errors"
	"testing"

	"github.com/oatsaysai/letters-to-kopi/internal/models"
)

var letterOne = models.Letter{ID: "1", Recipient: "Kopi", Content: "hi"}

func linkedItem(available bool) models.MenuItemConfig {
	return models.MenuItemConfig{
		ID:          "anniversary",
		Title:       "Anniversary Special",
		LetterID:    "1",
		IsAvailable: available,
		Category:    models.CategorySignature,
	}
}

func TestNew_InitialView(t *testing.T) {
	tests := []struct {
		role models.Role
		want models.View
	}{
		{models.RoleCreator, models.ViewWall},
		{models.RoleRecipient, models.ViewMenu},
	}
	for _, tt := range tests {
		if got := New(tt.role).Current(); got != tt.want {
			t.Errorf("New(%s).Current() = %s, want %s", tt.role, got, tt.want)
		}
	}
}

func TestSwitch_Creator(t *testing.T) {
	c := New(models.RoleCreator)
	for _, v := range []models.View{models.ViewWrite, models.ViewMenuManager, models.ViewMenu, models.ViewWall} {
		if err := c.Switch(v); err != nil {
			t.Fatalf("Switch(%s): %v", v, err)
		}
		if c.Current() != v {
			t.Errorf("Current = %s, want %s", c.Current(), v)
		}
	}
}

func TestSwitch_RecipientIsPinnedToMenu(t *testing.T) {
	c := New(models.RoleRecipient)
	for _, v := range []models.View{models.ViewWall, models.ViewWrite, models.ViewMenuManager} {
		if err := c.Switch(v); !errors.Is(err, ErrForbiddenView) {
			t.Errorf("Switch(%s) err = %v, want ErrForbiddenView", v, err)
		}
		if c.Current() != models.ViewMenu {
			t.Errorf("recipient left the menu for %s", c.Current())
		}
	}
	if err := c.Switch(models.ViewMenu); err != nil {
		t.Errorf("Switch(menu): %v", err)
	}
}

func TestSwitch_UnknownView(t *testing.T) {
	c := New(models.RoleCreator)
	if err := c.Switch("kitchen"); !errors.Is(err, ErrUnknownView) {
		t.Errorf("err = %v, want ErrUnknownView", err)
	}
	if c.Current() != models.ViewWall {
		t.Errorf("unknown view moved the controller to %s", c.Current())
	}
}

func TestOpenAndBack(t *testing.T) {
	c := New(models.RoleRecipient)

	if err := c.Open(linkedItem(true), &letterOne); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if c.Reading() != "1" {
		t.Errorf("Reading = %q, want 1", c.Reading())
	}

	c.Back()
	if c.Reading() != "" || c.Current() != models.ViewMenu {
		t.Errorf("after Back: %+v", c.State())
	}
}

func TestOpen_Refusals(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		view    models.View
		item    models.MenuItemConfig
		letter  *models.Letter
		wantErr error
	}{
		{
			name:    "Given an unavailable item When opening Then it is not interactive",
			role:    models.RoleRecipient,
			item:    linkedItem(false),
			letter:  &letterOne,
			wantErr: ErrNotInteractive,
		},
		{
			name:    "Given a dangling link When opening Then it is not interactive",
			role:    models.RoleRecipient,
			item:    linkedItem(true),
			letter:  nil,
			wantErr: ErrNotInteractive,
		},
		{
			name:    "Given an unlinked item When opening Then it is not interactive",
			role:    models.RoleRecipient,
			item:    models.MenuItemConfig{ID: "so-matcha", IsAvailable: true, Category: models.CategoryDailyBrews},
			wantErr: ErrNotInteractive,
		},
		{
			name:    "Given a creator on the wall When opening Then the menu is required",
			role:    models.RoleCreator,
			item:    linkedItem(true),
			letter:  &letterOne,
			wantErr: ErrNotOnMenu,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.role)
			if err := c.Open(tt.item, tt.letter); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if c.Reading() != "" {
				t.Error("refused Open entered the reading state")
			}
		})
	}
}

func TestSwitch_LeavesReading(t *testing.T) {
	c := New(models.RoleCreator)
	if err := c.Switch(models.ViewMenu); err != nil {
		t.Fatal(err)
	}
	if err := c.Open(linkedItem(true), &letterOne); err != nil {
		t.Fatal(err)
	}
	if err := c.Switch(models.ViewWrite); err != nil {
		t.Fatal(err)
	}
	if c.Reading() != "" {
		t.Error("switching views should close the open letter")
	}
}

func TestBuildMenu(t *testing.T) {
	items := []models.MenuItemConfig{
		linkedItem(true),
		{ID: "vanilla-heart", Title: "Vanilla Heart Latte", LetterID: "1", IsAvailable: false, Category: models.CategorySweetAdditions},
		{ID: "midnight-espresso", Title: "Midnight Espresso", Category: models.CategoryDailyBrews},
		{ID: "dangling", Title: "Ghost", LetterID: "404", IsAvailable: true, Category: models.CategoryDailyBrews},
	}
	lookup := func(id string) (models.Letter, bool) {
		if id == letterOne.ID {
			return letterOne, true
		}
		return models.Letter{}, false
	}

	page := BuildMenu(items, lookup)

	if len(page.Sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(page.Sections))
	}
	for i, cat := range models.Categories {
		if page.Sections[i].Category != cat {
			t.Errorf("section %d = %s, want %s", i, page.Sections[i].Category, cat)
		}
	}
	if !page.Brewing {
		t.Error("Brewing should be set when some items are not interactive")
	}

	interactive := map[string]bool{}
	for _, s := range page.Sections {
		for _, e := range s.Items {
			interactive[e.ID] = e.Interactive
		}
	}
	want := map[string]bool{"anniversary": true, "vanilla-heart": false, "midnight-espresso": false, "dangling": false}
	for id, w := range want {
		if interactive[id] != w {
			t.Errorf("%s interactive = %v, want %v", id, interactive[id], w)
		}
	}
}

func TestBuildMenu_SkipsEmptyCategories(t *testing.T) {
	items := []models.MenuItemConfig{
		{ID: "midnight-espresso", Title: "Midnight Espresso", Category: models.CategoryDailyBrews},
		{ID: "so-matcha", Title: "So Matcha", Category: models.CategoryDailyBrews},
	}
	none := func(string) (models.Letter, bool) { return models.Letter{}, false }

	page := BuildMenu(items, none)

	if len(page.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(page.Sections))
	}
	if got := page.Sections[0]; got.Category != models.CategoryDailyBrews || len(got.Items) != 2 {
		t.Errorf("section = %+v", got)
	}

	if empty := BuildMenu(nil, none); len(empty.Sections) != 0 || empty.Brewing {
		t.Errorf("empty menu = %+v", empty)
	}
}
