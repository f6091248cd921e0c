package models

// Role identifies who is looking at the app. The zero value means no one is logged in.
type Role string

const (
	RoleNone      Role = ""
	RoleCreator   Role = "creator"
	RoleRecipient Role = "recipient"
)

// Valid reports whether r is one of the two known roles
func (r Role) Valid() bool {
	return r == RoleCreator || r == RoleRecipient
}

// View is one of the named screens of the app
type View string

const (
	ViewWall        View = "wall"
	ViewWrite       View = "write"
	ViewMenuManager View = "menu-manager"
	ViewMenu        View = "menu"
)

// Valid reports whether v is a known view
func (v View) Valid() bool {
	switch v {
	case ViewWall, ViewWrite, ViewMenuManager, ViewMenu:
		return true
	}
	return false
}

// Mood is the coffee-flavoured tone attached to a letter.
// The stored value is the full display label.
type Mood string

const (
	MoodEspresso   Mood = "Espresso (Bold & Direct)"
	MoodLatte      Mood = "Latte (Soft & Creamy)"
	MoodCappuccino Mood = "Cappuccino (Frothy & Light)"
	MoodAmericano  Mood = "Americano (Clean & Honest)"
	MoodMocha      Mood = "Mocha (Sweet & Bittersweet)"
)

// Moods lists every mood in display order
var Moods = []Mood{MoodEspresso, MoodLatte, MoodCappuccino, MoodAmericano, MoodMocha}

// Valid reports whether m is one of Moods
func (m Mood) Valid() bool {
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}

// PaperStyle is a presentational tag on a letter
type PaperStyle string

const (
	PaperNapkin    PaperStyle = "napkin"
	PaperStandard  PaperStyle = "standard"
	PaperParchment PaperStyle = "parchment"
)

// Valid reports whether p is a known paper style
func (p PaperStyle) Valid() bool {
	return p == PaperNapkin || p == PaperStandard || p == PaperParchment
}

// Category groups menu items for display
type Category string

const (
	CategorySignature      Category = "The Signature"
	CategoryDailyBrews     Category = "Daily Brews"
	CategorySweetAdditions Category = "Sweet Additions"
)

// Categories lists every category in the order the menu renders them
var Categories = []Category{CategorySignature, CategoryDailyBrews, CategorySweetAdditions}

// Valid reports whether c is one of Categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Letter is a single letter on the wall. Letters are never edited or deleted.
type Letter struct {
	ID        string     `json:"id" yaml:"id"`
	Recipient string     `json:"recipient" yaml:"recipient"`
	Content   string     `json:"content" yaml:"content"`
	Date      string     `json:"date" yaml:"date"` // display only, never parsed back
	Mood      Mood       `json:"mood" yaml:"mood"`
	PaperType PaperStyle `json:"paperType" yaml:"paperType"`
	IsSpecial bool       `json:"isSpecial,omitempty" yaml:"isSpecial"`
}

// MenuItemConfig is an entry on the recipient's menu, optionally linked to a letter
type MenuItemConfig struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Price       string   `json:"price" yaml:"price"`
	LetterID    string   `json:"letterId,omitempty" yaml:"letterId"` // empty means unlinked
	IsAvailable bool     `json:"isAvailable" yaml:"isAvailable"`
	Category    Category `json:"category" yaml:"category"`
}

// Linked reports whether the item points at a letter id at all
func (m MenuItemConfig) Linked() bool {
	return m.LetterID != ""
}

// MenuItemPatch carries a partial update for a menu item. Nil fields are left untouched.
type MenuItemPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *string   `json:"price,omitempty"`
	LetterID    *string   `json:"letterId,omitempty"` // "" unlinks
	IsAvailable *bool     `json:"isAvailable,omitempty"`
	Category    *Category `json:"category,omitempty"`
}

// Apply returns item with the non-nil fields of p merged in
func (p MenuItemPatch) Apply(item MenuItemConfig) MenuItemConfig {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.LetterID != nil {
		item.LetterID = *p.LetterID
	}
	if p.IsAvailable != nil {
		item.IsAvailable = *p.IsAvailable
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	return item
}

// LetterDraft is what the write view submits
type LetterDraft struct {
	Recipient string     `json:"recipient"`
	Content   string     `json:"content"`
	Mood      Mood       `json:"mood"`
	PaperType PaperStyle `json:"paperType"`
}
