package models

// MenuEntry is a menu item as the recipient sees it. Letter content is never included;
// the letter is only revealed by opening an interactive entry.
type MenuEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Interactive bool   `json:"interactive"`
}

// MenuSection groups entries under one category heading
type MenuSection struct {
	Category Category    `json:"category"`
	Items    []MenuEntry `json:"items"`
}

// MenuPage is the full recipient menu
type MenuPage struct {
	Sections []MenuSection `json:"sections"`
	Brewing  bool          `json:"brewing"` // some items are not yet openable
}

// ViewState is the current position of a session in the view state machine
type ViewState struct {
	Role    Role   `json:"role"`
	View    View   `json:"view"`
	Reading string `json:"reading,omitempty"` // letter id while a linked letter is open
}
