package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/oatsaysai/letters-to-kopi/internal/db"
	"github.com/oatsaysai/letters-to-kopi/internal/models"
	"github.com/oatsaysai/letters-to-kopi/internal/utils"
)

// Storage keys for the two collections
const (
	LettersKey = "kopi_letters"
	MenuKey    = "kopi_menu_config"
)

// specialRecipient marks the first letter written to this name as special
const specialRecipient = "kopi"

var (
	ErrInvalidDraft = errors.New("invalid letter draft")
	ErrInvalidItem  = errors.New("invalid menu item")
	ErrDuplicateID  = errors.New("id already exists")
)

// Store owns the letters and menu collections. Every mutation builds the new
// collection, persists it as one value, and only then swaps it into memory.
type Store struct {
	kv db.KV

	mu      sync.RWMutex
	letters []models.Letter
	menu    []models.MenuItemConfig

	now func() time.Time
}

// New creates a store over kv. Call Load before serving.
func New(kv db.KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// Load loads (or seeds) both collections
func (s *Store) Load(ctx context.Context) {
	letters := s.LoadOrSeedLetters(ctx)
	menu := s.LoadOrSeedMenu(ctx)
	log.Printf("Store loaded: %d letters, %d menu items", len(letters), len(menu))
}

// LoadOrSeedLetters reads the stored letters. An absent, unreadable or
// malformed value is replaced by the default collection, which is persisted.
func (s *Store) LoadOrSeedLetters(ctx context.Context) []models.Letter {
	s.mu.Lock()
	defer s.mu.Unlock()

	var letters []models.Letter
	if !s.read(ctx, LettersKey, &letters) || letters == nil {
		letters = DefaultLetters()
		if err := s.write(ctx, LettersKey, letters); err != nil {
			log.Printf("LoadOrSeedLetters: failed to persist seed: %v", err)
		}
	}
	s.letters = letters
	return cloneLetters(letters)
}

// LoadOrSeedMenu reads the stored menu with the same fallback as LoadOrSeedLetters
func (s *Store) LoadOrSeedMenu(ctx context.Context) []models.MenuItemConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	var menu []models.MenuItemConfig
	if !s.read(ctx, MenuKey, &menu) || menu == nil {
		menu = DefaultMenu()
		if err := s.write(ctx, MenuKey, menu); err != nil {
			log.Printf("LoadOrSeedMenu: failed to persist seed: %v", err)
		}
	}
	s.menu = menu
	return cloneMenu(menu)
}

// read decodes key into out and reports whether a usable value was found
func (s *Store) read(ctx context.Context, key string, out any) bool {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, db.ErrNotFound) {
		log.Printf("No stored value for %s, seeding defaults", key)
		return false
	}
	if err != nil {
		log.Printf("Warning: failed to read %s, seeding defaults: %v", key, err)
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("Warning: stored value for %s is malformed, seeding defaults: %v", key, err)
		return false
	}
	return true
}

func (s *Store) write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Put(ctx, key, raw)
}

// Letters returns the wall, newest first
func (s *Store) Letters() []models.Letter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneLetters(s.letters)
}

// Letter looks up a letter by id
func (s *Store) Letter(id string) (models.Letter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.letterLocked(id)
}

func (s *Store) letterLocked(id string) (models.Letter, bool) {
	if id == "" {
		return models.Letter{}, false
	}
	for _, l := range s.letters {
		if l.ID == id {
			return l, true
		}
	}
	return models.Letter{}, false
}

func (s *Store) hasLetterLocked(id string) bool {
	_, ok := s.letterLocked(id)
	return ok
}

// CreateLetter composes a letter from draft and appends it in one step, so
// the special-letter rule sees the collection the letter is added to.
func (s *Store) CreateLetter(ctx context.Context, draft models.LetterDraft) (models.Letter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	letter, err := s.composeLocked(draft)
	if err != nil {
		return models.Letter{}, err
	}
	if _, err := s.appendLocked(ctx, letter); err != nil {
		return models.Letter{}, err
	}
	log.Printf("CreateLetter: stored letter %s to %q (special=%v)", letter.ID, letter.Recipient, letter.IsSpecial)
	return letter, nil
}

// composeLocked validates draft and fills id, date and the special flag.
// The letter is special only if it is the first one and addressed to kopi.
func (s *Store) composeLocked(draft models.LetterDraft) (models.Letter, error) {
	if strings.TrimSpace(draft.Recipient) == "" {
		return models.Letter{}, fmt.Errorf("%w: recipient is required", ErrInvalidDraft)
	}
	if strings.TrimSpace(draft.Content) == "" {
		return models.Letter{}, fmt.Errorf("%w: content is required", ErrInvalidDraft)
	}
	if draft.Mood == "" {
		draft.Mood = models.MoodLatte
	}
	if !draft.Mood.Valid() {
		return models.Letter{}, fmt.Errorf("%w: unknown mood %q", ErrInvalidDraft, draft.Mood)
	}
	if draft.PaperType == "" {
		draft.PaperType = models.PaperStandard
	}
	if !draft.PaperType.Valid() {
		return models.Letter{}, fmt.Errorf("%w: unknown paper type %q", ErrInvalidDraft, draft.PaperType)
	}

	now := s.now()
	id := utils.TimestampID(now)
	for t := now; s.hasLetterLocked(id); {
		t = t.Add(time.Millisecond)
		id = utils.TimestampID(t)
	}

	return models.Letter{
		ID:        id,
		Recipient: draft.Recipient,
		Content:   draft.Content,
		Date:      utils.FormatLetterDate(now),
		Mood:      draft.Mood,
		PaperType: draft.PaperType,
		IsSpecial: utils.ContainsFold(draft.Recipient, specialRecipient) && len(s.letters) == 0,
	}, nil
}

// AppendLetter prepends letter to the wall and persists the whole collection
func (s *Store) AppendLetter(ctx context.Context, letter models.Letter) ([]models.Letter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(ctx, letter)
}

func (s *Store) appendLocked(ctx context.Context, letter models.Letter) ([]models.Letter, error) {
	if letter.ID == "" {
		return nil, fmt.Errorf("%w: letter id is required", ErrInvalidDraft)
	}
	if s.hasLetterLocked(letter.ID) {
		return nil, fmt.Errorf("letter %s: %w", letter.ID, ErrDuplicateID)
	}

	updated := make([]models.Letter, 0, len(s.letters)+1)
	updated = append(updated, letter)
	updated = append(updated, s.letters...)

	if err := s.write(ctx, LettersKey, updated); err != nil {
		return nil, fmt.Errorf("AppendLetter: %w", err)
	}
	s.letters = updated
	return cloneLetters(updated), nil
}

// Menu returns the menu configuration in stored order
func (s *Store) Menu() []models.MenuItemConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMenu(s.menu)
}

// MenuItem looks up a menu item by id
func (s *Store) MenuItem(id string) (models.MenuItemConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.menu {
		if item.ID == id {
			return item, true
		}
	}
	return models.MenuItemConfig{}, false
}

// ResolveMenuItem returns the item and its linked letter. The letter is nil
// when the item is unlinked or its letterId does not match any letter.
func (s *Store) ResolveMenuItem(id string) (models.MenuItemConfig, *models.Letter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.menu {
		if item.ID != id {
			continue
		}
		if letter, ok := s.letterLocked(item.LetterID); ok {
			return item, &letter, true
		}
		return item, nil, true
	}
	return models.MenuItemConfig{}, nil, false
}

// UpsertMenuItem merges patch into the item with the given id and persists
// the menu. An unknown id leaves the collection unchanged.
func (s *Store) UpsertMenuItem(ctx context.Context, id string, patch models.MenuItemPatch) ([]models.MenuItemConfig, error) {
	if patch.Category != nil && !patch.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidItem, *patch.Category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]models.MenuItemConfig, len(s.menu))
	for i, item := range s.menu {
		if item.ID == id {
			item = patch.Apply(item)
		}
		updated[i] = item
	}
	return s.saveMenuLocked(ctx, updated)
}

// NewMenuItem returns the default item added from the menu manager
func (s *Store) NewMenuItem() models.MenuItemConfig {
	return models.MenuItemConfig{
		ID:          utils.TimestampID(s.now()),
		Title:       "New Brew",
		Description: "A fresh addition to our menu.",
		Price:       "0.00",
		IsAvailable: false,
		Category:    models.CategoryDailyBrews,
	}
}

// AddMenuItem inserts a fresh default item, picking an id not already in use
func (s *Store) AddMenuItem(ctx context.Context) (models.MenuItemConfig, error) {
	item := s.NewMenuItem()

	s.mu.Lock()
	defer s.mu.Unlock()

	for t := s.now(); s.menuIndexLocked(item.ID) >= 0; {
		t = t.Add(time.Millisecond)
		item.ID = utils.TimestampID(t)
	}
	if _, err := s.insertLocked(ctx, item); err != nil {
		return models.MenuItemConfig{}, err
	}
	return item, nil
}

// InsertMenuItem appends item to the menu and persists it
func (s *Store) InsertMenuItem(ctx context.Context, item models.MenuItemConfig) ([]models.MenuItemConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(ctx, item)
}

func (s *Store) insertLocked(ctx context.Context, item models.MenuItemConfig) ([]models.MenuItemConfig, error) {
	if item.ID == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	if !item.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidItem, item.Category)
	}
	if s.menuIndexLocked(item.ID) >= 0 {
		return nil, fmt.Errorf("menu item %s: %w", item.ID, ErrDuplicateID)
	}

	updated := make([]models.MenuItemConfig, 0, len(s.menu)+1)
	updated = append(updated, s.menu...)
	updated = append(updated, item)
	return s.saveMenuLocked(ctx, updated)
}

// RemoveMenuItem deletes the item with the given id and persists the menu.
// Callers must have confirmed the removal with the user.
func (s *Store) RemoveMenuItem(ctx context.Context, id string) ([]models.MenuItemConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]models.MenuItemConfig, 0, len(s.menu))
	for _, item := range s.menu {
		if item.ID != id {
			updated = append(updated, item)
		}
	}
	return s.saveMenuLocked(ctx, updated)
}

func (s *Store) menuIndexLocked(id string) int {
	for i, item := range s.menu {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) saveMenuLocked(ctx context.Context, updated []models.MenuItemConfig) ([]models.MenuItemConfig, error) {
	if err := s.write(ctx, MenuKey, updated); err != nil {
		return nil, fmt.Errorf("save menu: %w", err)
	}
	s.menu = updated
	return cloneMenu(updated), nil
}

// Reset removes both stored collections; the next load seeds them again
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{LettersKey, MenuKey} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	s.letters = nil
	s.menu = nil
	log.Println("Store reset: stored letters and menu removed")
	return nil
}

func cloneLetters(in []models.Letter) []models.Letter {
	return append([]models.Letter{}, in...)
}

func cloneMenu(in []models.MenuItemConfig) []models.MenuItemConfig {
	return append([]models.MenuItemConfig{}, in...)
}
