package store

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oatsaysai/letters-to-kopi/internal/models"
)

//go:embed seed.yaml
var seedYAML []byte

type seedData struct {
	Letters []models.Letter         `yaml:"letters"`
	Menu    []models.MenuItemConfig `yaml:"menu"`
}

var (
	seedOnce   sync.Once
	seedParsed seedData
	seedErr    error
)

func loadSeed() seedData {
	seedOnce.Do(func() {
		if err := yaml.Unmarshal(seedYAML, &seedParsed); err != nil {
			seedErr = fmt.Errorf("parse embedded seed: %w", err)
		}
	})
	if seedErr != nil {
		panic(seedErr)
	}
	return seedParsed
}

// DefaultLetters returns the collection written when no letters are stored
func DefaultLetters() []models.Letter {
	return append([]models.Letter(nil), loadSeed().Letters...)
}

// DefaultMenu returns the collection written when no menu is stored
func DefaultMenu() []models.MenuItemConfig {
	return append([]models.MenuItemConfig(nil), loadSeed().Menu...)
}
