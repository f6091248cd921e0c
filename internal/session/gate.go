package session

import (
	"crypto/subtle"
	"errors"

	"github.com/oatsaysai/letters-to-kopi/internal/models"
)

// ErrInvalidSecret is the only failure Authenticate reports. It carries no
// hint about which passcode was tried or how close it was.
var ErrInvalidSecret = errors.New("invalid passcode")

// Gate maps the two shared passcodes to roles. This is a plain string
// comparison for a single-user app, not a credential system.
type Gate struct {
	creatorSecret   []byte
	recipientSecret []byte
}

// NewGate creates a gate for the given passcodes
func NewGate(creatorSecret, recipientSecret string) *Gate {
	return &Gate{
		creatorSecret:   []byte(creatorSecret),
		recipientSecret: []byte(recipientSecret),
	}
}

// Authenticate returns the role for secret. Both passcodes are always
// compared so every attempt does the same work.
func (g *Gate) Authenticate(secret string) (models.Role, error) {
	s := []byte(secret)
	isCreator := subtle.ConstantTimeCompare(s, g.creatorSecret) == 1
	isRecipient := subtle.ConstantTimeCompare(s, g.recipientSecret) == 1

	switch {
	case isCreator:
		return models.RoleCreator, nil
	case isRecipient:
		return models.RoleRecipient, nil
	}
	return models.RoleNone, ErrInvalidSecret
}
