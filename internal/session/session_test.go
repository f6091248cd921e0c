package session

import (
	"errors"
	"testing"
	"time"

	"github.com/oatsaysai/letters-to-kopi/internal/models"
	"github.com/oatsaysai/letters-to-kopi/internal/view"
)

func TestAuthenticate(t *testing.T) {
	gate := NewGate("blahck09", "250216")

	tests := []struct {
		name     string
		secret   string
		wantRole models.Role
		wantErr  error
	}{
		{name: "creator passcode", secret: "blahck09", wantRole: models.RoleCreator},
		{name: "recipient passcode", secret: "250216", wantRole: models.RoleRecipient},
		{name: "empty", secret: "", wantErr: ErrInvalidSecret},
		{name: "prefix of creator", secret: "blahck0", wantErr: ErrInvalidSecret},
		{name: "case differs", secret: "BLAHCK09", wantErr: ErrInvalidSecret},
		{name: "trailing space", secret: "250216 ", wantErr: ErrInvalidSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := gate.Authenticate(tt.secret)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if role != tt.wantRole {
				t.Errorf("role = %q, want %q", role, tt.wantRole)
			}
		})
	}
}

func TestManager_StartGetLogout(t *testing.T) {
	m := NewManager(time.Hour)

	s := m.Start(models.RoleRecipient)
	if s.Token == "" {
		t.Fatal("empty token")
	}
	if got := s.State(); got.Role != models.RoleRecipient || got.View != models.ViewMenu {
		t.Errorf("initial state = %+v", got)
	}

	got, ok := m.Get(s.Token)
	if !ok || got != s {
		t.Fatal("Get did not return the started session")
	}

	m.Logout(s.Token)
	if _, ok := m.Get(s.Token); ok {
		t.Error("session still live after logout")
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d after logout", m.Len())
	}
}

func TestManager_UnknownToken(t *testing.T) {
	m := NewManager(time.Hour)
	m.Start(models.RoleCreator)

	for _, token := range []string{"", "not-a-token"} {
		if _, ok := m.Get(token); ok {
			t.Errorf("Get(%q) found a session", token)
		}
	}
}

func TestManager_IdleExpiry(t *testing.T) {
	now := time.Date(2025, time.February, 16, 8, 0, 0, 0, time.UTC)
	m := NewManager(30 * time.Minute)
	m.now = func() time.Time { return now }

	s := m.Start(models.RoleCreator)

	now = now.Add(20 * time.Minute)
	if _, ok := m.Get(s.Token); !ok {
		t.Fatal("session expired before the idle timeout")
	}

	// Get refreshed lastSeen, so another 20 minutes is still fine
	now = now.Add(20 * time.Minute)
	if _, ok := m.Get(s.Token); !ok {
		t.Fatal("activity did not extend the session")
	}

	now = now.Add(31 * time.Minute)
	if _, ok := m.Get(s.Token); ok {
		t.Error("idle session should have expired")
	}
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := NewManager(0)
	creator := m.Start(models.RoleCreator)
	recipient := m.Start(models.RoleRecipient)

	if creator.Token == recipient.Token {
		t.Fatal("tokens collided")
	}
	err := creator.View(func(c *view.Controller) error {
		return c.Switch(models.ViewMenuManager)
	})
	if err != nil {
		t.Fatal(err)
	}
	if recipient.State().View != models.ViewMenu {
		t.Error("one session's navigation leaked into another")
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}
