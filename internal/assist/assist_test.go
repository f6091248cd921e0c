package assist

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oatsaysai/letters-to-kopi/internal/models"
)

// MockGenerator implements Generator for testing
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	prompts      []string
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", errors.New("no generator configured")
}

func TestBrewInspiration(t *testing.T) {
	gen := &MockGenerator{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return "Dear Kopi, the morning smelled like you.", nil
	}}
	a := New(gen, time.Second)

	got := a.BrewInspiration(context.Background(), models.MoodMocha, "Kopi")
	if got != "Dear Kopi, the morning smelled like you." {
		t.Errorf("suggestion = %q", got)
	}

	prompt := gen.prompts[0]
	if !strings.Contains(prompt, `"Kopi"`) || !strings.Contains(prompt, string(models.MoodMocha)) {
		t.Errorf("prompt missing recipient or mood: %s", prompt)
	}
}

func TestBrewInspiration_DefaultRecipient(t *testing.T) {
	gen := &MockGenerator{GenerateFunc: func(ctx context.Context, prompt string) (string, error) { return "ok", nil }}
	New(gen, time.Second).BrewInspiration(context.Background(), models.MoodLatte, "")

	if !strings.Contains(gen.prompts[0], `"Someone Special"`) {
		t.Errorf("empty recipient should become Someone Special: %s", gen.prompts[0])
	}
}

func TestRefineLetter(t *testing.T) {
	gen := &MockGenerator{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return "Add the smell of the rain.", nil
	}}

	got := New(gen, time.Second).RefineLetter(context.Background(), "i miss you\nso matcha")
	if got != "Add the smell of the rain." {
		t.Errorf("suggestion = %q", got)
	}
	if !strings.Contains(gen.prompts[0], "i miss you\nso matcha") {
		t.Errorf("draft not embedded verbatim: %s", gen.prompts[0])
	}
}

func TestFailuresReturnPlaceholders(t *testing.T) {
	failures := []struct {
		name string
		err  error
	}{
		{name: "network", err: errors.New("dial tcp: connection refused")},
		{name: "auth", err: errors.New("status 401")},
		{name: "deadline", err: context.DeadlineExceeded},
	}

	for _, f := range failures {
		t.Run(f.name, func(t *testing.T) {
			gen := &MockGenerator{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", f.err
			}}
			a := New(gen, time.Second)

			if got := a.BrewInspiration(context.Background(), models.MoodLatte, "Kopi"); got != InspirationPlaceholder {
				t.Errorf("BrewInspiration = %q, want placeholder", got)
			}
			if got := a.RefineLetter(context.Background(), "draft"); got != RefinePlaceholder {
				t.Errorf("RefineLetter = %q, want placeholder", got)
			}
		})
	}
}

func TestTimeoutIsAFailure(t *testing.T) {
	gen := &MockGenerator{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	a := New(gen, 20*time.Millisecond)

	start := time.Now()
	got := a.RefineLetter(context.Background(), "draft")
	if got != RefinePlaceholder {
		t.Errorf("got %q, want placeholder", got)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout not applied, took %v", elapsed)
	}
}

func TestGuard(t *testing.T) {
	g := NewGuard()

	release, ok := g.Acquire("session-a", ControlInspiration)
	if !ok {
		t.Fatal("first acquire should succeed")
	}
	if _, ok := g.Acquire("session-a", ControlInspiration); ok {
		t.Error("second acquire of the same control should be refused")
	}
	if r, ok := g.Acquire("session-a", ControlRefine); !ok {
		t.Error("a different control should be independent")
	} else {
		r()
	}
	if r, ok := g.Acquire("session-b", ControlInspiration); !ok {
		t.Error("a different session should be independent")
	} else {
		r()
	}

	release()
	release() // idempotent
	if g.Busy("session-a", ControlInspiration) {
		t.Error("control still busy after release")
	}
	if r, ok := g.Acquire("session-a", ControlInspiration); !ok {
		t.Error("acquire after release should succeed")
	} else {
		r()
	}
}
