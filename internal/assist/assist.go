package assist

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/oatsaysai/letters-to-kopi/internal/models"
	"github.com/oatsaysai/letters-to-kopi/internal/utils"
)

// Placeholders returned in place of a suggestion when the service fails
const (
	InspirationPlaceholder = "The coffee is still brewing... (Failed to get AI response)"
	RefinePlaceholder      = "I'm having trouble tasting the notes in this draft. Try again?"
)

const defaultRecipient = "Someone Special"

// Generator is the external text generation service
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Assistant builds writing prompts and always answers with a string.
// Suggestions are advisory: nothing here touches a draft or storage.
type Assistant struct {
	gen     Generator
	timeout time.Duration
}

// New creates an assistant; each call is bounded by timeout
func New(gen Generator, timeout time.Duration) *Assistant {
	return &Assistant{gen: gen, timeout: timeout}
}

// BrewInspiration suggests opening lines for a letter to recipient in the given mood
func (a *Assistant) BrewInspiration(ctx context.Context, mood models.Mood, recipient string) string {
	if recipient == "" {
		recipient = defaultRecipient
	}
	return a.ask(ctx, "BrewInspiration", inspirationPrompt(mood, recipient), InspirationPlaceholder)
}

// RefineLetter suggests a few tweaks to draft without rewriting it
func (a *Assistant) RefineLetter(ctx context.Context, draft string) string {
	return a.ask(ctx, "RefineLetter", refinePrompt(draft), RefinePlaceholder)
}

func (a *Assistant) ask(ctx context.Context, op, prompt, placeholder string) string {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("%s: generation failed, returning placeholder: %v", op, err)
		return placeholder
	}
	log.Printf("%s: suggestion ready (%s)", op, utils.Truncate(text, 40))
	return text
}

func inspirationPrompt(mood models.Mood, recipient string) string {
	return fmt.Sprintf(`Act as a gentle, wise barista at a quiet cafe called "Letters to Kopi".
The user wants to write a letter to "%s" and is feeling in a "%s" mood.
Suggest 3 short, poetic opening lines or themes they could use to start their letter.
Keep the tone cozy, warm, and slightly nostalgic. Use coffee metaphors occasionally.`, recipient, mood)
}

func refinePrompt(draft string) string {
	return fmt.Sprintf(`Act as a literary barista. Here is a draft of a letter:
"%s"

Suggest a few ways to make this more heartfelt or descriptive. Don't rewrite the whole thing, just provide 2-3 specific "tweak" suggestions or "flavor notes" to enhance the emotional resonance. Keep it brief.`, draft)
}
