package generation

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/planfit/iris/internal/services/ai"
	"github.com/planfit/iris/internal/utils"
)

var fallbackQuotes = []string{
	"Your body can do it. It's your mind you need to convince!",
	"The only bad workout is the one that didn't happen.",
	"Success is the sum of small efforts repeated day in and day out.",
	"Take care of your body. It's the only place you have to live.",
}

// Motivator produces short motivational quotes. It never fails: when the
// text generator is unavailable or errors, a fixed quote is returned.
type Motivator struct {
	gen TextGenerator
}

// NewMotivator creates a motivator backed by the given text generator.
// A nil generator always serves fallback quotes.
func NewMotivator(gen TextGenerator) *Motivator {
	return &Motivator{gen: gen}
}

// Quote returns one motivational quote.
func (m *Motivator) Quote(ctx context.Context) string {
	if m.gen == nil {
		return fallbackQuotes[rand.Intn(len(fallbackQuotes))]
	}

	// One quick retry on transient failures before giving up on the
	// generator; the fallback quote absorbs everything else.
	quote, err := utils.WithRetry(ctx, func(ctx context.Context) (string, error) {
		return m.gen.GenerateText(ctx, ai.BuildMotivationPrompt())
	}, utils.QuickRetryConfig())
	if err != nil {
		slog.Warn("Motivation quote generation failed, serving fallback", "error", err)
		return fallbackQuotes[rand.Intn(len(fallbackQuotes))]
	}

	quote = strings.TrimSpace(quote)
	if quote == "" {
		return fallbackQuotes[rand.Intn(len(fallbackQuotes))]
	}
	return quote
}
