package poetry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
)

// ErrUnknownWord is returned when the walk reaches a word that has no
// record in the table, including a start word absent from the
// vocabulary. The returned poem text still contains everything generated
// before the stop.
var ErrUnknownWord = errors.New("word not found in transition table")

// defaultMaxAttempts bounds the anti-repetition retry loop.
const defaultMaxAttempts = 50

// Sampler returns a uniform value in [0, n). n is always >= 1.
type Sampler func(n int) int

// generateOptions is used by Generate to configure default options.
type generateOptions struct {
	maxAttempts int
	sampler     Sampler
	progress    ProgressSink
}

// GenerateOption is a function that configures generation parameters.
type GenerateOption func(*generateOptions)

// WithMaxAttempts sets how many times an already-used candidate is
// re-sampled before being accepted anyway. Default: 50.
func WithMaxAttempts(n int) GenerateOption {
	return func(o *generateOptions) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithSampler replaces the random source used to pick follow words.
// A deterministic sampler makes generation exactly reproducible.
func WithSampler(s Sampler) GenerateOption {
	return func(o *generateOptions) {
		if s != nil {
			o.sampler = s
		}
	}
}

// WithSeed derives a deterministic sampler from seed.
func WithSeed(seed uint64) GenerateOption {
	return func(o *generateOptions) {
		rng := rand.New(rand.NewPCG(seed, seed))
		o.sampler = func(n int) int { return rng.IntN(n) }
	}
}

// WithProgress attaches a progress sink for the writing phase.
func WithProgress(sink ProgressSink) GenerateOption {
	return func(o *generateOptions) {
		if sink != nil {
			o.progress = sink
		}
	}
}

// Generator performs the stochastic random walk over a built table. The
// table is treated as read-only; a Generator is safe to reuse across
// poems.
type Generator struct {
	table  *TransitionTable
	logger *slog.Logger
}

// NewGenerator creates a Generator over table.
func NewGenerator(table *TransitionTable) *Generator {
	return &Generator{
		table:  table,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Generator. By default, all logs are
// discarded.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// isPunctuation reports whether tok is a standalone punctuation token.
func isPunctuation(tok string) bool {
	switch tok {
	case ".", ",", "!", "?":
		return true
	}
	return false
}

// exemptFromRepetition reports whether tok may be emitted any number of
// times. Punctuation repeats freely, as does the newline marker for
// hand-built token sequences that carry one (the tokenizer itself never
// emits it).
func exemptFromRepetition(tok string) bool {
	return isPunctuation(tok) || tok == "\n"
}

// Generate walks the chain for length steps starting at startWord and
// returns the poem text. Each step samples the current word's follow
// list uniformly, re-sampling up to the attempt limit while the
// candidate is a non-exempt word that was already emitted; when the
// limit is exhausted the last sampled candidate is accepted regardless.
// Reaching a word with no record stops the walk early: the partial poem
// is returned together with an error wrapping ErrUnknownWord.
func (g *Generator) Generate(startWord string, length int, opts ...GenerateOption) (string, error) {
	poem, _, err := g.GenerateCount(startWord, length, opts...)
	return poem, err
}

// GenerateCount is like Generate but also reports how many tokens were
// actually emitted, which is less than length when the walk stops early.
func (g *Generator) GenerateCount(startWord string, length int, opts ...GenerateOption) (string, int, error) {
	options := &generateOptions{
		maxAttempts: defaultMaxAttempts,
		sampler:     rand.IntN,
		progress:    nopProgress{},
	}
	for _, opt := range opts {
		opt(options)
	}

	if length <= 0 {
		return "", 0, fmt.Errorf("poem length must be positive, got %d", length)
	}

	var builder strings.Builder
	usedWords := make(map[string]struct{})
	currentWord := startWord

	options.progress.Begin("Writing", length)
	defer options.progress.Finish()

	for i := 0; i < length; i++ {
		info, ok := g.table.Find(currentWord)
		if !ok {
			g.logger.Warn("Word not found in transition table, stopping generation",
				slog.String("word", currentWord),
				slog.Int("generated_length", i),
			)
			return builder.String(), i, fmt.Errorf("%w: %q", ErrUnknownWord, currentWord)
		}
		if info.OccurCount() == 0 {
			// Cannot occur by invariant (a record exists only after its
			// first follower); guarded so the sampler argument stays
			// positive.
			g.logger.Error("Record with empty follow list, stopping generation",
				slog.String("word", currentWord),
			)
			return builder.String(), i, fmt.Errorf("%w: %q has no followers", ErrUnknownWord, currentWord)
		}

		candidate := info.FollowWordAt(options.sampler(info.OccurCount()))
		for attempts := 0; attempts < options.maxAttempts; attempts++ {
			if _, used := usedWords[candidate]; !used || exemptFromRepetition(candidate) {
				break
			}
			candidate = info.FollowWordAt(options.sampler(info.OccurCount()))
		}

		builder.WriteString(currentWord)
		if i < length-1 && !isPunctuation(candidate) {
			builder.WriteString(" ")
		}
		if !isPunctuation(currentWord) && currentWord != "\n" {
			usedWords[currentWord] = struct{}{}
		}
		currentWord = candidate
		options.progress.Increment()
	}

	return builder.String(), length, nil
}
