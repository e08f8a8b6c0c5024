package poetry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrEmptyCorpus is returned when the corpus yields fewer than two
// tokens, which is not enough to form a single transition.
var ErrEmptyCorpus = errors.New("corpus has fewer than two tokens")

// ChainBuilder consumes a token sequence and populates a TransitionTable
// with one record per distinct predecessor word.
type ChainBuilder struct {
	tokenizer Tokenizer
	progress  ProgressSink
	logger    *slog.Logger
}

// BuilderOption configures a ChainBuilder.
type BuilderOption func(*ChainBuilder)

// WithBuildProgress attaches a progress sink for the hashing phase.
func WithBuildProgress(sink ProgressSink) BuilderOption {
	return func(b *ChainBuilder) {
		if sink != nil {
			b.progress = sink
		}
	}
}

// NewChainBuilder creates a ChainBuilder using the given Tokenizer.
func NewChainBuilder(tokenizer Tokenizer, opts ...BuilderOption) *ChainBuilder {
	b := &ChainBuilder{
		tokenizer: tokenizer,
		progress:  nopProgress{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetLogger sets the logger for the builder. By default, all logs are
// discarded.
func (b *ChainBuilder) SetLogger(logger *slog.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// ReadTokens drains the tokenizer over r into an ordered token slice.
func (b *ChainBuilder) ReadTokens(r io.Reader) ([]string, error) {
	stream := b.tokenizer.NewStream(r)
	var tokens []string
	for {
		tok, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Build populates a fresh table from the token sequence: for each
// adjacent pair, the predecessor's record gains the successor as a
// follower, creating the record on first sight. The table is pre-sized
// from the token count to limit resize churn during construction.
func (b *ChainBuilder) Build(tokens []string) (*TransitionTable, error) {
	if len(tokens) < 2 {
		return nil, ErrEmptyCorpus
	}

	// Rough vocabulary estimate; natural text repeats words heavily.
	table := NewTransitionTable(len(tokens) / 8)

	b.progress.Begin("Hashing", len(tokens)-1)
	for i := 0; i < len(tokens)-1; i++ {
		word, next := tokens[i], tokens[i+1]
		info, ok := table.Find(word)
		if !ok {
			info = NewWordFreqInfo(word)
			if err := table.Insert(word, info); err != nil {
				return nil, fmt.Errorf("could not insert record for %q: %w", word, err)
			}
		}
		info.UpdateFollows(next)
		b.progress.Increment()
	}
	b.progress.Finish()

	b.logger.Info("Chain built",
		slog.Int("tokens", len(tokens)),
		slog.Int("unique_words", table.Size()),
	)
	return table, nil
}

// BuildFromReader tokenizes r and builds the table in one call.
func (b *ChainBuilder) BuildFromReader(r io.Reader) (*TransitionTable, error) {
	tokens, err := b.ReadTokens(r)
	if err != nil {
		return nil, err
	}
	return b.Build(tokens)
}
