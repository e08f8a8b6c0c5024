package poetry

import (
	"bufio"
	"io"
	"strings"
)

// defaultPunctuation is the set of characters split off as standalone
// single-character tokens.
const defaultPunctuation = ".,!?"

// Tokenizer is an interface that defines the contract for splitting raw
// corpus text into tokens, keeping chain construction independent of the
// specific tokenization strategy.
type Tokenizer interface {
	// NewStream returns a stateful TokenStream for processing an io.Reader.
	NewStream(r io.Reader) TokenStream
}

// TokenStream is an interface for a stateful tokenizer that yields one
// token at a time, returning io.EOF when the input is fully consumed.
type TokenStream interface {
	Next() (string, error)
}

// LineTokenizer is the default Tokenizer. It reads input line by line,
// splits each line on single spaces, lower-cases every piece and splits
// punctuation characters off as their own tokens after the stripped word,
// in the order they appear within the piece. Line boundaries themselves
// never produce a token.
type LineTokenizer struct {
	punctuation string
}

// TokenizerOption configures a LineTokenizer.
type TokenizerOption func(*LineTokenizer)

// WithPunctuation overrides the character set split off as standalone
// tokens. Default: ".,!?"
func WithPunctuation(chars string) TokenizerOption {
	return func(t *LineTokenizer) {
		t.punctuation = chars
	}
}

// NewLineTokenizer creates a tokenizer with default settings, which can
// be overridden by providing one or more TokenizerOption functions.
func NewLineTokenizer(opts ...TokenizerOption) *LineTokenizer {
	t := &LineTokenizer{punctuation: defaultPunctuation}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewStream returns the stream processor.
func (t *LineTokenizer) NewStream(r io.Reader) TokenStream {
	return &lineTokenStream{
		scanner:     bufio.NewScanner(r),
		punctuation: t.punctuation,
	}
}

type lineTokenStream struct {
	scanner     *bufio.Scanner
	punctuation string
	buffer      []string
}

// Next returns the next token from the stream. When the stream is
// exhausted it returns an empty string and io.EOF; any other error
// indicates a problem reading the underlying stream.
func (s *lineTokenStream) Next() (string, error) {
	for len(s.buffer) == 0 { // Loop until we have tokens
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		s.buffer = s.splitLine(s.scanner.Text())
	}
	tok := s.buffer[0]
	s.buffer = s.buffer[1:]
	return tok, nil
}

// splitLine tokenizes one corpus line.
func (s *lineTokenStream) splitLine(line string) []string {
	var tokens []string
	for _, piece := range strings.Split(line, " ") {
		if piece == "" {
			continue
		}
		piece = strings.ToLower(piece)
		if !strings.ContainsAny(piece, s.punctuation) {
			tokens = append(tokens, piece)
			continue
		}
		var word strings.Builder
		var puncts []string
		for _, r := range piece {
			if strings.ContainsRune(s.punctuation, r) {
				puncts = append(puncts, string(r))
			} else {
				word.WriteRune(r)
			}
		}
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
		}
		tokens = append(tokens, puncts...)
	}
	return tokens
}
