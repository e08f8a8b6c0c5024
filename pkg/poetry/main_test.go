package poetry

import (
	"fmt"
	"strings"
	"testing"
)

// buildTestTable tokenizes text and builds a table, failing the test on
// any error.
func buildTestTable(t *testing.T, text string) *TransitionTable {
	t.Helper()
	builder := NewChainBuilder(NewLineTokenizer())
	table, err := builder.BuildFromReader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("BuildFromReader() error = %v", err)
	}
	return table
}

// readTestTokens tokenizes text into a slice, failing the test on error.
func readTestTokens(t *testing.T, text string) []string {
	t.Helper()
	tokens, err := NewChainBuilder(NewLineTokenizer()).ReadTokens(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ReadTokens() error = %v", err)
	}
	return tokens
}

// handBuiltTable constructs a table directly from word -> follow list,
// bypassing the tokenizer, for tests that need exact transitions.
func handBuiltTable(t *testing.T, records map[string][]string) *TransitionTable {
	t.Helper()
	table := NewTransitionTable(len(records))
	for word, follows := range records {
		info := NewWordFreqInfo(word)
		for _, f := range follows {
			info.UpdateFollows(f)
		}
		if err := table.Insert(word, info); err != nil {
			t.Fatalf("Insert(%q) error = %v", word, err)
		}
	}
	return table
}

// recordingSink captures progress signals for assertions.
type recordingSink struct {
	label      string
	total      int
	increments int
	finished   bool
}

func (s *recordingSink) Begin(label string, total int) {
	s.label = label
	s.total = total
}
func (s *recordingSink) Increment() { s.increments++ }
func (s *recordingSink) Finish()    { s.finished = true }

// testWords returns n distinct keys for table stress tests.
func testWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%05d", i)
	}
	return words
}
