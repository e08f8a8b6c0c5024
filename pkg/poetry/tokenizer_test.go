package poetry

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestTokenizeSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "two sentences",
			in:   "the cat sat. the dog ran.",
			want: []string{"the", "cat", "sat", ".", "the", "dog", "ran", "."},
		},
		{
			name: "lower casing",
			in:   "The Cat SAT",
			want: []string{"the", "cat", "sat"},
		},
		{
			name: "comma and question",
			in:   "well, really?",
			want: []string{"well", ",", "really", "?"},
		},
		{
			name: "punctuation order preserved",
			in:   "wow!?",
			want: []string{"wow", "!", "?"},
		},
		{
			name: "punctuation only piece",
			in:   "hello . world",
			want: []string{"hello", ".", "world"},
		},
		{
			name: "interior punctuation splits off after word",
			in:   "a.b",
			want: []string{"ab", "."},
		},
		{
			name: "repeated spaces",
			in:   "one  two   three",
			want: []string{"one", "two", "three"},
		},
		{
			name: "multiple lines no newline token",
			in:   "first line\nsecond line",
			want: []string{"first", "line", "second", "line"},
		},
		{
			name: "apostrophes kept",
			in:   "don't stop",
			want: []string{"don't", "stop"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "blank lines",
			in:   "\n\n\n",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := readTestTokens(t, tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("tokens = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTokenStreamEOF(t *testing.T) {
	stream := NewLineTokenizer().NewStream(strings.NewReader("one"))

	tok, err := stream.Next()
	if err != nil || tok != "one" {
		t.Fatalf("Next() = %q, %v; want \"one\", nil", tok, err)
	}
	if _, err = stream.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after exhaustion: err = %v, want io.EOF", err)
	}
	// EOF must be sticky.
	if _, err = stream.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("repeated Next() after exhaustion: err = %v, want io.EOF", err)
	}
}

func TestWithPunctuation(t *testing.T) {
	tok := NewLineTokenizer(WithPunctuation(".;"))
	stream := tok.NewStream(strings.NewReader("stop; now, please."))

	var got []string
	for {
		word, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		got = append(got, word)
	}

	// Comma is not in the override set, so it stays attached.
	want := []string{"stop", ";", "now,", "please", "."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}
