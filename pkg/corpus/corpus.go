/*
Package corpus prepares raw poem collections for chain building. It
combines every .txt and .json source in a directory into a single cleaned
corpus file: JSON poems contribute only the text of their body lines,
text is filtered down to letters, spaces and the four punctuation
characters the tokenizer splits on, and whitespace runs are collapsed.
*/
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"

	"github.com/devilishclover/PoetryGenerator/pkg/poetry"
)

// poemDocument mirrors the JSON layout of the poem collections. Only the
// text of each body line is used; linguistic annotations are ignored.
type poemDocument struct {
	Body []struct {
		Text string `json:"text"`
	} `json:"body"`
}

// Cleaner combines and cleans corpus source files.
type Cleaner struct {
	progress poetry.ProgressSink
	logger   *slog.Logger
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithProgress attaches a progress sink for the cleaning phase.
func WithProgress(sink poetry.ProgressSink) Option {
	return func(c *Cleaner) {
		if sink != nil {
			c.progress = sink
		}
	}
}

// NewCleaner creates a Cleaner with default settings.
func NewCleaner(opts ...Option) *Cleaner {
	c := &Cleaner{
		progress: nopSink{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger sets the logger for the Cleaner. By default, all logs are
// discarded.
func (c *Cleaner) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Combine walks srcDir for .txt and .json files (in name order), cleans
// each one and appends it to a single corpus file at outPath. A source
// that cannot be read or parsed is skipped with a warning. It returns
// the number of files processed and the total bytes written.
func (c *Cleaner) Combine(srcDir, outPath string) (int, int64, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return 0, 0, fmt.Errorf("could not read source directory %s: %w", srcDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".json":
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	out, err := os.Create(outPath)
	if err != nil {
		return 0, 0, fmt.Errorf("could not create corpus file %s: %w", outPath, err)
	}
	defer func(out *os.File) {
		_ = out.Close()
	}(out)
	w := bufio.NewWriter(out)

	var written int64
	processed := 0
	c.progress.Begin("Cleaning", len(files))
	for _, name := range files {
		path := filepath.Join(srcDir, name)
		text, err := readSource(path)
		if err != nil {
			c.logger.Warn("Skipping unreadable source",
				slog.String("file", name),
				slog.Any("error", err),
			)
			c.progress.Increment()
			continue
		}
		n, err := writeCleaned(w, text)
		if err != nil {
			return processed, written, fmt.Errorf("could not write corpus data: %w", err)
		}
		written += n
		processed++
		c.progress.Increment()
	}
	c.progress.Finish()

	if err = w.Flush(); err != nil {
		return processed, written, fmt.Errorf("could not flush corpus file: %w", err)
	}

	c.logger.Info("Corpus combined",
		slog.Int("files", processed),
		slog.String("output", outPath),
		slog.String("size", humanize.Bytes(uint64(written))),
	)
	return processed, written, nil
}

// readSource loads one source file, extracting body text from JSON poems.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if strings.ToLower(filepath.Ext(path)) != ".json" {
		return string(data), nil
	}

	var doc poemDocument
	if err = json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("could not parse poem document: %w", err)
	}
	lines := make([]string, 0, len(doc.Body))
	for _, line := range doc.Body {
		lines = append(lines, line.Text)
	}
	return strings.Join(lines, "\n"), nil
}

// writeCleaned cleans text line by line and writes the non-empty results,
// one per line, returning the number of bytes written.
func writeCleaned(w *bufio.Writer, text string) (int64, error) {
	var written int64
	for _, line := range strings.Split(text, "\n") {
		cleaned := CleanLine(line)
		if cleaned == "" {
			continue
		}
		n, err := w.WriteString(cleaned)
		if err != nil {
			return written, err
		}
		if err = w.WriteByte('\n'); err != nil {
			return written, err
		}
		written += int64(n) + 1
	}
	return written, nil
}

// CleanLine reduces a raw line to letters, single spaces and the four
// punctuation characters the tokenizer splits on. Digits and other
// symbols are dropped.
func CleanLine(line string) string {
	var sb strings.Builder
	lastSpace := true
	for _, r := range line {
		switch {
		case unicode.IsLetter(r) || r == '.' || r == ',' || r == '!' || r == '?':
			sb.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				sb.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

type nopSink struct{}

func (nopSink) Begin(string, int) {}
func (nopSink) Increment()        {}
func (nopSink) Finish()           {}
