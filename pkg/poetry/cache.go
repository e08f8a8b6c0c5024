package poetry

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"
)

// Cache file layout: magic, format version, entry count, then one record
// per word consisting of the word followed by its ordered follow list.
// Strings are uvarint-length-prefixed, counts are uvarints. No corpus
// fingerprint is stored: an existing cache is reused even if the corpus
// file changed underneath it.
const (
	cacheMagic   = "PGTC"
	cacheVersion = 1
)

// Sanity limits for decoding. Anything past these means the file is not a
// cache we wrote.
const (
	maxCacheString  = 1 << 20
	maxCacheEntries = 1 << 28
)

// ErrBadCache marks a cache file that exists but cannot be decoded:
// wrong magic, unsupported version, or truncated/corrupt data. Callers
// treat it the same as a missing cache and rebuild from the corpus.
var ErrBadCache = errors.New("unusable cache file")

// PersistenceCache saves and loads a built TransitionTable at a fixed
// file path so later runs can skip chain construction.
type PersistenceCache struct {
	path   string
	logger *slog.Logger
}

// NewPersistenceCache returns a cache bound to path.
func NewPersistenceCache(path string) *PersistenceCache {
	return &PersistenceCache{
		path:   path,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the cache. By default, all logs are
// discarded.
func (c *PersistenceCache) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Path returns the cache file path.
func (c *PersistenceCache) Path() string { return c.path }

// Save serializes the full table to the cache path. The file is written
// atomically so a crash never leaves a truncated cache behind.
func (c *PersistenceCache) Save(table *TransitionTable) error {
	var buf bytes.Buffer
	var scratch [binary.MaxVarintLen64]byte
	writeUvarint := func(v uint64) {
		n := binary.PutUvarint(scratch[:], v)
		buf.Write(scratch[:n])
	}
	writeString := func(s string) {
		writeUvarint(uint64(len(s)))
		buf.WriteString(s)
	}

	buf.WriteString(cacheMagic)
	writeUvarint(cacheVersion)
	writeUvarint(uint64(table.Size()))
	table.Walk(func(key string, info *WordFreqInfo) bool {
		writeString(key)
		writeUvarint(uint64(info.OccurCount()))
		for i := 0; i < info.OccurCount(); i++ {
			writeString(info.FollowWordAt(i))
		}
		return true
	})

	if err := atomic.WriteFile(c.path, &buf); err != nil {
		return fmt.Errorf("could not write cache file %s: %w", c.path, err)
	}

	c.logger.Info("Cache saved",
		slog.String("path", c.path),
		slog.Int("words", table.Size()),
	)
	return nil
}

// Load reads the cache file back into a fresh table. Every failure mode
// (file missing, bad magic, version skew, truncated or corrupt data) is
// reported as an error; callers treat any error as "no usable cache" and
// rebuild from the corpus.
func (c *PersistenceCache) Load() (*TransitionTable, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	r := bufio.NewReader(f)

	magic := make([]byte, len(cacheMagic))
	if _, err = io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("%w: short header", ErrBadCache)
	}
	if string(magic) != cacheMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadCache, magic)
	}

	version, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("%w: missing format version", ErrBadCache)
	}
	if version != cacheVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrBadCache, version)
	}

	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("%w: missing entry count", ErrBadCache)
	}
	if count > maxCacheEntries {
		return nil, fmt.Errorf("%w: implausible entry count %d", ErrBadCache, count)
	}

	table := NewTransitionTable(int(count))
	for i := uint64(0); i < count; i++ {
		word, err := readCacheString(r)
		if err != nil {
			return nil, err
		}
		followCount, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, fmt.Errorf("%w: missing follow count for %q", ErrBadCache, word)
		}
		info := NewWordFreqInfo(word)
		for j := uint64(0); j < followCount; j++ {
			follower, err := readCacheString(r)
			if err != nil {
				return nil, err
			}
			info.UpdateFollows(follower)
		}
		if err = table.Insert(word, info); err != nil {
			return nil, fmt.Errorf("%w: duplicate word %q", ErrBadCache, word)
		}
	}

	c.logger.Info("Cache loaded",
		slog.String("path", c.path),
		slog.Int("words", table.Size()),
	)
	return table, nil
}

func readCacheString(r *bufio.Reader) (string, error) {
	length, err := binary.ReadUvarint(r)
	if err != nil {
		return "", fmt.Errorf("%w: missing string length", ErrBadCache)
	}
	if length > maxCacheString {
		return "", fmt.Errorf("%w: implausible string length %d", ErrBadCache, length)
	}
	data := make([]byte, length)
	if _, err = io.ReadFull(r, data); err != nil {
		return "", fmt.Errorf("%w: truncated string data", ErrBadCache)
	}
	return string(data), nil
}
