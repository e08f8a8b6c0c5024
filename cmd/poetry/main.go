package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/devilishclover/PoetryGenerator/pkg/corpus"
	"github.com/devilishclover/PoetryGenerator/pkg/poetry"
	"github.com/devilishclover/PoetryGenerator/pkg/progress"
)

func main() {
	configPath := flag.String("config", "./config.json", "path to the JSON config file")
	cleanDir := flag.String("clean", "", "combine and clean corpus sources from this directory, then exit")
	showStats := flag.Bool("stats", false, "print transition table statistics and exit")
	historyN := flag.Int("history", 0, "print the most recent n generation runs and exit")
	seed := flag.Uint64("seed", 0, "use a deterministic sampler seeded with this value (0 keeps the default random sampler)")
	flag.Parse()

	config, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))

	if *cleanDir != "" {
		runClean(logger, *cleanDir, config.CorpusPath)
		return
	}

	if *historyN > 0 {
		runHistory(logger, config, *historyN)
		return
	}

	table, err := acquireTable(logger, config)
	if err != nil {
		logger.Error("Could not acquire transition table", "error", err)
		os.Exit(1)
	}

	if *showStats {
		printStats(table)
		return
	}

	runInteractive(logger, config, table, *seed)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// acquireTable loads the cached table if one is usable, otherwise builds
// the chain from the corpus file and saves a fresh cache. A cache or
// save failure is never fatal; the run just rebuilds or proceeds without
// one.
func acquireTable(logger *slog.Logger, config *Config) (*poetry.TransitionTable, error) {
	cache := poetry.NewPersistenceCache(config.CachePath)
	cache.SetLogger(logger)

	if info, err := os.Stat(config.CachePath); err == nil {
		fmt.Printf("Found cached hash table (%s). Loading...\n", humanize.Bytes(uint64(info.Size())))
		table, err := cache.Load()
		if err == nil {
			fmt.Printf("Loaded hash table with %d unique words.\n\n", table.Size())
			return table, nil
		}
		logger.Warn("Cache unusable, rebuilding from corpus", "error", err)
	} else {
		fmt.Println("No cached hash table found. Building from scratch...")
	}

	f, err := os.Open(config.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("could not open corpus file %s: %w", config.CorpusPath, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	builder := poetry.NewChainBuilder(poetry.NewLineTokenizer(), poetry.WithBuildProgress(progress.New()))
	builder.SetLogger(logger)

	tokens, err := builder.ReadTokens(f)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Parsed %d words from file.\n", len(tokens))

	start := time.Now()
	table, err := builder.Build(tokens)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Hash table built with %d unique words in %s.\n", table.Size(), time.Since(start).Round(time.Millisecond))

	if err = cache.Save(table); err != nil {
		logger.Warn("Could not save cache, continuing without one", "error", err)
	}
	return table, nil
}

func runInteractive(logger *slog.Logger, config *Config, table *poetry.TransitionTable, seed uint64) {
	gen := poetry.NewGenerator(table)
	gen.SetLogger(logger)

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== Poetry Generator ===")
	fmt.Println()

	fmt.Print("Enter starting word: ")
	startWord, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read starting word: %v\n", err)
		os.Exit(1)
	}
	startWord = strings.ToLower(strings.TrimSpace(startWord))

	fmt.Print("Enter poem length (number of words): ")
	lengthLine, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read poem length: %v\n", err)
		os.Exit(1)
	}
	length, err := strconv.Atoi(strings.TrimSpace(lengthLine))
	if err != nil || length <= 0 {
		fmt.Fprintln(os.Stderr, "poem length must be a positive integer")
		os.Exit(1)
	}

	opts := []poetry.GenerateOption{
		poetry.WithMaxAttempts(config.MaxAttempts),
		poetry.WithProgress(progress.New()),
	}
	if seed != 0 {
		opts = append(opts, poetry.WithSeed(seed))
	}

	fmt.Println("\nGenerating poem...")
	start := time.Now()
	poem, actual, err := gen.GenerateCount(startWord, length, opts...)
	truncated := false
	if err != nil {
		if !errors.Is(err, poetry.ErrUnknownWord) {
			logger.Error("Generation failed", "error", err)
			os.Exit(1)
		}
		truncated = true
		fmt.Printf("Warning: %v. Poem ends early.\n", err)
	}
	elapsed := time.Since(start)

	fmt.Println("\n--- Generated Poem ---")
	fmt.Println(poem)
	fmt.Println()

	recordRun(logger, config, RunRecord{
		StartWord: startWord,
		Requested: length,
		Actual:    actual,
		Truncated: truncated,
		Duration:  elapsed,
	})
}

// recordRun appends the run to the history database, best effort.
func recordRun(logger *slog.Logger, config *Config, rec RunRecord) {
	store, db, err := openHistory(config, logger)
	if err != nil {
		logger.Warn("Could not open history database", "error", err)
		return
	}
	defer func() {
		store.Close()
		_ = db.Close()
	}()

	if _, err = store.RecordRun(context.Background(), rec); err != nil {
		logger.Warn("Could not record run history", "error", err)
	}
}

func runHistory(logger *slog.Logger, config *Config, n int) {
	store, db, err := openHistory(config, logger)
	if err != nil {
		logger.Error("Could not open history database", "error", err)
		os.Exit(1)
	}
	defer func() {
		store.Close()
		_ = db.Close()
	}()

	runs, err := store.RecentRuns(context.Background(), n)
	if err != nil {
		logger.Error("Could not read run history", "error", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No generation runs recorded yet.")
		return
	}
	for _, run := range runs {
		status := "ok"
		if run.Truncated {
			status = "truncated"
		}
		fmt.Printf("%s  %-20s len=%d/%-6d %-9s %6dms  %s\n",
			run.CreatedAt.Format(time.RFC3339), run.StartWord, run.Actual, run.Requested, status, run.Duration.Milliseconds(), run.ID)
	}
}

func openHistory(config *Config, logger *slog.Logger) (*HistoryStore, *sql.DB, error) {
	ensureDir(config.HistoryDBPath)
	db, err := initDB(config.HistoryDBPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := NewHistoryStore(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, db, nil
}

func runClean(logger *slog.Logger, srcDir, outPath string) {
	cleaner := corpus.NewCleaner(corpus.WithProgress(progress.New()))
	cleaner.SetLogger(logger)
	ensureDir(outPath)

	files, written, err := cleaner.Combine(srcDir, outPath)
	if err != nil {
		logger.Error("Corpus cleaning failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Combined %d files into %s (%s).\n", files, outPath, humanize.Bytes(uint64(written)))
}

func printStats(table *poetry.TransitionTable) {
	stats := poetry.CollectStats(table, 10)
	fmt.Printf("Unique words:      %d\n", stats.UniqueWords)
	fmt.Printf("Total transitions: %d\n", stats.TotalTransitions)
	fmt.Printf("Table capacity:    %d (load factor %.2f)\n", stats.Capacity, stats.LoadFactor)
	fmt.Printf("Longest follow:    %d\n", stats.LongestFollow)
	fmt.Println("Most frequent words:")
	for _, wc := range stats.TopWords {
		fmt.Printf("  %-20s %d\n", wc.Word, wc.Count)
	}
}

func ensureDir(path string) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
}
