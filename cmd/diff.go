package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"tablediff/core/binary"
	"tablediff/core/config"
	"tablediff/core/dataset"
	"tablediff/core/diff"
	"tablediff/core/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the diff command
	diffSourcePath       string
	diffTargetPath       string
	diffKeyColumns       []string
	diffExcludeColumns   []string
	diffCaseSensitive    bool
	diffIgnoreWhitespace bool
	diffIgnoreEmptyNull  bool
	diffNoHeaders        bool
	diffChunkSize        int
	diffOutPath          string
	diffJSON             bool
)

// diffCmd compares two local CSV files.
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare two CSV files",
	Long: `Compare two CSV files and report added, removed, modified and unchanged rows.

With --key the rows are joined on the given key columns; without it similar
rows are paired by content.

Examples:
  # Primary-key comparison on a composite key
  tablediff diff --source old.csv --target new.csv --key region --key id

  # Content comparison, full result as JSON
  tablediff diff --source old.csv --target new.csv --json

  # Chunked execution, result written as a binary artifact
  tablediff diff --source old.csv --target new.csv --key id --chunk-size 500 --out result.bin`,
	Run: func(cmd *cobra.Command, args []string) {
		runDiff(cmd.Context())
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffSourcePath, "source", "", "Path to the source (old) CSV file")
	diffCmd.Flags().StringVar(&diffTargetPath, "target", "", "Path to the target (new) CSV file")
	diffCmd.Flags().StringArrayVar(&diffKeyColumns, "key", nil, "Key column (repeatable, order forms the composite key)")
	diffCmd.Flags().StringArrayVar(&diffExcludeColumns, "exclude", nil, "Column to exclude from comparison (repeatable)")
	diffCmd.Flags().BoolVar(&diffCaseSensitive, "case-sensitive", false, "Compare values case-sensitively")
	diffCmd.Flags().BoolVar(&diffIgnoreWhitespace, "ignore-whitespace", false, "Trim leading and trailing whitespace before comparing")
	diffCmd.Flags().BoolVar(&diffIgnoreEmptyNull, "ignore-empty-null", false, "Treat empty values and the literal \"null\" as equal")
	diffCmd.Flags().BoolVar(&diffNoHeaders, "no-headers", false, "Treat the first row as data and synthesize Column1..ColumnN names")
	diffCmd.Flags().IntVar(&diffChunkSize, "chunk-size", 0, "Compare in chunks of N target rows (0 = one shot)")
	diffCmd.Flags().StringVar(&diffOutPath, "out", "", "Write the result as a binary artifact to this path")
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Print the full result as JSON")
	RootCmd.AddCommand(diffCmd)
}

func runDiff(ctx context.Context) {
	if diffSourcePath == "" || diffTargetPath == "" {
		fmt.Println("Both --source and --target are required")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	source := readCSVFile(logg, diffSourcePath)
	target := readCSVFile(logg, diffTargetPath)

	opts := diff.Options{
		KeyColumns:        diffKeyColumns,
		CaseSensitive:     diffCaseSensitive,
		IgnoreWhitespace:  diffIgnoreWhitespace,
		IgnoreEmptyVsNull: diffIgnoreEmptyNull,
		ExcludedColumns:   diffExcludeColumns,
	}
	progress := func(percent float64, message string) {
		logg.Debug("Progress", zap.Float64("percent", percent), zap.String("message", message))
	}

	engine := diff.NewEngine(cfg.Engine, logg)
	var res *diff.Result
	switch {
	case diffChunkSize > 0:
		res = runChunkedDiff(ctx, logg, engine, source, target, opts, progress)
	case len(diffKeyColumns) > 0:
		res, err = engine.ComparePrimaryKey(ctx, source, target, opts, progress)
	default:
		res, err = engine.CompareByContent(ctx, source, target, opts, progress)
	}
	if err != nil {
		logg.Fatal("Comparison failed", zap.Error(err))
	}

	if diffOutPath != "" {
		payload, err := binary.NewCodec().Encode(res)
		if err != nil {
			logg.Fatal("Failed to encode result", zap.Error(err))
		}
		if err := os.WriteFile(diffOutPath, payload, 0o644); err != nil {
			logg.Fatal("Failed to write result", zap.Error(err))
		}
		logg.Info("Result written", zap.String("path", diffOutPath), zap.Int("bytes", len(payload)))
	}

	if diffJSON {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			logg.Fatal("Failed to marshal result", zap.Error(err))
		}
		fmt.Println(string(out))
		return
	}

	printSummary(res, source, target)
}

// runChunkedDiff drives the chunk coordinator against an in-memory store,
// so operators can verify chunked runs match one-shot results.
func runChunkedDiff(ctx context.Context, logg *zap.Logger, engine *diff.Engine, source, target *dataset.Dataset, opts diff.Options, progress diff.ProgressFunc) *diff.Result {
	store := newMemoryStore()
	coord := diff.NewCoordinator(engine, store, diffChunkSize, logg)

	diffID := uuid.NewString()
	chunks, err := coord.Run(ctx, diffID, source, target, opts, progress)
	if err != nil {
		logg.Fatal("Chunked comparison failed", zap.Error(err))
	}
	logg.Info("Chunked comparison finished", zap.Int("chunks", chunks))

	res, err := coord.Merge(ctx, diffID)
	if err != nil {
		logg.Fatal("Failed to merge chunks", zap.Error(err))
	}
	return res
}

func readCSVFile(logg *zap.Logger, path string) *dataset.Dataset {
	f, err := os.Open(path)
	if err != nil {
		logg.Fatal("Failed to open file", zap.String("path", path), zap.Error(err))
	}
	defer f.Close()

	var ds *dataset.Dataset
	if diffNoHeaders {
		ds, err = dataset.ReadCSVHeadless(f)
	} else {
		ds, err = dataset.ReadCSV(f)
	}
	if err != nil {
		logg.Fatal("Failed to parse CSV", zap.String("path", path), zap.Error(err))
	}
	return ds
}

func printSummary(res *diff.Result, source, target *dataset.Dataset) {
	sum := res.Summary()

	// Pretty Console Output
	fmt.Println("\n--- Dataset Comparison ---")
	fmt.Printf("Source:      %s (%d rows)\n", diffSourcePath, source.Len())
	fmt.Printf("Target:      %s (%d rows)\n", diffTargetPath, target.Len())
	fmt.Printf("Mode:        %s\n", res.Mode)
	if len(res.KeyColumns) > 0 {
		fmt.Printf("Key Columns: %s\n", strings.Join(res.KeyColumns, ", "))
	}
	if len(res.ExcludedColumns) > 0 {
		fmt.Printf("Excluded:    %s\n", strings.Join(res.ExcludedColumns, ", "))
	}
	fmt.Println("--------------------------")
	fmt.Printf("Added:       %d\n", sum.Added)
	fmt.Printf("Removed:     %d\n", sum.Removed)
	fmt.Printf("Modified:    %d\n", sum.Modified)
	fmt.Printf("Unchanged:   %d\n", sum.Unchanged)
	fmt.Printf("Total:       %d\n", sum.Total)
	if sum.Modified > 0 && !diffJSON {
		fmt.Println("\nUse --json for per-row differences.")
	}
}

// memoryStore keeps chunk parts in memory for CLI runs.
type memoryStore struct {
	mu    sync.Mutex
	parts map[string]map[int]*diff.Result
}

func newMemoryStore() *memoryStore {
	return &memoryStore{parts: make(map[string]map[int]*diff.Result)}
}

func (s *memoryStore) Put(_ context.Context, diffID string, index int, part *diff.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parts[diffID] == nil {
		s.parts[diffID] = make(map[int]*diff.Result)
	}
	s.parts[diffID][index] = part
	return nil
}

func (s *memoryStore) GetAll(_ context.Context, diffID string) ([]*diff.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	indices := make([]int, 0, len(s.parts[diffID]))
	for idx := range s.parts[diffID] {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	out := make([]*diff.Result, 0, len(indices))
	for _, idx := range indices {
		out = append(out, s.parts[diffID][idx])
	}
	return out, nil
}

func (s *memoryStore) DeleteAll(_ context.Context, diffID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.parts, diffID)
	return nil
}
