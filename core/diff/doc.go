// Package diff compares two tabular datasets and categorizes every row as
// added, removed, modified or unchanged.
//
// The package is built around an explicit Engine: configuration, worker
// limits and logging travel with the engine instance instead of living in
// package globals, so independent engines can coexist with different
// tuning.
//
// # Matching Strategies
//
// Two strategies cover the two shapes of tabular data:
//
// 1. Primary key (ComparePrimaryKey): rows are joined on a composite key
// built from declared key columns. Key maps are built in concurrent batches
// over disjoint row ranges and merged sequentially in row order, which
// keeps duplicate-key detection deterministic. Requires unique keys per
// dataset.
//
// 2. Content (CompareByContent): for datasets without a usable key, rows
// are paired by whole-row similarity. Exact fingerprint matches win first;
// otherwise the best-scoring candidate strictly above the 0.5 threshold is
// claimed. Matching is greedy and order-dependent by contract. Also
// available as a Stepper for callers that want to interleave work between
// batches.
//
// # Value Comparison
//
// Normalize maps raw values to their comparison form (whitespace trim,
// case folding, empty-vs-null coalescing) while results always carry the
// raw values. Differences include a word-level diff of the two values,
// computed with word granularity so separators survive inside the spans.
//
// # Chunked Execution
//
// Coordinator partitions the target dataset into contiguous chunks,
// persists one partial Result per chunk through a Store, and computes
// removed rows exactly once on the final chunk. MergeResults restores the
// full categorized outcome in the original order.
//
// # Usage
//
//	engine := diff.NewEngine(cfg, log)
//	result, err := engine.ComparePrimaryKey(ctx, source, target, diff.Options{
//	    KeyColumns: []string{"id"},
//	}, nil)
package diff
