package diff

import (
	"context"
	"errors"
	"strings"

	"tablediff/core/dataset"

	"golang.org/x/sync/errgroup"
)

// keySeparator joins key column values into a composite key. Keys are built
// from raw values: they identify rows and are never normalized.
const keySeparator = "|"

// ErrNoKeyColumns is returned when a primary-key comparison is requested
// without any key columns.
var ErrNoKeyColumns = errors.New("primary-key comparison requires at least one key column")

// ComparePrimaryKey joins source and target on the composite key formed by
// opts.KeyColumns and categorizes every row as added, removed, modified or
// unchanged. Key columns must exist in both datasets and keys must be
// unique within each dataset. Progress spans the key map build (0-50) and
// the comparison pass (50-100).
func (e *Engine) ComparePrimaryKey(ctx context.Context, source, target *dataset.Dataset, opts Options, onProgress ProgressFunc) (*Result, error) {
	p, err := e.preparePrimaryKey(ctx, source, target, opts, onProgress)
	if err != nil {
		return nil, err
	}

	res := newResult(ModePrimaryKey, source, target, opts)
	p.prog.report(50, "Comparing rows...")

	p.appendRemoved(res)
	total := target.Len()
	err = e.comparePass(ctx, p, 0, total, res, func(done int) {
		if total > 0 {
			p.prog.report(50+float64(done)/float64(total)*50, "Comparing rows...")
		}
	})
	if err != nil {
		return nil, err
	}

	p.prog.report(100, "Comparison complete")
	return res, nil
}

// pkPlan is the prepared state of a primary-key comparison: both datasets,
// their validated key indexes, and the columns every matched pair is
// compared on. A plan outlives a single pass so chunked execution can reuse
// the maps across chunks.
type pkPlan struct {
	source, target *dataset.Dataset
	opts           Options
	srcIdx, tgtIdx *keyIndex
	compareCols    []pkColumn
	prog           *progressReporter
}

// pkColumn is one comparable column: declared by the source schema, not
// excluded, and present in the target schema.
type pkColumn struct {
	name     string
	src, tgt int
}

// preparePrimaryKey validates the key columns, builds both key indexes and
// resolves the compare column list. Map build progress is proportional to
// rows hashed across both datasets, scaled to 0-50.
func (e *Engine) preparePrimaryKey(ctx context.Context, source, target *dataset.Dataset, opts Options, onProgress ProgressFunc) (*pkPlan, error) {
	if len(opts.KeyColumns) == 0 {
		return nil, ErrNoKeyColumns
	}
	if err := validateKeyColumns(source, target, opts.KeyColumns); err != nil {
		return nil, err
	}

	p := &pkPlan{
		source:      source,
		target:      target,
		opts:        opts,
		compareCols: resolveCompareColumns(source, target, opts),
		prog:        newProgressReporter(onProgress),
	}

	totalRows := source.Len() + target.Len()
	buildProg := func(offset int, message string) func(done int) {
		if totalRows == 0 {
			return nil
		}
		return func(done int) {
			p.prog.report(float64(offset+done)/float64(totalRows)*50, message)
		}
	}

	var err error
	p.srcIdx, err = e.buildKeyIndex(ctx, source, opts.KeyColumns, SideSource, buildProg(0, "Building source map..."))
	if err != nil {
		return nil, err
	}
	p.tgtIdx, err = e.buildKeyIndex(ctx, target, opts.KeyColumns, SideTarget, buildProg(source.Len(), "Building target map..."))
	if err != nil {
		return nil, err
	}
	return p, nil
}

// validateKeyColumns checks that every key column is declared by both
// datasets before any row is touched. Source is checked first, and columns
// are checked in declaration order, so the reported column is stable.
func validateKeyColumns(source, target *dataset.Dataset, keyColumns []string) error {
	for _, col := range keyColumns {
		if !source.Schema().Has(col) {
			return &MissingKeyColumnError{Column: col, Side: SideSource}
		}
		if !target.Schema().Has(col) {
			return &MissingKeyColumnError{Column: col, Side: SideTarget}
		}
	}
	return nil
}

// resolveCompareColumns walks the source headers in order, dropping
// excluded columns and columns the target schema does not declare. Columns
// only the target has are never compared.
func resolveCompareColumns(source, target *dataset.Dataset, opts Options) []pkColumn {
	excluded := opts.excluded()
	var cols []pkColumn
	for i, name := range source.Headers() {
		if _, skip := excluded[name]; skip {
			continue
		}
		t, ok := target.Schema().Index(name)
		if !ok {
			continue
		}
		cols = append(cols, pkColumn{name: name, src: i, tgt: t})
	}
	return cols
}

// keyIndex is the outcome of one key map build: the composite key of every
// row in row order, plus the key to row index map validated for uniqueness.
type keyIndex struct {
	keys  []string
	byKey map[string]int
}

// buildKeyIndex computes the composite key of every row and validates
// uniqueness. Key hashing runs in batches over disjoint row ranges, up to
// e.workers at a time; the map insert is a single sequential in-order merge,
// so the duplicate reported is always the first colliding row in original
// order no matter how the batches were scheduled.
func (e *Engine) buildKeyIndex(ctx context.Context, d *dataset.Dataset, keyColumns []string, side Side, prog func(done int)) (*keyIndex, error) {
	keyCols := make([]int, len(keyColumns))
	for i, col := range keyColumns {
		idx, _ := d.Schema().Index(col)
		keyCols[i] = idx
	}

	n := d.Len()
	keys := make([]string, n)

	if e.workers > 1 && n > e.batchSize {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for lo := 0; lo < n; lo += e.batchSize {
			lo, hi := lo, min(lo+e.batchSize, n)
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				for i := lo; i < hi; i++ {
					keys[i] = compositeKey(d, i, keyCols)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for lo := 0; lo < n; lo += e.batchSize {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			hi := min(lo+e.batchSize, n)
			for i := lo; i < hi; i++ {
				keys[i] = compositeKey(d, i, keyCols)
			}
		}
	}

	byKey := make(map[string]int, n)
	for i, key := range keys {
		if _, dup := byKey[key]; dup {
			return nil, &DuplicateKeyError{Key: key, Side: side}
		}
		byKey[key] = i
		if prog != nil && (i+1)%e.batchSize == 0 {
			prog(i + 1)
		}
	}
	if prog != nil {
		prog(n)
	}
	return &keyIndex{keys: keys, byKey: byKey}, nil
}

// compositeKey joins the key column values of one row.
func compositeKey(d *dataset.Dataset, row int, keyCols []int) string {
	if len(keyCols) == 1 {
		return d.At(row, keyCols[0])
	}
	parts := make([]string, len(keyCols))
	for i, c := range keyCols {
		parts[i] = d.At(row, c)
	}
	return strings.Join(parts, keySeparator)
}

// comparePass classifies the target rows in [lo, hi) against the source key
// map and appends the outcomes to res. Work proceeds in batches with a
// context check between them; prog, when set, receives the number of rows
// finished since lo. Shared by the one-shot comparison and the chunk
// coordinator.
func (e *Engine) comparePass(ctx context.Context, p *pkPlan, lo, hi int, res *Result, prog func(done int)) error {
	for batchLo := lo; batchLo < hi; batchLo += e.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		batchHi := min(batchLo+e.batchSize, hi)
		for i := batchLo; i < batchHi; i++ {
			key := p.tgtIdx.keys[i]
			srcRow, ok := p.srcIdx.byKey[key]
			if !ok {
				res.Added = append(res.Added, AddedEntry{Key: key, TargetRow: p.target.RowMap(i)})
				continue
			}
			if diffs := p.diffRow(srcRow, i); len(diffs) > 0 {
				res.Modified = append(res.Modified, ModifiedEntry{
					Key:         key,
					SourceRow:   p.source.RowMap(srcRow),
					TargetRow:   p.target.RowMap(i),
					Differences: diffs,
				})
			} else {
				res.Unchanged = append(res.Unchanged, UnchangedEntry{Key: key, Row: p.source.RowMap(srcRow)})
			}
		}
		if prog != nil {
			prog(batchHi - lo)
		}
	}
	return nil
}

// diffRow collects the per-column differences of one matched row pair.
func (p *pkPlan) diffRow(srcRow, tgtRow int) []Difference {
	var diffs []Difference
	for _, col := range p.compareCols {
		oldVal := p.source.At(srcRow, col.src)
		newVal := p.target.At(tgtRow, col.tgt)
		if Normalize(oldVal, p.opts) == Normalize(newVal, p.opts) {
			continue
		}
		diffs = append(diffs, Difference{
			Column:   col.name,
			OldValue: oldVal,
			NewValue: newVal,
			WordDiff: DiffWords(oldVal, newVal, p.opts),
		})
	}
	return diffs
}

// appendRemoved adds every source row whose key has no target counterpart,
// in source row order.
func (p *pkPlan) appendRemoved(res *Result) {
	for i, key := range p.srcIdx.keys {
		if _, ok := p.tgtIdx.byKey[key]; !ok {
			res.Removed = append(res.Removed, RemovedEntry{Key: key, SourceRow: p.source.RowMap(i)})
		}
	}
}
