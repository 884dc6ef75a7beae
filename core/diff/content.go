package diff

import (
	"context"
	"fmt"
	"strings"

	"tablediff/core/dataset"
)

// fingerprintSeparator joins normalized values into a whole-row
// fingerprint.
const fingerprintSeparator = "||"

// similarityThreshold is the score a candidate must strictly exceed to be
// claimed as a match.
const similarityThreshold = 0.5

// Stepper runs a comparison in bounded increments so a caller can
// interleave other work between batches of rows.
type Stepper interface {
	// Step advances by one batch and reports whether the comparison is
	// complete. Once done, further calls are no-ops that keep returning
	// true.
	Step(ctx context.Context) (done bool, err error)
	// Result returns the categorized outcome. Valid once Step has reported
	// done.
	Result() *Result
}

// CompareByContent pairs rows by whole-row similarity instead of a key:
// exact fingerprint matches first, then the best-scoring candidate strictly
// above the 0.5 threshold. Matching is greedy and order-dependent by
// contract; a claimed candidate leaves the pool immediately and is never
// reconsidered, so earlier source rows win contested candidates.
func (e *Engine) CompareByContent(ctx context.Context, source, target *dataset.Dataset, opts Options, onProgress ProgressFunc) (*Result, error) {
	s := e.NewContentStepper(source, target, opts, onProgress)
	for {
		done, err := s.Step(ctx)
		if err != nil {
			return nil, err
		}
		if done {
			return s.Result(), nil
		}
	}
}

// NewContentStepper prepares a content comparison without running it. Each
// Step handles one batch of source rows.
func (e *Engine) NewContentStepper(source, target *dataset.Dataset, opts Options, onProgress ProgressFunc) Stepper {
	excluded := opts.excluded()
	var cols []contentColumn
	for i, name := range source.Headers() {
		if _, skip := excluded[name]; skip {
			continue
		}
		tgt := -1
		if t, ok := target.Schema().Index(name); ok {
			tgt = t
		}
		cols = append(cols, contentColumn{name: name, src: i, tgt: tgt})
	}

	m := &contentMatcher{
		engine: e,
		source: source,
		target: target,
		opts:   opts,
		cols:   cols,
		res:    newResult(ModeContent, source, target, opts),
		prog:   newProgressReporter(onProgress),
	}

	m.pool = make([]int, target.Len())
	m.poolFP = make([]string, target.Len())
	for i := range m.pool {
		m.pool[i] = i
		m.poolFP[i] = m.fingerprintTarget(i)
	}
	return m
}

// contentColumn is one compared column: a non-excluded source header with
// its index on each side. tgt is -1 when the target schema lacks the
// column, in which case the target side contributes an empty value.
type contentColumn struct {
	name string
	src  int
	tgt  int
}

// contentMatcher is the resumable state of one content comparison. The
// candidate pool holds the unmatched target row indices in ascending order
// and only ever shrinks.
type contentMatcher struct {
	engine *Engine
	source *dataset.Dataset
	target *dataset.Dataset
	opts   Options
	cols   []contentColumn

	pool   []int
	poolFP []string

	res      *Result
	next     int
	finished bool
	prog     *progressReporter
}

func (m *contentMatcher) Step(ctx context.Context) (bool, error) {
	if m.finished {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	total := m.source.Len()
	end := min(m.next+m.engine.contentBatchSize, total)
	for i := m.next; i < end; i++ {
		m.matchSourceRow(i)
	}
	m.next = end
	if total > 0 {
		m.prog.report(float64(m.next)/float64(total)*80, "Matching rows...")
	}

	if m.next >= total {
		m.finish()
		return true, nil
	}
	return false, nil
}

func (m *contentMatcher) Result() *Result {
	return m.res
}

// matchSourceRow classifies one source row against the remaining pool.
func (m *contentMatcher) matchSourceRow(row int) {
	label := fmt.Sprintf("Row %d", row+1)
	fp := m.fingerprintSource(row)

	// An exact fingerprint match short-circuits the scoring scan. The pool
	// is scanned in ascending target order, so the earliest identical row
	// is the one claimed.
	for pi, tgt := range m.pool {
		if m.poolFP[tgt] == fp {
			m.res.Unchanged = append(m.res.Unchanged, UnchangedEntry{Key: label, Row: m.source.RowMap(row)})
			m.removeFromPool(pi)
			return
		}
	}

	// Strictly-greater tracking keeps the first candidate on score ties.
	bestScore := 0.0
	bestPool := -1
	for pi, tgt := range m.pool {
		if score := m.similarity(row, tgt); score > bestScore {
			bestScore = score
			bestPool = pi
		}
	}

	if bestPool >= 0 && bestScore > similarityThreshold {
		tgt := m.pool[bestPool]
		m.removeFromPool(bestPool)
		diffs := m.diffRow(row, tgt)
		if len(diffs) == 0 {
			m.res.Unchanged = append(m.res.Unchanged, UnchangedEntry{Key: label, Row: m.source.RowMap(row)})
			return
		}
		m.res.Modified = append(m.res.Modified, ModifiedEntry{
			Key:         label,
			SourceRow:   m.source.RowMap(row),
			TargetRow:   m.target.RowMap(tgt),
			Differences: diffs,
		})
		return
	}

	m.res.Removed = append(m.res.Removed, RemovedEntry{
		Key:       fmt.Sprintf("Removed %d", len(m.res.Removed)+1),
		SourceRow: m.source.RowMap(row),
	})
}

// finish labels whatever is left in the pool as added, in target row order.
func (m *contentMatcher) finish() {
	for n, tgt := range m.pool {
		m.res.Added = append(m.res.Added, AddedEntry{
			Key:       fmt.Sprintf("Added %d", n+1),
			TargetRow: m.target.RowMap(tgt),
		})
	}
	m.pool = nil
	m.finished = true
	m.prog.report(100, "Comparison complete")
}

// fingerprintSource concatenates the normalized compared values of a source
// row. Both sides fingerprint over the same column list, so rows with equal
// compared values collide even when the schemas differ.
func (m *contentMatcher) fingerprintSource(row int) string {
	parts := make([]string, len(m.cols))
	for i, col := range m.cols {
		parts[i] = Normalize(m.source.At(row, col.src), m.opts)
	}
	return strings.Join(parts, fingerprintSeparator)
}

func (m *contentMatcher) fingerprintTarget(row int) string {
	parts := make([]string, len(m.cols))
	for i, col := range m.cols {
		parts[i] = Normalize(m.targetValue(row, col), m.opts)
	}
	return strings.Join(parts, fingerprintSeparator)
}

// similarity is the fraction of compared columns whose normalized values
// agree between a source and a target row.
func (m *contentMatcher) similarity(srcRow, tgtRow int) float64 {
	if len(m.cols) == 0 {
		return 0
	}
	matches := 0
	for _, col := range m.cols {
		if Normalize(m.source.At(srcRow, col.src), m.opts) == Normalize(m.targetValue(tgtRow, col), m.opts) {
			matches++
		}
	}
	return float64(matches) / float64(len(m.cols))
}

// diffRow collects the column differences of a claimed pair. Columns the
// target schema lacks are skipped: they influenced the score but cannot
// produce an old/new value pair.
func (m *contentMatcher) diffRow(srcRow, tgtRow int) []Difference {
	var diffs []Difference
	for _, col := range m.cols {
		if col.tgt < 0 {
			continue
		}
		oldVal := m.source.At(srcRow, col.src)
		newVal := m.target.At(tgtRow, col.tgt)
		if Normalize(oldVal, m.opts) == Normalize(newVal, m.opts) {
			continue
		}
		diffs = append(diffs, Difference{
			Column:   col.name,
			OldValue: oldVal,
			NewValue: newVal,
			WordDiff: DiffWords(oldVal, newVal, m.opts),
		})
	}
	return diffs
}

func (m *contentMatcher) targetValue(row int, col contentColumn) string {
	if col.tgt < 0 {
		return ""
	}
	return m.target.At(row, col.tgt)
}

func (m *contentMatcher) removeFromPool(poolIdx int) {
	m.pool = append(m.pool[:poolIdx], m.pool[poolIdx+1:]...)
}
