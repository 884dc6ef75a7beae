package diff

import "tablediff/core/dataset"

// WordSpan is one run of text produced by the word-level diff. At most one
// of Added and Removed is set; both false marks text common to both values.
type WordSpan struct {
	Added   bool   `json:"added"`
	Removed bool   `json:"removed"`
	Value   string `json:"value"`
}

// Difference is a single column disagreement within a matched row pair.
// Old and new values are the raw cell contents, not their normalized forms.
type Difference struct {
	Column   string     `json:"column"`
	OldValue string     `json:"old_value"`
	NewValue string     `json:"new_value"`
	WordDiff []WordSpan `json:"word_diff,omitempty"`
}

// AddedEntry is a target row with no source counterpart.
type AddedEntry struct {
	Key       string            `json:"key"`
	TargetRow map[string]string `json:"target_row"`
}

// RemovedEntry is a source row with no target counterpart.
type RemovedEntry struct {
	Key       string            `json:"key"`
	SourceRow map[string]string `json:"source_row"`
}

// ModifiedEntry is a matched row pair with at least one column difference.
type ModifiedEntry struct {
	Key         string            `json:"key"`
	SourceRow   map[string]string `json:"source_row"`
	TargetRow   map[string]string `json:"target_row"`
	Differences []Difference      `json:"differences"`
}

// UnchangedEntry is a matched row pair with no differences. The row carried
// is the source-side one.
type UnchangedEntry struct {
	Key string            `json:"key"`
	Row map[string]string `json:"row"`
}

// Meta describes one input dataset in a result. Only headers are kept, so
// result size does not scale with input size through this field.
type Meta struct {
	Headers []string `json:"headers"`
}

// Result is the categorized outcome of one comparison. Every source row
// lands in exactly one of Removed, Modified or Unchanged; every target row
// in exactly one of Added, Modified or Unchanged.
type Result struct {
	Added     []AddedEntry     `json:"added"`
	Removed   []RemovedEntry   `json:"removed"`
	Modified  []ModifiedEntry  `json:"modified"`
	Unchanged []UnchangedEntry `json:"unchanged"`

	Source          Meta     `json:"source"`
	Target          Meta     `json:"target"`
	KeyColumns      []string `json:"key_columns"`
	ExcludedColumns []string `json:"excluded_columns"`
	Mode            Mode     `json:"mode"`
}

// Summary is the per-category entry count of a result.
type Summary struct {
	Total     int `json:"total"`
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

// Summary returns the per-category counts of the result.
func (r *Result) Summary() Summary {
	return Summary{
		Total:     len(r.Added) + len(r.Removed) + len(r.Modified) + len(r.Unchanged),
		Added:     len(r.Added),
		Removed:   len(r.Removed),
		Modified:  len(r.Modified),
		Unchanged: len(r.Unchanged),
	}
}

// RecomputeWordDiffs fills the word-level spans of every difference from
// its stored old and new values. The binary wire format does not carry
// spans, so callers that need them after decoding call this with the same
// options the comparison ran with.
func (r *Result) RecomputeWordDiffs(opts Options) {
	for i := range r.Modified {
		diffs := r.Modified[i].Differences
		for j := range diffs {
			diffs[j].WordDiff = DiffWords(diffs[j].OldValue, diffs[j].NewValue, opts)
		}
	}
}

// newResult seeds a result with dataset metadata and the configuration echo
// clients need to interpret it. Category slices start non-nil so an empty
// category marshals as [] rather than null.
func newResult(mode Mode, source, target *dataset.Dataset, opts Options) *Result {
	res := &Result{
		Added:           []AddedEntry{},
		Removed:         []RemovedEntry{},
		Modified:        []ModifiedEntry{},
		Unchanged:       []UnchangedEntry{},
		Source:          Meta{Headers: source.Headers()},
		Target:          Meta{Headers: target.Headers()},
		KeyColumns:      []string{},
		ExcludedColumns: []string{},
		Mode:            mode,
	}
	if mode == ModePrimaryKey {
		res.KeyColumns = append(res.KeyColumns, opts.KeyColumns...)
	}
	res.ExcludedColumns = append(res.ExcludedColumns, opts.ExcludedColumns...)
	return res
}
