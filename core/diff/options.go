package diff

// Mode selects the matching strategy of a comparison.
type Mode string

const (
	// ModePrimaryKey joins rows on declared key columns.
	ModePrimaryKey Mode = "primary-key"
	// ModeContent pairs rows by whole-row similarity when no key exists.
	ModeContent Mode = "content-match"
)

// Options configure a single comparison. The zero value compares
// case-sensitively on every column and is valid for content mode;
// primary-key mode additionally requires KeyColumns.
type Options struct {
	// KeyColumns form the composite primary key, in declaration order.
	// Required in primary-key mode, ignored in content mode.
	KeyColumns []string `json:"key_columns"`
	// CaseSensitive keeps letter case significant when comparing values.
	CaseSensitive bool `json:"case_sensitive"`
	// IgnoreWhitespace trims leading and trailing whitespace before
	// comparing. Internal whitespace stays significant.
	IgnoreWhitespace bool `json:"ignore_whitespace"`
	// IgnoreEmptyVsNull treats empty values and the literal "null" as equal.
	IgnoreEmptyVsNull bool `json:"ignore_empty_vs_null"`
	// ExcludedColumns are never compared and never produce differences.
	ExcludedColumns []string `json:"excluded_columns"`
}

// excluded returns the excluded columns as a set for O(1) lookups.
func (o Options) excluded() map[string]struct{} {
	if len(o.ExcludedColumns) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(o.ExcludedColumns))
	for _, c := range o.ExcludedColumns {
		set[c] = struct{}{}
	}
	return set
}
