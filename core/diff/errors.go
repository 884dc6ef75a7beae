package diff

import "fmt"

// Side identifies which input dataset an engine error refers to.
type Side string

const (
	SideSource Side = "source"
	SideTarget Side = "target"
)

// MissingKeyColumnError reports a declared key column that is absent from a
// dataset's headers. It is raised before any row is processed.
type MissingKeyColumnError struct {
	Column string
	Side   Side
}

func (e *MissingKeyColumnError) Error() string {
	return fmt.Sprintf("primary key column %q not found in %s dataset", e.Column, e.Side)
}

// DuplicateKeyError reports a composite key collision within one dataset in
// primary-key mode. The comparison is aborted; the key and side identify the
// offending rows. Detection is deterministic: the first row in original
// order that collides with an earlier one is the one reported.
type DuplicateKeyError struct {
	Key  string
	Side Side
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate primary key %q in %s dataset: primary keys must be unique", e.Key, e.Side)
}
