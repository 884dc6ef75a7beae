package diff

import (
	"encoding/json"
	"fmt"
	"time"

	"tablediff/core/diff"
)

// Run lifecycle states.
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// DiffRun is the persisted record of a chunked comparison run. It carries
// the request context the binary chunk payloads omit (headers, options),
// so merged results can be rebuilt with full metadata.
type DiffRun struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	Status     string  `gorm:"size:16;index" json:"status"`
	Mode       string  `gorm:"size:32" json:"mode"`
	SourceName string  `gorm:"size:255" json:"source_name"`
	TargetName string  `gorm:"size:255" json:"target_name"`
	ChunkSize  int     `json:"chunk_size"`
	ChunkCount int     `json:"chunk_count"`
	Progress   float64 `json:"progress"`

	// Summary counts, filled in when the run completes.
	Total     int `json:"total"`
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`

	Error string `gorm:"type:text" json:"error,omitempty"`

	// JSON-encoded request context, reattached to merged results.
	SourceHeaders string `gorm:"type:text" json:"-"`
	TargetHeaders string `gorm:"type:text" json:"-"`
	OptionsJSON   string `gorm:"type:text;column:options" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// encodeContext stores the headers and options a merged result needs.
func (r *DiffRun) encodeContext(sourceHeaders, targetHeaders []string, opts diff.Options) {
	src, _ := json.Marshal(sourceHeaders)
	tgt, _ := json.Marshal(targetHeaders)
	o, _ := json.Marshal(opts)
	r.SourceHeaders = string(src)
	r.TargetHeaders = string(tgt)
	r.OptionsJSON = string(o)
}

// DiffOptions decodes the comparison options the run was started with.
func (r *DiffRun) DiffOptions() (diff.Options, error) {
	var opts diff.Options
	if r.OptionsJSON == "" {
		return opts, nil
	}
	if err := json.Unmarshal([]byte(r.OptionsJSON), &opts); err != nil {
		return opts, fmt.Errorf("decode run options: %w", err)
	}
	return opts, nil
}

// Headers decodes the source and target header lists recorded at start.
func (r *DiffRun) Headers() (source, target []string, err error) {
	if r.SourceHeaders != "" {
		if err := json.Unmarshal([]byte(r.SourceHeaders), &source); err != nil {
			return nil, nil, fmt.Errorf("decode source headers: %w", err)
		}
	}
	if r.TargetHeaders != "" {
		if err := json.Unmarshal([]byte(r.TargetHeaders), &target); err != nil {
			return nil, nil, fmt.Errorf("decode target headers: %w", err)
		}
	}
	return source, target, nil
}

// DiffChunk is one binary-encoded partial result of a chunked run.
type DiffChunk struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	DiffID     string    `gorm:"size:36;uniqueIndex:idx_diff_chunks_run_seq" json:"diff_id"`
	ChunkIndex int       `gorm:"uniqueIndex:idx_diff_chunks_run_seq" json:"chunk_index"`
	Payload    []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// DatasetRef selects the dataset a comparison reads. Exactly one source
// kind must be set: an inline payload (headers plus rows), the name of a
// CSV object in the bucket, or a database table name.
type DatasetRef struct {
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
	Object  string     `json:"object,omitempty"`
	Table   string     `json:"table,omitempty"`
}

// Name returns a human-readable label for the referenced dataset.
func (r DatasetRef) Name() string {
	switch {
	case r.Object != "":
		return r.Object
	case r.Table != "":
		return "table:" + r.Table
	default:
		return fmt.Sprintf("inline (%d rows)", len(r.Rows))
	}
}

// CompareRequest is the body of the synchronous compare endpoints.
type CompareRequest struct {
	Source  DatasetRef   `json:"source"`
	Target  DatasetRef   `json:"target"`
	Options diff.Options `json:"options"`
}

// ChunkedRequest starts a chunked primary-key run.
type ChunkedRequest struct {
	CompareRequest
	ChunkSize int `json:"chunk_size,omitempty"`
}

// DatasetObject describes one stored dataset object in the bucket.
type DatasetObject struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}
