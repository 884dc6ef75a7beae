package diff

// Config holds engine tuning. Values outside their valid range are not
// errors: NewEngine falls back to the defaults and, for workers, logs the
// degradation to the sequential path.
type Config struct {
	// Workers caps how many key batches are hashed concurrently.
	Workers int `mapstructure:"workers" default:"4"`
	// BatchSize is the row batch size of primary-key passes.
	BatchSize int `mapstructure:"batch_size" default:"1000"`
	// ContentBatchSize is how many source rows a content-mode step handles
	// between yield points.
	ContentBatchSize int `mapstructure:"content_batch_size" default:"100"`
	// ChunkSize is the default target partition size of chunked runs.
	ChunkSize int `mapstructure:"chunk_size" default:"10000"`
}

const (
	DefaultWorkers          = 4
	DefaultBatchSize        = 1000
	DefaultContentBatchSize = 100
	DefaultChunkSize        = 10000
)
