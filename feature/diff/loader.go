package diff

import (
	"fmt"

	"tablediff/core/binary"
	"tablediff/core/diff"
	"tablediff/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the diff feature. The database connection may be nil;
// run persistence then degrades while inline and object comparisons keep
// working.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, cfg diff.Config) *Feature {
	engine := diff.NewEngine(cfg, logger)
	codec := binary.NewCodec()
	svc := NewService(client, bucket, logger, db, engine, codec, cfg.ChunkSize)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "diff"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load migrates the run tables and registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if f.service.store != nil {
		if err := f.service.store.Migrate(); err != nil {
			return fmt.Errorf("migrate diff store: %w", err)
		}
	}
	f.handler.RegisterRoutes(app)
	return nil
}
