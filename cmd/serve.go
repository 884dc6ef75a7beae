package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"tablediff/core/config"
	"tablediff/core/database"
	"tablediff/core/loader"
	"tablediff/core/logger"
	"tablediff/core/middleware/auth"
	"tablediff/core/middleware/rayid"
	"tablediff/core/storage"

	diffapi "tablediff/feature/diff"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "tablediff/docs/swagger"
)

// @title Tablediff API
// @version 1.0
// @description API for comparing tabular datasets.
// @host localhost:8080
// @BasePath /

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the diff server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Optional)
		// Without it, synchronous comparisons still work; chunked runs and
		// table-backed datasets answer 503.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
		}

		// 4. Initialize Fiber App
		// The body limit must fit inline dataset payloads.
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             cfg.Server.BodyLimitBytes(),
		})

		// 5. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		ensureBucket(cmd, store, cfg.Storage.Bucket, logg)

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(diffapi.NewFeature(store, cfg.Storage.Bucket, logg, db, cfg.Engine))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			// Log error if happened
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

// ensureBucket creates the datasets bucket when it does not exist yet.
func ensureBucket(cmd *cobra.Command, store storage.Client, bucket string, logg *zap.Logger) {
	exists, err := store.BucketExists(cmd.Context(), bucket)
	if err != nil {
		logg.Fatal("Failed to check bucket", zap.String("bucket", bucket), zap.Error(err))
	}
	if exists {
		return
	}
	if err := store.MakeBucket(cmd.Context(), bucket, minio.MakeBucketOptions{}); err != nil {
		logg.Fatal("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
	}
	logg.Info("Created bucket", zap.String("bucket", bucket))
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
