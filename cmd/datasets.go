package cmd

import (
	"context"
	"fmt"
	"os"

	"tablediff/core/binary"
	"tablediff/core/config"
	"tablediff/core/database"
	"tablediff/core/diff"
	"tablediff/core/logger"
	"tablediff/core/storage"

	diffapi "tablediff/feature/diff"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// datasetsCmd is the parent command for dataset inspection.
var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Inspect the datasets available for comparison",
}

// datasetsObjectsCmd lists the CSV objects stored in the bucket.
var datasetsObjectsCmd = &cobra.Command{
	Use:   "objects",
	Short: "List CSV objects in the storage bucket",
	Run: func(cmd *cobra.Command, args []string) {
		listObjects(cmd.Context(), newDatasetService(false))
	},
}

// datasetsTablesCmd lists the tables of the configured database.
var datasetsTablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables in the configured database",
	Run: func(cmd *cobra.Command, args []string) {
		listTables(cmd.Context(), newDatasetService(true))
	},
}

func init() {
	datasetsCmd.AddCommand(datasetsObjectsCmd)
	datasetsCmd.AddCommand(datasetsTablesCmd)
	RootCmd.AddCommand(datasetsCmd)
}

// newDatasetService wires a diff service for read-only dataset listings.
func newDatasetService(needDB bool) *diffapi.Service {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		logg.Fatal("Failed to create storage client", zap.Error(err))
	}

	var db *gorm.DB
	if needDB {
		db, err = database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Database connection failed", zap.Error(err))
		}
	}

	engine := diff.NewEngine(cfg.Engine, logg)
	return diffapi.NewService(store, cfg.Storage.Bucket, logg, db, engine, binary.NewCodec(), cfg.Engine.ChunkSize)
}

func listObjects(ctx context.Context, svc *diffapi.Service) {
	objects, err := svc.ListDatasets(ctx)
	if err != nil {
		fmt.Printf("Failed to list datasets: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n--- Stored Datasets ---")
	if len(objects) == 0 {
		fmt.Println("(none)")
		return
	}
	fmt.Printf("%-48s %12s  %s\n", "NAME", "SIZE", "LAST MODIFIED")
	for _, obj := range objects {
		fmt.Printf("%-48s %12d  %s\n", obj.Name, obj.Size, obj.LastModified.Format("2006-01-02 15:04:05"))
	}
}

func listTables(ctx context.Context, svc *diffapi.Service) {
	tables, err := svc.ListTables(ctx)
	if err != nil {
		fmt.Printf("Failed to list tables: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n--- Database Tables ---")
	if len(tables) == 0 {
		fmt.Println("(none)")
		return
	}
	for _, table := range tables {
		fmt.Println(table)
	}
}
