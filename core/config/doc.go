// Package config provides configuration management for the diff service.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Engine: diff engine tuning (workers, batch and chunk sizes)
//
// Environment variables map onto nested keys with underscores, so
// SERVER_PORT sets server.port and ENGINE_CHUNK_SIZE sets engine.chunk_size.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
