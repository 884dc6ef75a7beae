// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to configure
// MySQL and SQLite connections based on the application's configuration. MySQL
// serves production deployments; SQLite (including ":memory:") serves local
// runs and tests.
//
// # Connect
//
// The generic Connect function establishes a connection for the configured
// driver, applies pool settings appropriate to it, and verifies the
// connection with a bounded ping before returning.
//
// # Schema Inspection
//
// The package includes tools to inspect the database schema. GetTableColumns
// retrieves the columns of a table in declaration order, which is how a SQL
// table becomes a diffable dataset schema; ListTables enumerates what can be
// diffed at all.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "inventory")
package database
