package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestGetTableColumns(t *testing.T) {
	// Setup In-Memory DB
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	// SQLite specific types: INTEGER, TEXT.
	err = db.Exec("CREATE TABLE inventory (id INTEGER PRIMARY KEY, name TEXT, qty INTEGER)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "inventory")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	// Declaration order is preserved.
	assert.Equal(t, "id", columns[0].Field)
	assert.Equal(t, "name", columns[1].Field)
	assert.Equal(t, "qty", columns[2].Field)
	assert.Equal(t, "integer", columns[0].Type)
	assert.Equal(t, "text", columns[1].Type)

	// PRAGMA table_info returns an empty result for an unknown table,
	// so no error but no columns either.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	rows.AddRow("ID", "INT(11)", "NO", "PRI", nil, "auto_increment")
	rows.AddRow("Name", "VARCHAR(70)", "YES", "", nil, "")
	rows.AddRow("price", "decimal(10,2)", "YES", "", "0.00", "")

	mock.ExpectQuery("SHOW COLUMNS FROM `products`").WillReturnRows(rows)

	columns, err := GetTableColumns(db, "products")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	// Names and types come back lowercased regardless of what MySQL reports.
	assert.Equal(t, "id", columns[0].Field)
	assert.Equal(t, "int(11)", columns[0].Type)
	assert.Equal(t, "name", columns[1].Field)
	assert.Equal(t, "varchar(70)", columns[1].Type)
	assert.Equal(t, "price", columns[2].Field)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableColumns_MySQL_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SHOW COLUMNS FROM `missing`").WillReturnError(assert.AnError)

	_, err := GetTableColumns(db, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get columns for table missing")
}

func TestListTables(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, db.Exec("CREATE TABLE orders (id INTEGER PRIMARY KEY)").Error)
	require.NoError(t, db.Exec("CREATE TABLE customers (id INTEGER PRIMARY KEY)").Error)

	tables, err := ListTables(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "orders"}, tables)
}

func TestListTables_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Tables_in_tablediff"})
	rows.AddRow("Orders")
	rows.AddRow("order_items")

	mock.ExpectQuery("SHOW TABLES").WillReturnRows(rows)

	tables, err := ListTables(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "order_items"}, tables)

	assert.NoError(t, mock.ExpectationsWereMet())
}
