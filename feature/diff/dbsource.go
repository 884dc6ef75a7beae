package diff

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"tablediff/core/database"
	"tablediff/core/dataset"
	"tablediff/core/utils"

	"gorm.io/gorm"
)

// tableNamePattern restricts table references to plain identifiers, since
// the schema queries interpolate the name.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// loadTableDataset reads an entire database table into a dataset. Columns
// keep their declaration order and every value is rendered as text; rows
// arrive in the order the database returns them.
func loadTableDataset(ctx context.Context, db *gorm.DB, table string) (*dataset.Dataset, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", ErrInvalidReference, table)
	}

	cols, err := database.GetTableColumns(db.WithContext(ctx), table)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: table %q not found or has no columns", ErrInvalidReference, table)
	}

	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Field
	}
	schema, err := dataset.NewSchema(headers)
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := db.WithContext(ctx).Table(table).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}

	rows := make([][]string, len(records))
	for i, record := range records {
		// Drivers report column keys in their own casing; the schema is
		// lowercased.
		lowered := make(map[string]any, len(record))
		for k, v := range record {
			lowered[strings.ToLower(k)] = v
		}
		row := make([]string, len(headers))
		for j, h := range headers {
			row[j] = utils.ToString(lowered[h])
		}
		rows[i] = row
	}

	return dataset.New(schema, rows)
}
