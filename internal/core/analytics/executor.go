package analytics

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"
)

// DefaultMetadataCacheSize is the number of tables whose column order is remembered
const DefaultMetadataCacheSize = 256

// GormExecutor runs report queries and procedures through gorm
type GormExecutor struct {
	db      *gorm.DB
	columns *lru.Cache[string, []string]
}

// NewGormExecutor creates an executor whose column metadata cache holds cacheSize tables
func NewGormExecutor(db *gorm.DB, cacheSize int) (*GormExecutor, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultMetadataCacheSize
	}
	cache, err := lru.New[string, []string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata cache: %w", err)
	}
	return &GormExecutor{db: db, columns: cache}, nil
}

// Run executes query with its placeholder arguments and returns the rows keyed by column
// name. Text cells returned as bytes are converted to strings.
func (e *GormExecutor) Run(ctx context.Context, query string, args ...interface{}) (*ResultSet, error) {
	rows, err := e.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &ResultSet{Columns: columns, Rows: []map[string]interface{}{}}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
			} else {
				row[column] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return result, nil
}

// Columns returns the column names of table in schema order
func (e *GormExecutor) Columns(ctx context.Context, table string) ([]string, error) {
	if cached, ok := e.columns.Get(table); ok {
		return cached, nil
	}

	types, err := e.db.WithContext(ctx).Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	columns := make([]string, len(types))
	for i, t := range types {
		columns[i] = t.Name()
	}
	e.columns.Add(table, columns)
	return columns, nil
}

// Exec runs a statement that returns no rows
func (e *GormExecutor) Exec(ctx context.Context, statement string) error {
	if err := e.db.WithContext(ctx).Exec(statement).Error; err != nil {
		return fmt.Errorf("statement failed: %w", err)
	}
	return nil
}

// ClearCaches drops the cached column metadata
func (e *GormExecutor) ClearCaches() {
	e.columns.Purge()
}
