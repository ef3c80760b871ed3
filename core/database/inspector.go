package database

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo describes a single column as reported by the database.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // NULL default is possible
	Extra   string
}

// TableColumns retrieves the column definitions for a given table.
// It supports MySQL (SHOW COLUMNS) and SQLite (PRAGMA table_info), the
// two dialects the loader runs against.
func TableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo

	if db.Dialector.Name() == "sqlite" {
		type sqliteColumn struct {
			Cid        int
			Name       string
			Type       string
			Notnull    int
			DefaultVal *string
			Pk         int
		}
		var sqliteCols []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			columns = append(columns, ColumnInfo{
				Field: strings.ToLower(col.Name),
				Type:  strings.ToLower(col.Type),
			})
		}
		return columns, nil
	}

	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// VerifyTables checks that every expected table exists and carries at least
// the expected columns. The want map is keyed by table name; each value is
// the list of required column names.
//
// A non-nil error means the store's schema does not match what the loader
// was built against, and no load should run until an operator intervenes.
func VerifyTables(db *gorm.DB, want map[string][]string) error {
	// Deterministic order so the first reported problem is stable.
	names := make([]string, 0, len(want))
	for name := range want {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, table := range names {
		cols, err := TableColumns(db, table)
		if err != nil {
			return fmt.Errorf("schema mismatch: cannot describe table %s: %w", table, err)
		}
		if len(cols) == 0 {
			return fmt.Errorf("schema mismatch: table %s does not exist", table)
		}

		present := make(map[string]struct{}, len(cols))
		for _, c := range cols {
			present[c.Field] = struct{}{}
		}
		for _, col := range want[table] {
			if _, ok := present[strings.ToLower(col)]; !ok {
				return fmt.Errorf("schema mismatch: table %s is missing column %s", table, col)
			}
		}
	}
	return nil
}
