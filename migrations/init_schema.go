package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nonsonwune/hirehub/models"
)

// VerifySchema checks that table exists and exposes the seven candidate
// columns. The table is never created or altered here. table must already
// be a validated identifier.
func VerifySchema(ctx context.Context, db *sql.DB, table string) error {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE 1 = 0", models.JoinColumns(models.StoreColumns), table)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("required table %s is missing or lacks candidate columns: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("error reading columns of %s: %w", table, err)
	}
	if len(cols) != len(models.StoreColumns) {
		return fmt.Errorf("table %s returned %d columns, expected %d", table, len(cols), len(models.StoreColumns))
	}
	return rows.Err()
}
