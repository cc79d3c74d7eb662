package stage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// batchQuery builds the staging fetch for one table: only rows whose
// idempotency flag is still down, oldest first.
func batchQuery(table, columns string) string {
	return `SELECT ` + columns + `
	FROM ` + table + `
	WHERE is_processed = false
	ORDER BY id
	LIMIT $1`
}

// markProcessed flips the idempotency flag for a set of staging rows. It runs
// on the batch transaction so the flag commits together with the rows'
// normalized writes.
func markProcessed(ctx context.Context, tx sqlx.ExtContext, table string, stageIDs []int64) error {
	if len(stageIDs) == 0 {
		return nil
	}
	query := fmt.Sprintf(`UPDATE %s SET is_processed = true, processed_at = NOW() WHERE id = ANY($1)`, table)
	if _, err := tx.ExecContext(ctx, query, pq.Array(stageIDs)); err != nil {
		return fmt.Errorf("mark processed on %s: %w", table, err)
	}
	return nil
}
