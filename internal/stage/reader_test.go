package stage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// fakeTx captures the statements markProcessed issues on the batch
// transaction.
type fakeTx struct {
	queries []string
	args    [][]interface{}
}

func (f *fakeTx) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)
	return driver.RowsAffected(1), nil
}

func (f *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryxContext(context.Context, string, ...interface{}) (*sqlx.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowxContext(context.Context, string, ...interface{}) *sqlx.Row {
	return nil
}

func (f *fakeTx) DriverName() string { return "postgres" }

func (f *fakeTx) Rebind(query string) string { return query }

func (f *fakeTx) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return query, nil, nil
}

func TestMarkProcessedFlipsFlagForBatch(t *testing.T) {
	tx := &fakeTx{}
	require.NoError(t, markProcessed(context.Background(), tx, santanderTable, []int64{3, 5, 8}))

	require.Len(t, tx.queries, 1)
	require.Contains(t, tx.queries[0], santanderTable)
	require.Contains(t, tx.queries[0], "SET is_processed = true")
	require.Equal(t, []interface{}{pq.Array([]int64{3, 5, 8})}, tx.args[0])
}

func TestMarkProcessedEmptyBatchIsNoOp(t *testing.T) {
	tx := &fakeTx{}
	require.NoError(t, markProcessed(context.Background(), tx, santanderTable, nil))
	require.Empty(t, tx.queries)
}

func TestBatchQueryFetchesOnlyUnprocessedRows(t *testing.T) {
	tables := []string{
		santanderTable,
		gmacTable,
		itauTable,
		volkswagenTable,
		volkswagenGroupInfoTable,
		portoGroupInfoTable,
	}
	for _, table := range tables {
		query := batchQuery(table, "id")
		require.Contains(t, query, "FROM "+table)
		require.Contains(t, query, "WHERE is_processed = false")
		require.Contains(t, query, "ORDER BY id")
		require.Contains(t, query, "LIMIT $1")
	}
}
