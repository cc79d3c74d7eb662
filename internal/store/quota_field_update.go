package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type QuotaFieldUpdateStore struct {
	db sqlx.ExtContext
}

func (qf *QuotaFieldUpdateStore) Get(ctx context.Context, quotaID int64, fieldID int) (*QuotaFieldUpdateDate, error) {
	query := `SELECT quota_field_update_date_id, quota_id, quota_history_field_id, data_source_id,
		update_date, created_at, modified_at
	FROM md_cota.pl_quota_field_update_date
	WHERE quota_id = $1 AND quota_history_field_id = $2`

	var fud QuotaFieldUpdateDate
	if err := sqlx.GetContext(ctx, qf.db, &fud, query, quotaID, fieldID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &fud, nil
}

func (qf *QuotaFieldUpdateStore) Insert(ctx context.Context, fud *QuotaFieldUpdateDate) error {
	query := `INSERT INTO md_cota.pl_quota_field_update_date (
		quota_id,
		quota_history_field_id,
		data_source_id,
		update_date,
		created_at,
		modified_at
	) VALUES (
		:quota_id,
		:quota_history_field_id,
		:data_source_id,
		:update_date,
		:created_at,
		:modified_at
	)`

	_, err := sqlx.NamedExecContext(ctx, qf.db, query, fud)
	return err
}

func (qf *QuotaFieldUpdateStore) Update(ctx context.Context, quotaID int64, fieldID, dataSourceID int, updateDate time.Time) error {
	query := `UPDATE md_cota.pl_quota_field_update_date SET
		data_source_id = $1,
		update_date = $2,
		modified_at = NOW()
	WHERE quota_id = $3 AND quota_history_field_id = $4`

	_, err := qf.db.ExecContext(ctx, query, dataSourceID, updateDate, quotaID, fieldID)
	return err
}
