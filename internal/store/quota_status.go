package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type QuotaStatusStore struct {
	db sqlx.ExtContext
}

func (qs *QuotaStatusStore) GetOpenByQuota(ctx context.Context, quotaID int64) (*QuotaStatus, error) {
	query := `SELECT quota_status_id, quota_id, quota_status_type_id, valid_from, valid_to, created_at
	FROM md_cota.pl_quota_status
	WHERE quota_id = $1 AND valid_to IS NULL`

	var status QuotaStatus
	if err := sqlx.GetContext(ctx, qs.db, &status, query, quotaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}

func (qs *QuotaStatusStore) CloseOpen(ctx context.Context, quotaID int64, at time.Time) error {
	query := `UPDATE md_cota.pl_quota_status SET valid_to = $1
	WHERE quota_id = $2 AND valid_to IS NULL`

	_, err := qs.db.ExecContext(ctx, query, at, quotaID)
	return err
}

func (qs *QuotaStatusStore) Insert(ctx context.Context, status *QuotaStatus) error {
	query := `INSERT INTO md_cota.pl_quota_status (
		quota_id,
		quota_status_type_id,
		valid_from,
		valid_to,
		created_at
	) VALUES (
		:quota_id,
		:quota_status_type_id,
		:valid_from,
		:valid_to,
		:created_at
	) RETURNING quota_status_id`

	rows, err := sqlx.NamedQueryContext(ctx, qs.db, query, status)
	if err != nil {
		return err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&status.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}
