package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type QuotaOwnerStore struct {
	db sqlx.ExtContext
}

func (qo *QuotaOwnerStore) GetOpenByQuota(ctx context.Context, quotaID int64) ([]QuotaOwner, error) {
	query := `SELECT quota_owner_id, quota_id, person_code, ownership_percentage, main_owner,
		valid_from, valid_to, created_at
	FROM md_cota.pl_quota_owner
	WHERE quota_id = $1 AND valid_to IS NULL`

	owners := []QuotaOwner{}
	if err := sqlx.SelectContext(ctx, qo.db, &owners, query, quotaID); err != nil {
		return nil, err
	}
	return owners, nil
}

func (qo *QuotaOwnerStore) CloseOpen(ctx context.Context, quotaID int64, at time.Time) error {
	query := `UPDATE md_cota.pl_quota_owner SET valid_to = $1
	WHERE quota_id = $2 AND valid_to IS NULL`

	_, err := qo.db.ExecContext(ctx, query, at, quotaID)
	return err
}

func (qo *QuotaOwnerStore) Insert(ctx context.Context, owner *QuotaOwner) error {
	query := `INSERT INTO md_cota.pl_quota_owner (
		quota_id,
		person_code,
		ownership_percentage,
		main_owner,
		valid_from,
		valid_to,
		created_at
	) VALUES (
		:quota_id,
		:person_code,
		:ownership_percentage,
		:main_owner,
		:valid_from,
		:valid_to,
		:created_at
	)`

	_, err := sqlx.NamedExecContext(ctx, qo.db, query, owner)
	return err
}
