package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type QuotaStore struct {
	db sqlx.ExtContext
}

const quotaColumns = `quota_id, quota_code, external_reference, administrator_id, group_id,
	quota_origin_id, quota_person_type_id, quota_status_type_id, quota_number, check_digit,
	contract_number, is_contemplated, is_multiple_ownership, adm_fee_percentage,
	fund_reservation_fee_percentage, total_installments, cancel_date, acquisition_date,
	info_date, created_at, modified_at`

func (qs *QuotaStore) ListByAdministrator(ctx context.Context, administratorID int) ([]Quota, error) {
	query := `SELECT ` + quotaColumns + `
	FROM md_cota.pl_quota
	WHERE administrator_id = $1`

	quotas := []Quota{}
	if err := sqlx.SelectContext(ctx, qs.db, &quotas, query, administratorID); err != nil {
		return nil, err
	}
	return quotas, nil
}

// ListRecent returns the most recently touched quotas, newest first. Serves
// the read API's view of what the ingestion jobs have been writing.
func (qs *QuotaStore) ListRecent(ctx context.Context, limit int) ([]Quota, error) {
	query := `SELECT ` + quotaColumns + `
	FROM md_cota.pl_quota
	ORDER BY modified_at DESC
	LIMIT $1`

	quotas := []Quota{}
	if err := sqlx.SelectContext(ctx, qs.db, &quotas, query, limit); err != nil {
		return nil, err
	}
	return quotas, nil
}

func (qs *QuotaStore) GetByCode(ctx context.Context, code string) (*Quota, error) {
	query := `SELECT ` + quotaColumns + `
	FROM md_cota.pl_quota
	WHERE quota_code = $1`

	var quota Quota
	if err := sqlx.GetContext(ctx, qs.db, &quota, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &quota, nil
}

// MaxID returns the highest quota_id, 0 when the table is empty. Used to
// mint the placeholder quota code before the real key is known.
func (qs *QuotaStore) MaxID(ctx context.Context) (int64, error) {
	var max int64
	if err := sqlx.GetContext(ctx, qs.db, &max, `SELECT COALESCE(MAX(quota_id), 0) FROM md_cota.pl_quota`); err != nil {
		return 0, err
	}
	return max, nil
}

func (qs *QuotaStore) Insert(ctx context.Context, quota *Quota) error {
	query := `INSERT INTO md_cota.pl_quota (
		quota_code,
		external_reference,
		administrator_id,
		group_id,
		quota_origin_id,
		quota_person_type_id,
		quota_status_type_id,
		quota_number,
		check_digit,
		contract_number,
		is_contemplated,
		is_multiple_ownership,
		adm_fee_percentage,
		fund_reservation_fee_percentage,
		total_installments,
		cancel_date,
		acquisition_date,
		info_date,
		created_at,
		modified_at
	) VALUES (
		:quota_code,
		:external_reference,
		:administrator_id,
		:group_id,
		:quota_origin_id,
		:quota_person_type_id,
		:quota_status_type_id,
		:quota_number,
		:check_digit,
		:contract_number,
		:is_contemplated,
		:is_multiple_ownership,
		:adm_fee_percentage,
		:fund_reservation_fee_percentage,
		:total_installments,
		:cancel_date,
		:acquisition_date,
		:info_date,
		:created_at,
		:modified_at
	) RETURNING quota_id`

	rows, err := sqlx.NamedQueryContext(ctx, qs.db, query, quota)
	if err != nil {
		return err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&quota.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (qs *QuotaStore) Update(ctx context.Context, quota *Quota) error {
	query := `UPDATE md_cota.pl_quota SET
		group_id = :group_id,
		quota_status_type_id = :quota_status_type_id,
		contract_number = :contract_number,
		is_contemplated = :is_contemplated,
		is_multiple_ownership = :is_multiple_ownership,
		adm_fee_percentage = :adm_fee_percentage,
		fund_reservation_fee_percentage = :fund_reservation_fee_percentage,
		total_installments = :total_installments,
		cancel_date = :cancel_date,
		info_date = :info_date,
		modified_at = :modified_at
	WHERE quota_id = :quota_id`

	_, err := sqlx.NamedExecContext(ctx, qs.db, query, quota)
	return err
}

// UpdateCode overwrites the placeholder quota code once the real primary key
// is known and the check digit is recomputed against it.
func (qs *QuotaStore) UpdateCode(ctx context.Context, quotaID int64, code, checkDigit string) error {
	query := `UPDATE md_cota.pl_quota SET quota_code = $1, check_digit = $2, modified_at = NOW()
	WHERE quota_id = $3`

	_, err := qs.db.ExecContext(ctx, query, code, checkDigit, quotaID)
	return err
}
