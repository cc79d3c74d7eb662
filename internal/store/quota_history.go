package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type QuotaHistoryStore struct {
	db sqlx.ExtContext
}

const historyColumns = `quota_history_detail_id, quota_id, info_date, valid_from, valid_to, created_at,
	old_quota_number, old_digit, quota_plan, installments_paid_number, overdue_installments_number,
	overdue_percentage, per_amount_paid, per_mutual_fund_paid, per_adm_paid, per_reserve_fund_paid,
	per_mutual_fund_to_pay, per_adm_to_pay, per_reserve_fund_to_pay, per_install_diff_to_pay,
	per_total_amount_to_pay, amnt_mutual_fund_to_pay, amnt_adm_to_pay, amnt_reserve_fund_to_pay,
	amnt_install_diff_to_pay, amnt_to_pay, amnt_paid, adjustment_date, current_assembly_date,
	current_assembly_number, asset_adm_code, asset_description, asset_value, asset_type_id`

func (qh *QuotaHistoryStore) GetOpenByQuota(ctx context.Context, quotaID int64) (*QuotaHistoryDetail, error) {
	query := `SELECT ` + historyColumns + `
	FROM md_cota.pl_quota_history_detail
	WHERE quota_id = $1 AND valid_to IS NULL`

	var detail QuotaHistoryDetail
	if err := sqlx.GetContext(ctx, qh.db, &detail, query, quotaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &detail, nil
}

func (qh *QuotaHistoryStore) CloseOpen(ctx context.Context, quotaID int64, at time.Time) error {
	query := `UPDATE md_cota.pl_quota_history_detail SET valid_to = $1
	WHERE quota_id = $2 AND valid_to IS NULL`

	_, err := qh.db.ExecContext(ctx, query, at, quotaID)
	return err
}

func (qh *QuotaHistoryStore) Insert(ctx context.Context, detail *QuotaHistoryDetail) error {
	query := `INSERT INTO md_cota.pl_quota_history_detail (
		quota_id,
		info_date,
		valid_from,
		valid_to,
		created_at,
		old_quota_number,
		old_digit,
		quota_plan,
		installments_paid_number,
		overdue_installments_number,
		overdue_percentage,
		per_amount_paid,
		per_mutual_fund_paid,
		per_adm_paid,
		per_reserve_fund_paid,
		per_mutual_fund_to_pay,
		per_adm_to_pay,
		per_reserve_fund_to_pay,
		per_install_diff_to_pay,
		per_total_amount_to_pay,
		amnt_mutual_fund_to_pay,
		amnt_adm_to_pay,
		amnt_reserve_fund_to_pay,
		amnt_install_diff_to_pay,
		amnt_to_pay,
		amnt_paid,
		adjustment_date,
		current_assembly_date,
		current_assembly_number,
		asset_adm_code,
		asset_description,
		asset_value,
		asset_type_id
	) VALUES (
		:quota_id,
		:info_date,
		:valid_from,
		:valid_to,
		:created_at,
		:old_quota_number,
		:old_digit,
		:quota_plan,
		:installments_paid_number,
		:overdue_installments_number,
		:overdue_percentage,
		:per_amount_paid,
		:per_mutual_fund_paid,
		:per_adm_paid,
		:per_reserve_fund_paid,
		:per_mutual_fund_to_pay,
		:per_adm_to_pay,
		:per_reserve_fund_to_pay,
		:per_install_diff_to_pay,
		:per_total_amount_to_pay,
		:amnt_mutual_fund_to_pay,
		:amnt_adm_to_pay,
		:amnt_reserve_fund_to_pay,
		:amnt_install_diff_to_pay,
		:amnt_to_pay,
		:amnt_paid,
		:adjustment_date,
		:current_assembly_date,
		:current_assembly_number,
		:asset_adm_code,
		:asset_description,
		:asset_value,
		:asset_type_id
	) RETURNING quota_history_detail_id`

	rows, err := sqlx.NamedQueryContext(ctx, qh.db, query, detail)
	if err != nil {
		return err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&detail.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Update rewrites the snapshot columns of an existing history row in place.
// Only the per-field backfill pass does this; everything else closes and
// reopens.
func (qh *QuotaHistoryStore) Update(ctx context.Context, detail *QuotaHistoryDetail) error {
	query := `UPDATE md_cota.pl_quota_history_detail SET
		old_quota_number = :old_quota_number,
		old_digit = :old_digit,
		quota_plan = :quota_plan,
		installments_paid_number = :installments_paid_number,
		overdue_installments_number = :overdue_installments_number,
		overdue_percentage = :overdue_percentage,
		per_amount_paid = :per_amount_paid,
		per_mutual_fund_paid = :per_mutual_fund_paid,
		per_adm_paid = :per_adm_paid,
		per_reserve_fund_paid = :per_reserve_fund_paid,
		per_mutual_fund_to_pay = :per_mutual_fund_to_pay,
		per_adm_to_pay = :per_adm_to_pay,
		per_reserve_fund_to_pay = :per_reserve_fund_to_pay,
		per_install_diff_to_pay = :per_install_diff_to_pay,
		per_total_amount_to_pay = :per_total_amount_to_pay,
		amnt_mutual_fund_to_pay = :amnt_mutual_fund_to_pay,
		amnt_adm_to_pay = :amnt_adm_to_pay,
		amnt_reserve_fund_to_pay = :amnt_reserve_fund_to_pay,
		amnt_install_diff_to_pay = :amnt_install_diff_to_pay,
		amnt_to_pay = :amnt_to_pay,
		amnt_paid = :amnt_paid,
		adjustment_date = :adjustment_date,
		current_assembly_date = :current_assembly_date,
		current_assembly_number = :current_assembly_number,
		asset_adm_code = :asset_adm_code,
		asset_description = :asset_description,
		asset_value = :asset_value,
		asset_type_id = :asset_type_id
	WHERE quota_history_detail_id = :quota_history_detail_id`

	_, err := sqlx.NamedExecContext(ctx, qh.db, query, detail)
	return err
}
