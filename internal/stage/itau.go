package stage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cotahub/mdcota-etl/internal/etl"
)

const itauTable = "stage_raw.quotas_itau_pre"

// itauRow mirrors stage_raw.quotas_itau_pre. Itaú files use compact yyyymmdd
// dates and carry no owner data; the customer flow handles owners separately.
type itauRow struct {
	ID                int64   `db:"id"`
	ExternalReference string  `db:"external_reference"`
	ContractNumber    *string `db:"contract_number"`
	QuotaNumber       *string `db:"quota_number"`
	GroupCode         string  `db:"group_code"`
	GroupDeadline     *string `db:"group_deadline"`
	CurrentAssembly   *string `db:"current_assembly"`
	InfoDate          string  `db:"info_date"`
	QuotaStatus       *string `db:"quota_status"`
	AssetType         *string `db:"asset_type"`
	CancelDate        *string `db:"cancel_date"`
	AdmFee            *string `db:"adm_fee"`
	TotalInstallments *string `db:"total_installments"`

	QuotaPlan           *string `db:"quota_plan"`
	InstallmentsPaid    *string `db:"installments_paid_number"`
	OverdueInstallments *string `db:"overdue_installments_number"`
	PerAmountPaid       *string `db:"per_amount_paid"`
	PerMutualFundPaid   *string `db:"per_mutual_fund_paid"`
	AmntToPay           *string `db:"amnt_to_pay"`
	AmntPaid            *string `db:"amnt_paid"`
	AdjustmentDate      *string `db:"adjustment_date"`
	AssetDescription    *string `db:"asset_description"`
	AssetValue          *string `db:"asset_value"`
}

type ItauReader struct {
	db *sqlx.DB
}

func NewItauReader(db *sqlx.DB) *ItauReader {
	return &ItauReader{db: db}
}

func (r *ItauReader) FetchBatch(ctx context.Context, limit int) ([]etl.QuotaRow, error) {
	query := batchQuery(itauTable, `id, external_reference, contract_number, quota_number, group_code,
		group_deadline, current_assembly, info_date, quota_status, asset_type, cancel_date,
		adm_fee, total_installments, quota_plan, installments_paid_number,
		overdue_installments_number, per_amount_paid, per_mutual_fund_paid, amnt_to_pay,
		amnt_paid, adjustment_date, asset_description, asset_value`)

	raw := []itauRow{}
	if err := r.db.SelectContext(ctx, &raw, query, limit); err != nil {
		return nil, err
	}

	rows := make([]etl.QuotaRow, 0, len(raw))
	for i := range raw {
		rows = append(rows, raw[i].toQuotaRow())
	}
	return rows, nil
}

func (r *ItauReader) MarkProcessed(ctx context.Context, tx sqlx.ExtContext, stageIDs []int64) error {
	return markProcessed(ctx, tx, itauTable, stageIDs)
}

func (ir *itauRow) toQuotaRow() etl.QuotaRow {
	infoDate := parseCompactDate(ir.InfoDate)
	if infoDate == nil {
		epoch := time.Time{}
		infoDate = &epoch
	}

	row := etl.QuotaRow{
		StageID:           ir.ID,
		ExternalReference: ir.ExternalReference,
		ContractNumber:    ir.ContractNumber,
		QuotaNumber:       ir.QuotaNumber,
		GroupCode:         ir.GroupCode,
		GroupDeadline:     parseInt(deref(ir.GroupDeadline)),
		CurrentAssembly:   parseInt(deref(ir.CurrentAssembly)),
		InfoDate:          *infoDate,
		StatusRaw:         deref(ir.QuotaStatus),
		AssetTypeRaw:      deref(ir.AssetType),
		CancelDate:        parseCompactDate(deref(ir.CancelDate)),
		AdmFeePercentage:  parseBRFloat(deref(ir.AdmFee)),
		TotalInstallments: parseInt(deref(ir.TotalInstallments)),
	}

	f := &row.Fields
	f.QuotaPlan = ir.QuotaPlan
	f.InstallmentsPaidNumber = parseInt(deref(ir.InstallmentsPaid))
	f.OverdueInstallmentsNumber = parseInt(deref(ir.OverdueInstallments))
	f.PerAmountPaid = parseBRFloat(deref(ir.PerAmountPaid))
	f.PerMutualFundPaid = parseBRFloat(deref(ir.PerMutualFundPaid))
	f.AmntToPay = parseBRFloat(deref(ir.AmntToPay))
	f.AmntPaid = parseBRFloat(deref(ir.AmntPaid))
	f.AdjustmentDate = parseCompactDate(deref(ir.AdjustmentDate))
	f.AssetDescription = ir.AssetDescription
	f.AssetValue = parseBRFloat(deref(ir.AssetValue))
	f.CurrentAssemblyDate = infoDate
	f.CurrentAssemblyNumber = row.CurrentAssembly

	return row
}
