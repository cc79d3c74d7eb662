package stage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cotahub/mdcota-etl/internal/etl"
)

const gmacTable = "stage_raw.quotas_gmac_pre"

// gmacRow mirrors stage_raw.quotas_gmac_pre. GMAC delivers ISO dates and
// point-decimal numbers, keys quotas by contract number, and ships the
// to-pay percentage breakdown instead of the paid one.
type gmacRow struct {
	ID                int64   `db:"id"`
	ContractNumber    string  `db:"contract_number"`
	QuotaNumber       *string `db:"quota_number"`
	GroupCode         string  `db:"group_code"`
	GroupDeadline     *string `db:"group_deadline"`
	CurrentAssembly   *string `db:"current_assembly"`
	InfoDate          string  `db:"info_date"`
	QuotaStatus       *string `db:"quota_status"`
	AssetType         *string `db:"asset_type"`
	AcquisitionDate   *string `db:"acquisition_date"`
	AdmFee            *string `db:"adm_fee"`
	TotalInstallments *string `db:"total_installments"`

	PerMutualFundToPay   *string `db:"per_mutual_fund_to_pay"`
	PerAdmToPay          *string `db:"per_adm_to_pay"`
	PerReserveFundToPay  *string `db:"per_reserve_fund_to_pay"`
	PerInstallDiffToPay  *string `db:"per_install_diff_to_pay"`
	PerTotalAmountToPay  *string `db:"per_total_amount_to_pay"`
	AmntMutualFundToPay  *string `db:"amnt_mutual_fund_to_pay"`
	AmntAdmToPay         *string `db:"amnt_adm_to_pay"`
	AmntReserveFundToPay *string `db:"amnt_reserve_fund_to_pay"`
	AmntInstallDiffToPay *string `db:"amnt_install_diff_to_pay"`
	AssetDescription     *string `db:"asset_description"`
	AssetValue           *string `db:"asset_value"`

	OwnerDocument   *string `db:"owner_document"`
	OwnerPersonType *string `db:"owner_person_type"`
	OwnerName       *string `db:"owner_name"`
	DDD1            *string `db:"ddd_1"`
	Phone1          *string `db:"phone_1"`
	DDD2            *string `db:"ddd_2"`
	Phone2          *string `db:"phone_2"`
}

type GMACReader struct {
	db *sqlx.DB
}

func NewGMACReader(db *sqlx.DB) *GMACReader {
	return &GMACReader{db: db}
}

func (r *GMACReader) FetchBatch(ctx context.Context, limit int) ([]etl.QuotaRow, error) {
	query := batchQuery(gmacTable, `id, contract_number, quota_number, group_code, group_deadline,
		current_assembly, info_date, quota_status, asset_type, acquisition_date, adm_fee,
		total_installments, per_mutual_fund_to_pay, per_adm_to_pay, per_reserve_fund_to_pay,
		per_install_diff_to_pay, per_total_amount_to_pay, amnt_mutual_fund_to_pay,
		amnt_adm_to_pay, amnt_reserve_fund_to_pay, amnt_install_diff_to_pay,
		asset_description, asset_value, owner_document, owner_person_type, owner_name,
		ddd_1, phone_1, ddd_2, phone_2`)

	raw := []gmacRow{}
	if err := r.db.SelectContext(ctx, &raw, query, limit); err != nil {
		return nil, err
	}

	rows := make([]etl.QuotaRow, 0, len(raw))
	for i := range raw {
		rows = append(rows, raw[i].toQuotaRow())
	}
	return rows, nil
}

func (r *GMACReader) MarkProcessed(ctx context.Context, tx sqlx.ExtContext, stageIDs []int64) error {
	return markProcessed(ctx, tx, gmacTable, stageIDs)
}

func (gr *gmacRow) toQuotaRow() etl.QuotaRow {
	infoDate := parseISODate(gr.InfoDate)
	if infoDate == nil {
		epoch := time.Time{}
		infoDate = &epoch
	}

	// GMAC has no separate external reference; the contract number is the
	// natural key.
	row := etl.QuotaRow{
		StageID:           gr.ID,
		ExternalReference: gr.ContractNumber,
		ContractNumber:    &gr.ContractNumber,
		QuotaNumber:       gr.QuotaNumber,
		GroupCode:         gr.GroupCode,
		GroupDeadline:     parseInt(deref(gr.GroupDeadline)),
		CurrentAssembly:   parseInt(deref(gr.CurrentAssembly)),
		InfoDate:          *infoDate,
		StatusRaw:         deref(gr.QuotaStatus),
		AssetTypeRaw:      deref(gr.AssetType),
		AcquisitionDate:   parseISODate(deref(gr.AcquisitionDate)),
		AdmFeePercentage:  parseFloat(deref(gr.AdmFee)),
		TotalInstallments: parseInt(deref(gr.TotalInstallments)),
	}

	f := &row.Fields
	f.PerMutualFundToPay = parseFloat(deref(gr.PerMutualFundToPay))
	f.PerAdmToPay = parseFloat(deref(gr.PerAdmToPay))
	f.PerReserveFundToPay = parseFloat(deref(gr.PerReserveFundToPay))
	f.PerInstallDiffToPay = parseFloat(deref(gr.PerInstallDiffToPay))
	f.PerTotalAmountToPay = parseFloat(deref(gr.PerTotalAmountToPay))
	f.AmntMutualFundToPay = parseFloat(deref(gr.AmntMutualFundToPay))
	f.AmntAdmToPay = parseFloat(deref(gr.AmntAdmToPay))
	f.AmntReserveFundToPay = parseFloat(deref(gr.AmntReserveFundToPay))
	f.AmntInstallDiffToPay = parseFloat(deref(gr.AmntInstallDiffToPay))
	f.AssetDescription = gr.AssetDescription
	f.AssetValue = parseFloat(deref(gr.AssetValue))
	f.CurrentAssemblyDate = infoDate
	f.CurrentAssemblyNumber = row.CurrentAssembly

	if gr.OwnerDocument != nil {
		owner := etl.Owner{
			Document:   *gr.OwnerDocument,
			PersonType: deref(gr.OwnerPersonType),
			Name:       deref(gr.OwnerName),
			MainOwner:  true,
		}
		for _, pair := range [][2]*string{{gr.DDD1, gr.Phone1}, {gr.DDD2, gr.Phone2}} {
			if pair[1] == nil || *pair[1] == "" {
				continue
			}
			owner.Phones = append(owner.Phones, etl.Phone{AreaCode: deref(pair[0]), Number: *pair[1]})
		}
		row.Owners = []etl.Owner{owner}
	}
	return row
}
