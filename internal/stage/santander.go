package stage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cotahub/mdcota-etl/internal/etl"
)

const santanderTable = "stage_raw.quotas_santander_pre"

// santanderRow mirrors stage_raw.quotas_santander_pre. Santander delivers
// dates as dd/mm/yyyy and decimals with comma separators; everything lands as
// text and is parsed here.
type santanderRow struct {
	ID                 int64   `db:"id"`
	ExternalReference  string  `db:"external_reference"`
	ContractNumber     *string `db:"contract_number"`
	QuotaNumber        *string `db:"quota_number"`
	GroupCode          string  `db:"group_code"`
	GroupDeadline      *string `db:"group_deadline"`
	CurrentAssembly    *string `db:"current_assembly"`
	InfoDate           string  `db:"info_date"`
	QuotaStatus        *string `db:"quota_status"`
	AssetType          *string `db:"asset_type"`
	AcquisitionDate    *string `db:"acquisition_date"`
	CancelDate         *string `db:"cancel_date"`
	AdmFee             *string `db:"adm_fee"`
	FundReservationFee *string `db:"fund_reservation_fee"`
	TotalInstallments  *string `db:"total_installments"`
	MultipleOwnership  *string `db:"multiple_ownership"`

	OldQuotaNumber          *string `db:"old_quota_number"`
	OldDigit                *string `db:"old_digit"`
	QuotaPlan               *string `db:"quota_plan"`
	InstallmentsPaid        *string `db:"installments_paid_number"`
	OverdueInstallments     *string `db:"overdue_installments_number"`
	OverduePercentage       *string `db:"overdue_percentage"`
	PerAmountPaid           *string `db:"per_amount_paid"`
	PerMutualFundPaid       *string `db:"per_mutual_fund_paid"`
	PerAdmPaid              *string `db:"per_adm_paid"`
	PerReserveFundPaid      *string `db:"per_reserve_fund_paid"`
	AmntToPay               *string `db:"amnt_to_pay"`
	AmntPaid                *string `db:"amnt_paid"`
	AdjustmentDate          *string `db:"adjustment_date"`
	AssetAdmCode            *string `db:"asset_adm_code"`
	AssetDescription        *string `db:"asset_description"`
	AssetValue              *string `db:"asset_value"`

	OwnerDocument   *string `db:"owner_document"`
	OwnerPersonType *string `db:"owner_person_type"`
	OwnerName       *string `db:"owner_name"`
	OwnerEmail      *string `db:"owner_email"`
	JointDocument   *string `db:"joint_owner_document"`
	JointPersonType *string `db:"joint_owner_person_type"`
	JointName       *string `db:"joint_owner_name"`

	DDD1   *string `db:"ddd_1"`
	Phone1 *string `db:"phone_1"`
	DDD2   *string `db:"ddd_2"`
	Phone2 *string `db:"phone_2"`
	DDD3   *string `db:"ddd_3"`
	Phone3 *string `db:"phone_3"`
	DDD4   *string `db:"ddd_4"`
	Phone4 *string `db:"phone_4"`
	DDD5   *string `db:"ddd_5"`
	Phone5 *string `db:"phone_5"`
	DDD6   *string `db:"ddd_6"`
	Phone6 *string `db:"phone_6"`
}

type SantanderReader struct {
	db *sqlx.DB
}

func NewSantanderReader(db *sqlx.DB) *SantanderReader {
	return &SantanderReader{db: db}
}

func (r *SantanderReader) FetchBatch(ctx context.Context, limit int) ([]etl.QuotaRow, error) {
	query := batchQuery(santanderTable, `id, external_reference, contract_number, quota_number, group_code,
		group_deadline, current_assembly, info_date, quota_status, asset_type,
		acquisition_date, cancel_date, adm_fee, fund_reservation_fee, total_installments,
		multiple_ownership, old_quota_number, old_digit, quota_plan, installments_paid_number,
		overdue_installments_number, overdue_percentage, per_amount_paid, per_mutual_fund_paid,
		per_adm_paid, per_reserve_fund_paid, amnt_to_pay, amnt_paid, adjustment_date,
		asset_adm_code, asset_description, asset_value, owner_document, owner_person_type,
		owner_name, owner_email, joint_owner_document, joint_owner_person_type, joint_owner_name,
		ddd_1, phone_1, ddd_2, phone_2, ddd_3, phone_3, ddd_4, phone_4, ddd_5, phone_5, ddd_6, phone_6`)

	raw := []santanderRow{}
	if err := r.db.SelectContext(ctx, &raw, query, limit); err != nil {
		return nil, err
	}

	rows := make([]etl.QuotaRow, 0, len(raw))
	for i := range raw {
		rows = append(rows, raw[i].toQuotaRow())
	}
	return rows, nil
}

func (r *SantanderReader) MarkProcessed(ctx context.Context, tx sqlx.ExtContext, stageIDs []int64) error {
	return markProcessed(ctx, tx, santanderTable, stageIDs)
}

func (sr *santanderRow) toQuotaRow() etl.QuotaRow {
	infoDate := parseBRDate(sr.InfoDate)
	if infoDate == nil {
		// Keep the zero value; the reconciler drops zero-dated rows.
		epoch := time.Time{}
		infoDate = &epoch
	}

	row := etl.QuotaRow{
		StageID:            sr.ID,
		ExternalReference:  sr.ExternalReference,
		ContractNumber:     sr.ContractNumber,
		QuotaNumber:        sr.QuotaNumber,
		GroupCode:          sr.GroupCode,
		GroupDeadline:      parseInt(deref(sr.GroupDeadline)),
		CurrentAssembly:    parseInt(deref(sr.CurrentAssembly)),
		InfoDate:           *infoDate,
		StatusRaw:          deref(sr.QuotaStatus),
		AssetTypeRaw:       deref(sr.AssetType),
		AcquisitionDate:    parseBRDate(deref(sr.AcquisitionDate)),
		CancelDate:         parseBRDate(deref(sr.CancelDate)),
		AdmFeePercentage:   parseBRFloat(deref(sr.AdmFee)),
		FundReservationFee: parseBRFloat(deref(sr.FundReservationFee)),
		TotalInstallments:  parseInt(deref(sr.TotalInstallments)),
		MultipleOwnership:  parseBool(deref(sr.MultipleOwnership)),
	}

	f := &row.Fields
	f.OldQuotaNumber = sr.OldQuotaNumber
	f.OldDigit = sr.OldDigit
	f.QuotaPlan = sr.QuotaPlan
	f.InstallmentsPaidNumber = parseInt(deref(sr.InstallmentsPaid))
	f.OverdueInstallmentsNumber = parseInt(deref(sr.OverdueInstallments))
	f.OverduePercentage = parseBRFloat(deref(sr.OverduePercentage))
	f.PerAmountPaid = parseBRFloat(deref(sr.PerAmountPaid))
	f.PerMutualFundPaid = parseBRFloat(deref(sr.PerMutualFundPaid))
	f.PerAdmPaid = parseBRFloat(deref(sr.PerAdmPaid))
	f.PerReserveFundPaid = parseBRFloat(deref(sr.PerReserveFundPaid))
	f.AmntToPay = parseBRFloat(deref(sr.AmntToPay))
	f.AmntPaid = parseBRFloat(deref(sr.AmntPaid))
	f.AdjustmentDate = parseBRDate(deref(sr.AdjustmentDate))
	f.CurrentAssemblyDate = infoDate
	f.CurrentAssemblyNumber = row.CurrentAssembly
	f.AssetAdmCode = sr.AssetAdmCode
	f.AssetDescription = sr.AssetDescription
	f.AssetValue = parseBRFloat(deref(sr.AssetValue))

	row.Owners = sr.owners()
	if len(row.Owners) > 1 {
		multiple := true
		row.MultipleOwnership = &multiple
	}
	return row
}

func (sr *santanderRow) owners() []etl.Owner {
	owners := []etl.Owner{}

	if sr.OwnerDocument != nil {
		main := etl.Owner{
			Document:   *sr.OwnerDocument,
			PersonType: deref(sr.OwnerPersonType),
			Name:       deref(sr.OwnerName),
			Email:      deref(sr.OwnerEmail),
			MainOwner:  true,
		}
		pairs := [][2]*string{
			{sr.DDD1, sr.Phone1}, {sr.DDD2, sr.Phone2}, {sr.DDD3, sr.Phone3},
			{sr.DDD4, sr.Phone4}, {sr.DDD5, sr.Phone5}, {sr.DDD6, sr.Phone6},
		}
		for _, pair := range pairs {
			if pair[1] == nil || *pair[1] == "" {
				continue
			}
			main.Phones = append(main.Phones, etl.Phone{AreaCode: deref(pair[0]), Number: *pair[1]})
		}
		owners = append(owners, main)
	}

	if sr.JointDocument != nil {
		owners = append(owners, etl.Owner{
			Document:   *sr.JointDocument,
			PersonType: deref(sr.JointPersonType),
			Name:       deref(sr.JointName),
		})
	}
	return owners
}
