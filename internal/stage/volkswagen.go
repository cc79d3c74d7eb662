package stage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cotahub/mdcota-etl/internal/etl"
)

const (
	volkswagenTable          = "stage_raw.quotas_volkswagen_pre"
	volkswagenGroupInfoTable = "stage_raw.group_info_volkswagen_pre"
)

// volkswagenRow mirrors stage_raw.quotas_volkswagen_pre.
type volkswagenRow struct {
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
	AcquisitionDate   *string `db:"acquisition_date"`
	AdmFee            *string `db:"adm_fee"`
	TotalInstallments *string `db:"total_installments"`

	PerAmountPaid     *string `db:"per_amount_paid"`
	PerMutualFundPaid *string `db:"per_mutual_fund_paid"`
	PerAdmPaid        *string `db:"per_adm_paid"`
	AmntToPay         *string `db:"amnt_to_pay"`
	AmntPaid          *string `db:"amnt_paid"`
	AssetDescription  *string `db:"asset_description"`
	AssetValue        *string `db:"asset_value"`

	OwnerDocument   *string `db:"owner_document"`
	OwnerPersonType *string `db:"owner_person_type"`
	OwnerName       *string `db:"owner_name"`
	OwnerEmail      *string `db:"owner_email"`
	DDD1            *string `db:"ddd_1"`
	Phone1          *string `db:"phone_1"`
}

type VolkswagenReader struct {
	db *sqlx.DB
}

func NewVolkswagenReader(db *sqlx.DB) *VolkswagenReader {
	return &VolkswagenReader{db: db}
}

func (r *VolkswagenReader) FetchBatch(ctx context.Context, limit int) ([]etl.QuotaRow, error) {
	query := batchQuery(volkswagenTable, `id, external_reference, contract_number, quota_number, group_code,
		group_deadline, current_assembly, info_date, quota_status, asset_type,
		acquisition_date, adm_fee, total_installments, per_amount_paid, per_mutual_fund_paid,
		per_adm_paid, amnt_to_pay, amnt_paid, asset_description, asset_value,
		owner_document, owner_person_type, owner_name, owner_email, ddd_1, phone_1`)

	raw := []volkswagenRow{}
	if err := r.db.SelectContext(ctx, &raw, query, limit); err != nil {
		return nil, err
	}

	rows := make([]etl.QuotaRow, 0, len(raw))
	for i := range raw {
		rows = append(rows, raw[i].toQuotaRow())
	}
	return rows, nil
}

func (r *VolkswagenReader) MarkProcessed(ctx context.Context, tx sqlx.ExtContext, stageIDs []int64) error {
	return markProcessed(ctx, tx, volkswagenTable, stageIDs)
}

func (vr *volkswagenRow) toQuotaRow() etl.QuotaRow {
	infoDate := parseBRDate(vr.InfoDate)
	if infoDate == nil {
		epoch := time.Time{}
		infoDate = &epoch
	}

	row := etl.QuotaRow{
		StageID:           vr.ID,
		ExternalReference: vr.ExternalReference,
		ContractNumber:    vr.ContractNumber,
		QuotaNumber:       vr.QuotaNumber,
		GroupCode:         vr.GroupCode,
		GroupDeadline:     parseInt(deref(vr.GroupDeadline)),
		CurrentAssembly:   parseInt(deref(vr.CurrentAssembly)),
		InfoDate:          *infoDate,
		StatusRaw:         deref(vr.QuotaStatus),
		AssetTypeRaw:      deref(vr.AssetType),
		AcquisitionDate:   parseBRDate(deref(vr.AcquisitionDate)),
		AdmFeePercentage:  parseBRFloat(deref(vr.AdmFee)),
		TotalInstallments: parseInt(deref(vr.TotalInstallments)),
	}

	f := &row.Fields
	f.PerAmountPaid = parseBRFloat(deref(vr.PerAmountPaid))
	f.PerMutualFundPaid = parseBRFloat(deref(vr.PerMutualFundPaid))
	f.PerAdmPaid = parseBRFloat(deref(vr.PerAdmPaid))
	f.AmntToPay = parseBRFloat(deref(vr.AmntToPay))
	f.AmntPaid = parseBRFloat(deref(vr.AmntPaid))
	f.AssetDescription = vr.AssetDescription
	f.AssetValue = parseBRFloat(deref(vr.AssetValue))
	f.CurrentAssemblyDate = infoDate
	f.CurrentAssemblyNumber = row.CurrentAssembly

	if vr.OwnerDocument != nil {
		owner := etl.Owner{
			Document:   *vr.OwnerDocument,
			PersonType: deref(vr.OwnerPersonType),
			Name:       deref(vr.OwnerName),
			Email:      deref(vr.OwnerEmail),
			MainOwner:  true,
		}
		if vr.Phone1 != nil && *vr.Phone1 != "" {
			owner.Phones = append(owner.Phones, etl.Phone{AreaCode: deref(vr.DDD1), Number: *vr.Phone1})
		}
		row.Owners = []etl.Owner{owner}
	}
	return row
}

// groupInfoRow is shared by the Volkswagen and Porto Seguro group-information
// staging tables; both deliver the same layout.
type groupInfoRow struct {
	ID              int64   `db:"id"`
	GroupCode       string  `db:"group_code"`
	GroupDeadline   *string `db:"group_deadline"`
	CurrentAssembly *string `db:"current_assembly"`
	InfoDate        string  `db:"info_date"`
	AssetCode       *string `db:"asset_code"`
	AssetDesc       *string `db:"asset_desc"`
	AssetValue      *string `db:"asset_value"`
	AssetType       *string `db:"asset_type"`
	BidValue        *string `db:"bid_value"`
	AssemblyDate    *string `db:"assembly_date"`
	Vacancies       *string `db:"vacancies"`
}

const groupInfoColumns = `id, group_code, group_deadline, current_assembly, info_date,
	asset_code, asset_desc, asset_value, asset_type, bid_value, assembly_date, vacancies`

func (gi *groupInfoRow) toGroupInfoRow() etl.GroupInfoRow {
	infoDate := parseBRDate(gi.InfoDate)
	if infoDate == nil {
		epoch := time.Time{}
		infoDate = &epoch
	}

	return etl.GroupInfoRow{
		StageID:         gi.ID,
		GroupCode:       gi.GroupCode,
		GroupDeadline:   parseInt(deref(gi.GroupDeadline)),
		CurrentAssembly: parseInt(deref(gi.CurrentAssembly)),
		InfoDate:        *infoDate,
		AssetCode:       gi.AssetCode,
		AssetDesc:       gi.AssetDesc,
		AssetValue:      parseBRFloat(deref(gi.AssetValue)),
		AssetTypeRaw:    deref(gi.AssetType),
		BidValue:        parseBRFloat(deref(gi.BidValue)),
		AssemblyDate:    parseBRDate(deref(gi.AssemblyDate)),
		Vacancies:       parseInt(deref(gi.Vacancies)),
	}
}

type VolkswagenGroupInfoReader struct {
	db *sqlx.DB
}

func NewVolkswagenGroupInfoReader(db *sqlx.DB) *VolkswagenGroupInfoReader {
	return &VolkswagenGroupInfoReader{db: db}
}

func (r *VolkswagenGroupInfoReader) FetchBatch(ctx context.Context, limit int) ([]etl.GroupInfoRow, error) {
	return fetchGroupInfoBatch(ctx, r.db, volkswagenGroupInfoTable, limit)
}

func (r *VolkswagenGroupInfoReader) MarkProcessed(ctx context.Context, tx sqlx.ExtContext, stageIDs []int64) error {
	return markProcessed(ctx, tx, volkswagenGroupInfoTable, stageIDs)
}

func fetchGroupInfoBatch(ctx context.Context, db *sqlx.DB, table string, limit int) ([]etl.GroupInfoRow, error) {
	query := batchQuery(table, groupInfoColumns)

	raw := []groupInfoRow{}
	if err := db.SelectContext(ctx, &raw, query, limit); err != nil {
		return nil, err
	}

	rows := make([]etl.GroupInfoRow, 0, len(raw))
	for i := range raw {
		rows = append(rows, raw[i].toGroupInfoRow())
	}
	return rows, nil
}
