package store

import (
	"time"
)

// Administrator represents the 'md_cota.pl_administrator' table. Static
// reference data, one row per consortium administrator.
type Administrator struct {
	ID         int       `db:"administrator_id"`
	Code       string    `db:"administrator_code"`
	Desc       string    `db:"administrator_desc"`
	CreatedAt  time.Time `db:"created_at"`
	ModifiedAt time.Time `db:"modified_at"`
}

// DataSource represents the 'md_cota.pl_data_source' table. Identifies where
// a value came from (administrator file, customer file, API).
type DataSource struct {
	ID   int    `db:"data_source_id"`
	Code string `db:"data_source_code"`
	Desc string `db:"data_source_desc"`
}

// Group represents the 'md_cota.pl_group' table, keyed by
// (administrator_id, group_code). Updated in place, not versioned.
type Group struct {
	ID                    int64      `db:"group_id"`
	GroupCode             string     `db:"group_code"`
	AdministratorID       int        `db:"administrator_id"`
	GroupDeadline         *int       `db:"group_deadline"`
	GroupStartDate        *time.Time `db:"group_start_date"`
	GroupClosingDate      *time.Time `db:"group_closing_date"`
	CurrentAssemblyDate   *time.Time `db:"current_assembly_date"`
	CurrentAssemblyNumber *int       `db:"current_assembly_number"`
	CreatedAt             time.Time  `db:"created_at"`
	ModifiedAt            time.Time  `db:"modified_at"`
}

// Quota represents the 'md_cota.pl_quota' table. Created once per
// external_reference within an administrator; mutable summary fields are
// updated only when a strictly newer info_date arrives.
type Quota struct {
	ID                 int64      `db:"quota_id"`
	QuotaCode          string     `db:"quota_code"`
	ExternalReference  string     `db:"external_reference"`
	AdministratorID    int        `db:"administrator_id"`
	GroupID            int64      `db:"group_id"`
	QuotaOriginID      int        `db:"quota_origin_id"`
	QuotaPersonTypeID  *int       `db:"quota_person_type_id"`
	QuotaStatusTypeID  int        `db:"quota_status_type_id"`
	QuotaNumber        *string    `db:"quota_number"`
	CheckDigit         *string    `db:"check_digit"`
	ContractNumber     *string    `db:"contract_number"`
	IsContemplated     bool       `db:"is_contemplated"`
	IsMultipleOwner    *bool      `db:"is_multiple_ownership"`
	AdmFeePercentage   *float64   `db:"adm_fee_percentage"`
	FundReservationFee *float64   `db:"fund_reservation_fee_percentage"`
	TotalInstallments  *int       `db:"total_installments"`
	CancelDate         *time.Time `db:"cancel_date"`
	AcquisitionDate    *time.Time `db:"acquisition_date"`
	InfoDate           time.Time  `db:"info_date"`
	CreatedAt          time.Time  `db:"created_at"`
	ModifiedAt         time.Time  `db:"modified_at"`
}

// QuotaStatus represents the 'md_cota.pl_quota_status' table: append-only
// status history, at most one open row (valid_to IS NULL) per quota.
type QuotaStatus struct {
	ID                int64      `db:"quota_status_id"`
	QuotaID           int64      `db:"quota_id"`
	QuotaStatusTypeID int        `db:"quota_status_type_id"`
	ValidFrom         time.Time  `db:"valid_from"`
	ValidTo           *time.Time `db:"valid_to"`
	CreatedAt         time.Time  `db:"created_at"`
}

// QuotaHistoryDetail represents the 'md_cota.pl_quota_history_detail' table:
// an open-interval snapshot of the quota's financial and asset fields as of
// info_date. Same single-open-row invariant as QuotaStatus. Snapshot columns
// are nullable; nil means the source never supplied the field.
type QuotaHistoryDetail struct {
	ID        int64      `db:"quota_history_detail_id"`
	QuotaID   int64      `db:"quota_id"`
	InfoDate  time.Time  `db:"info_date"`
	ValidFrom time.Time  `db:"valid_from"`
	ValidTo   *time.Time `db:"valid_to"`
	CreatedAt time.Time  `db:"created_at"`

	HistoryFields
}

// HistoryFields is the snapshot payload shared by the history table and the
// staged rows that feed it.
type HistoryFields struct {
	OldQuotaNumber            *string    `db:"old_quota_number"`
	OldDigit                  *string    `db:"old_digit"`
	QuotaPlan                 *string    `db:"quota_plan"`
	InstallmentsPaidNumber    *int       `db:"installments_paid_number"`
	OverdueInstallmentsNumber *int       `db:"overdue_installments_number"`
	OverduePercentage         *float64   `db:"overdue_percentage"`
	PerAmountPaid             *float64   `db:"per_amount_paid"`
	PerMutualFundPaid         *float64   `db:"per_mutual_fund_paid"`
	PerAdmPaid                *float64   `db:"per_adm_paid"`
	PerReserveFundPaid        *float64   `db:"per_reserve_fund_paid"`
	PerMutualFundToPay        *float64   `db:"per_mutual_fund_to_pay"`
	PerAdmToPay               *float64   `db:"per_adm_to_pay"`
	PerReserveFundToPay       *float64   `db:"per_reserve_fund_to_pay"`
	PerInstallDiffToPay       *float64   `db:"per_install_diff_to_pay"`
	PerTotalAmountToPay       *float64   `db:"per_total_amount_to_pay"`
	AmntMutualFundToPay       *float64   `db:"amnt_mutual_fund_to_pay"`
	AmntAdmToPay              *float64   `db:"amnt_adm_to_pay"`
	AmntReserveFundToPay      *float64   `db:"amnt_reserve_fund_to_pay"`
	AmntInstallDiffToPay      *float64   `db:"amnt_install_diff_to_pay"`
	AmntToPay                 *float64   `db:"amnt_to_pay"`
	AmntPaid                  *float64   `db:"amnt_paid"`
	AdjustmentDate            *time.Time `db:"adjustment_date"`
	CurrentAssemblyDate       *time.Time `db:"current_assembly_date"`
	CurrentAssemblyNumber     *int       `db:"current_assembly_number"`
	AssetAdmCode              *string    `db:"asset_adm_code"`
	AssetDescription          *string    `db:"asset_description"`
	AssetValue                *float64   `db:"asset_value"`
	AssetTypeID               *int       `db:"asset_type_id"`
}

// QuotaFieldUpdateDate represents the 'md_cota.pl_quota_field_update_date'
// table: per (quota, history field) bookkeeping of which data source last
// updated the field and with which info date.
type QuotaFieldUpdateDate struct {
	ID                  int64     `db:"quota_field_update_date_id"`
	QuotaID             int64     `db:"quota_id"`
	QuotaHistoryFieldID int       `db:"quota_history_field_id"`
	DataSourceID        int       `db:"data_source_id"`
	UpdateDate          time.Time `db:"update_date"`
	CreatedAt           time.Time `db:"created_at"`
	ModifiedAt          time.Time `db:"modified_at"`
}

// QuotaOwner represents the 'md_cota.pl_quota_owner' table: open-interval
// ownership history per quota.
type QuotaOwner struct {
	ID                  int64      `db:"quota_owner_id"`
	QuotaID             int64      `db:"quota_id"`
	PersonCode          string     `db:"person_code"`
	OwnershipPercentage float64    `db:"ownership_percentage"`
	MainOwner           bool       `db:"main_owner"`
	ValidFrom           time.Time  `db:"valid_from"`
	ValidTo             *time.Time `db:"valid_to"`
	CreatedAt           time.Time  `db:"created_at"`
}

// Asset represents the 'md_cota.pl_asset' table: open-interval history of the
// reference asset offered by a group.
type Asset struct {
	ID          int64      `db:"asset_id"`
	GroupID     int64      `db:"group_id"`
	AssetCode   *string    `db:"asset_code"`
	AssetDesc   *string    `db:"asset_desc"`
	AssetValue  float64    `db:"asset_value"`
	AssetTypeID int        `db:"asset_type_id"`
	InfoDate    time.Time  `db:"info_date"`
	ValidFrom   time.Time  `db:"valid_from"`
	ValidTo     *time.Time `db:"valid_to"`
	CreatedAt   time.Time  `db:"created_at"`
}

// Bid represents the 'md_cota.pl_bid' table: open-interval history of the
// winning bid percentage observed for a group assembly.
type Bid struct {
	ID           int64      `db:"bid_id"`
	GroupID      int64      `db:"group_id"`
	Value        float64    `db:"value"`
	AssemblyDate *time.Time `db:"assembly_date"`
	InfoDate     time.Time  `db:"info_date"`
	ValidFrom    time.Time  `db:"valid_from"`
	ValidTo      *time.Time `db:"valid_to"`
	CreatedAt    time.Time  `db:"created_at"`
}

// GroupVacancies represents the 'md_cota.pl_group_vacancies' table:
// open-interval history of open seats in a group.
type GroupVacancies struct {
	ID        int64      `db:"group_vacancies_id"`
	GroupID   int64      `db:"group_id"`
	Vacancies int        `db:"vacancies"`
	InfoDate  time.Time  `db:"info_date"`
	ValidFrom time.Time  `db:"valid_from"`
	ValidTo   *time.Time `db:"valid_to"`
	CreatedAt time.Time  `db:"created_at"`
}
