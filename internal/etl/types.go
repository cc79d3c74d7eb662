package etl

import (
	"time"

	"github.com/cotahub/mdcota-etl/internal/store"
)

// QuotaRow is one staged quota record, already normalized from its
// source-specific staging layout. The engine consumes these regardless of
// which administrator delivered them.
type QuotaRow struct {
	StageID int64

	ExternalReference string
	ContractNumber    *string
	QuotaNumber       *string

	GroupCode       string
	GroupDeadline   *int
	CurrentAssembly *int

	InfoDate        time.Time
	StatusRaw       string
	AssetTypeRaw    string
	PersonTypeID    *int
	AcquisitionDate *time.Time
	CancelDate      *time.Time

	AdmFeePercentage   *float64
	FundReservationFee *float64
	TotalInstallments  *int
	MultipleOwnership  *bool

	Owners []Owner

	Fields store.HistoryFields
}

// Owner is one staged owner of a quota, before document normalization.
type Owner struct {
	Document   string // CPF or CNPJ as delivered
	PersonType string // "F" natural person, "J" legal entity
	Name       string
	MainOwner  bool
	Email      string
	Phones     []Phone
}

type Phone struct {
	AreaCode string
	Number   string
}

// GroupInfoRow is one staged group-information record (Porto Seguro and
// Volkswagen deliver these): per-group asset, winning bid and vacancy counts.
type GroupInfoRow struct {
	StageID int64

	GroupCode       string
	GroupDeadline   *int
	CurrentAssembly *int
	InfoDate        time.Time

	AssetCode    *string
	AssetDesc    *string
	AssetValue   *float64
	AssetTypeRaw string

	BidValue     *float64
	AssemblyDate *time.Time

	Vacancies *int
}
