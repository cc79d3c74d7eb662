package etl

import "strings"

// Quota status types (md_cota.pl_quota_status_type).
const (
	StatusTypeActive = iota + 1
	StatusTypeContemplated
	StatusTypeDropped
	StatusTypeExcluded
	StatusTypeDefault // unknown bucket
)

// Asset types (md_cota.pl_asset_type).
const (
	AssetTypeHeavyVehicle = iota + 1
	AssetTypeLightVehicle
	AssetTypeMotorcycle
	AssetTypeRealEstate
	AssetTypeDefault // unknown bucket
)

// Quota origins (md_cota.pl_quota_origin).
const (
	OriginAdmFile = iota + 1
	OriginCustomerFile
	OriginAPI
)

// SourceConfig parameterizes the reconciliation engine for one
// administrator: which free-text strings map to which classification codes,
// where new quotas are said to come from, and which behavioral switches the
// source's legacy flow carried.
type SourceConfig struct {
	// Name tags log lines and EventBridge detail types, e.g. "santander".
	Name string

	// AdministratorCode is the pl_administrator natural key.
	AdministratorCode string

	// DataSourceCode identifies the provenance recorded per field, e.g.
	// "FILE" or "API".
	DataSourceCode string

	// OriginID tags new quotas (administrator file, customer file, API).
	OriginID int

	// GroupCodeWidth is the zero-padded width group codes normalize to.
	GroupCodeWidth int

	// StatusMap and AssetTypeMap translate the source's free-text values.
	// Unrecognized values fall into the default bucket instead of failing
	// the batch.
	StatusMap    map[string]int
	AssetTypeMap map[string]int

	// GateGroupUpdates date-gates group deadline/closing-date overwrites.
	// Most legacy flows overwrote unconditionally; the asymmetry is kept
	// per source.
	GateGroupUpdates bool

	// IncrementalFields arrive piecemeal across deliveries and may be
	// backfilled onto an open snapshot even when the whole-row info_date
	// gate rejects the update.
	IncrementalFields []int

	// EventDetailType tags the quota_code_list events for the pricing
	// pipeline downstream.
	EventDetailType string
}

// ClassifyStatus maps a source status string to a status type id, falling
// back to the default bucket for unrecognized values.
func (c *SourceConfig) ClassifyStatus(raw string) (int, bool) {
	if id, ok := c.StatusMap[normalizeKey(raw)]; ok {
		return id, true
	}
	return StatusTypeDefault, false
}

// ClassifyAssetType maps a source asset description to an asset type id,
// falling back to the default bucket.
func (c *SourceConfig) ClassifyAssetType(raw string) (int, bool) {
	if id, ok := c.AssetTypeMap[normalizeKey(raw)]; ok {
		return id, true
	}
	return AssetTypeDefault, false
}

func normalizeKey(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
