package etl

import (
	"github.com/cotahub/mdcota-etl/internal/store"
)

// History field ids, matching md_cota.pl_quota_history_field. The ids are
// persisted in pl_quota_field_update_date, so the numbering is part of the
// storage contract.
const (
	FieldOldQuotaNumber = iota + 1
	FieldOldDigit
	FieldQuotaPlan
	FieldInstallmentsPaidNumber
	FieldOverdueInstallmentsNumber
	FieldOverduePercentage
	FieldPerAmountPaid
	FieldPerMutualFundPaid
	FieldPerAdmPaid
	FieldPerReserveFundPaid
	FieldPerMutualFundToPay
	FieldPerAdmToPay
	FieldPerReserveFundToPay
	FieldPerInstallDiffToPay
	FieldPerTotalAmountToPay
	FieldAmntMutualFundToPay
	FieldAmntAdmToPay
	FieldAmntReserveFundToPay
	FieldAmntInstallDiffToPay
	FieldAmntToPay
	FieldAmntPaid
	FieldAdjustmentDate
	FieldCurrentAssemblyDate
	FieldCurrentAssemblyNumber
	FieldAssetAdmCode
	FieldAssetDescription
	FieldAssetValue
	FieldAssetTypeID
)

type fieldDescriptor struct {
	id    int
	name  string
	isSet func(h *store.HistoryFields) bool
	copy  func(dst, src *store.HistoryFields)
}

var historyFields = []fieldDescriptor{
	{FieldOldQuotaNumber, "old_quota_number",
		func(h *store.HistoryFields) bool { return h.OldQuotaNumber != nil },
		func(d, s *store.HistoryFields) { d.OldQuotaNumber = s.OldQuotaNumber }},
	{FieldOldDigit, "old_digit",
		func(h *store.HistoryFields) bool { return h.OldDigit != nil },
		func(d, s *store.HistoryFields) { d.OldDigit = s.OldDigit }},
	{FieldQuotaPlan, "quota_plan",
		func(h *store.HistoryFields) bool { return h.QuotaPlan != nil },
		func(d, s *store.HistoryFields) { d.QuotaPlan = s.QuotaPlan }},
	{FieldInstallmentsPaidNumber, "installments_paid_number",
		func(h *store.HistoryFields) bool { return h.InstallmentsPaidNumber != nil },
		func(d, s *store.HistoryFields) { d.InstallmentsPaidNumber = s.InstallmentsPaidNumber }},
	{FieldOverdueInstallmentsNumber, "overdue_installments_number",
		func(h *store.HistoryFields) bool { return h.OverdueInstallmentsNumber != nil },
		func(d, s *store.HistoryFields) { d.OverdueInstallmentsNumber = s.OverdueInstallmentsNumber }},
	{FieldOverduePercentage, "overdue_percentage",
		func(h *store.HistoryFields) bool { return h.OverduePercentage != nil },
		func(d, s *store.HistoryFields) { d.OverduePercentage = s.OverduePercentage }},
	{FieldPerAmountPaid, "per_amount_paid",
		func(h *store.HistoryFields) bool { return h.PerAmountPaid != nil },
		func(d, s *store.HistoryFields) { d.PerAmountPaid = s.PerAmountPaid }},
	{FieldPerMutualFundPaid, "per_mutual_fund_paid",
		func(h *store.HistoryFields) bool { return h.PerMutualFundPaid != nil },
		func(d, s *store.HistoryFields) { d.PerMutualFundPaid = s.PerMutualFundPaid }},
	{FieldPerAdmPaid, "per_adm_paid",
		func(h *store.HistoryFields) bool { return h.PerAdmPaid != nil },
		func(d, s *store.HistoryFields) { d.PerAdmPaid = s.PerAdmPaid }},
	{FieldPerReserveFundPaid, "per_reserve_fund_paid",
		func(h *store.HistoryFields) bool { return h.PerReserveFundPaid != nil },
		func(d, s *store.HistoryFields) { d.PerReserveFundPaid = s.PerReserveFundPaid }},
	{FieldPerMutualFundToPay, "per_mutual_fund_to_pay",
		func(h *store.HistoryFields) bool { return h.PerMutualFundToPay != nil },
		func(d, s *store.HistoryFields) { d.PerMutualFundToPay = s.PerMutualFundToPay }},
	{FieldPerAdmToPay, "per_adm_to_pay",
		func(h *store.HistoryFields) bool { return h.PerAdmToPay != nil },
		func(d, s *store.HistoryFields) { d.PerAdmToPay = s.PerAdmToPay }},
	{FieldPerReserveFundToPay, "per_reserve_fund_to_pay",
		func(h *store.HistoryFields) bool { return h.PerReserveFundToPay != nil },
		func(d, s *store.HistoryFields) { d.PerReserveFundToPay = s.PerReserveFundToPay }},
	{FieldPerInstallDiffToPay, "per_install_diff_to_pay",
		func(h *store.HistoryFields) bool { return h.PerInstallDiffToPay != nil },
		func(d, s *store.HistoryFields) { d.PerInstallDiffToPay = s.PerInstallDiffToPay }},
	{FieldPerTotalAmountToPay, "per_total_amount_to_pay",
		func(h *store.HistoryFields) bool { return h.PerTotalAmountToPay != nil },
		func(d, s *store.HistoryFields) { d.PerTotalAmountToPay = s.PerTotalAmountToPay }},
	{FieldAmntMutualFundToPay, "amnt_mutual_fund_to_pay",
		func(h *store.HistoryFields) bool { return h.AmntMutualFundToPay != nil },
		func(d, s *store.HistoryFields) { d.AmntMutualFundToPay = s.AmntMutualFundToPay }},
	{FieldAmntAdmToPay, "amnt_adm_to_pay",
		func(h *store.HistoryFields) bool { return h.AmntAdmToPay != nil },
		func(d, s *store.HistoryFields) { d.AmntAdmToPay = s.AmntAdmToPay }},
	{FieldAmntReserveFundToPay, "amnt_reserve_fund_to_pay",
		func(h *store.HistoryFields) bool { return h.AmntReserveFundToPay != nil },
		func(d, s *store.HistoryFields) { d.AmntReserveFundToPay = s.AmntReserveFundToPay }},
	{FieldAmntInstallDiffToPay, "amnt_install_diff_to_pay",
		func(h *store.HistoryFields) bool { return h.AmntInstallDiffToPay != nil },
		func(d, s *store.HistoryFields) { d.AmntInstallDiffToPay = s.AmntInstallDiffToPay }},
	{FieldAmntToPay, "amnt_to_pay",
		func(h *store.HistoryFields) bool { return h.AmntToPay != nil },
		func(d, s *store.HistoryFields) { d.AmntToPay = s.AmntToPay }},
	{FieldAmntPaid, "amnt_paid",
		func(h *store.HistoryFields) bool { return h.AmntPaid != nil },
		func(d, s *store.HistoryFields) { d.AmntPaid = s.AmntPaid }},
	{FieldAdjustmentDate, "adjustment_date",
		func(h *store.HistoryFields) bool { return h.AdjustmentDate != nil },
		func(d, s *store.HistoryFields) { d.AdjustmentDate = s.AdjustmentDate }},
	{FieldCurrentAssemblyDate, "current_assembly_date",
		func(h *store.HistoryFields) bool { return h.CurrentAssemblyDate != nil },
		func(d, s *store.HistoryFields) { d.CurrentAssemblyDate = s.CurrentAssemblyDate }},
	{FieldCurrentAssemblyNumber, "current_assembly_number",
		func(h *store.HistoryFields) bool { return h.CurrentAssemblyNumber != nil },
		func(d, s *store.HistoryFields) { d.CurrentAssemblyNumber = s.CurrentAssemblyNumber }},
	{FieldAssetAdmCode, "asset_adm_code",
		func(h *store.HistoryFields) bool { return h.AssetAdmCode != nil },
		func(d, s *store.HistoryFields) { d.AssetAdmCode = s.AssetAdmCode }},
	{FieldAssetDescription, "asset_description",
		func(h *store.HistoryFields) bool { return h.AssetDescription != nil },
		func(d, s *store.HistoryFields) { d.AssetDescription = s.AssetDescription }},
	{FieldAssetValue, "asset_value",
		func(h *store.HistoryFields) bool { return h.AssetValue != nil },
		func(d, s *store.HistoryFields) { d.AssetValue = s.AssetValue }},
	{FieldAssetTypeID, "asset_type_id",
		func(h *store.HistoryFields) bool { return h.AssetTypeID != nil },
		func(d, s *store.HistoryFields) { d.AssetTypeID = s.AssetTypeID }},
}

var fieldByID = func() map[int]fieldDescriptor {
	m := make(map[int]fieldDescriptor, len(historyFields))
	for _, f := range historyFields {
		m[f.id] = f
	}
	return m
}()

// SetFieldIDs returns the ids of every populated field in h, in registry
// order.
func SetFieldIDs(h *store.HistoryFields) []int {
	ids := []int{}
	for _, f := range historyFields {
		if f.isSet(h) {
			ids = append(ids, f.id)
		}
	}
	return ids
}

// MergeFields copies every populated field of src onto dst, leaving dst's
// values in place where src is silent. Used when reopening a history snapshot
// so previously stored fields survive a partial update.
func MergeFields(dst, src *store.HistoryFields) {
	for _, f := range historyFields {
		if f.isSet(src) {
			f.copy(dst, src)
		}
	}
}

func fieldIsSet(h *store.HistoryFields, fieldID int) bool {
	f, ok := fieldByID[fieldID]
	if !ok {
		return false
	}
	return f.isSet(h)
}

func copyField(dst, src *store.HistoryFields, fieldID int) {
	if f, ok := fieldByID[fieldID]; ok {
		f.copy(dst, src)
	}
}
