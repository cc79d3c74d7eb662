package etl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cotahub/mdcota-etl/internal/store"
)

func TestSetFieldIDs(t *testing.T) {
	plan := "A"
	paid := 12
	h := store.HistoryFields{QuotaPlan: &plan, InstallmentsPaidNumber: &paid}

	require.Equal(t, []int{FieldQuotaPlan, FieldInstallmentsPaidNumber}, SetFieldIDs(&h))
	require.Empty(t, SetFieldIDs(&store.HistoryFields{}))
}

func TestMergeFieldsKeepsExistingValues(t *testing.T) {
	oldPlan := "A"
	oldPaid := 10
	dst := store.HistoryFields{QuotaPlan: &oldPlan, InstallmentsPaidNumber: &oldPaid}

	newPaid := 11
	value := 52000.0
	src := store.HistoryFields{InstallmentsPaidNumber: &newPaid, AssetValue: &value}

	MergeFields(&dst, &src)

	require.Equal(t, "A", *dst.QuotaPlan)
	require.Equal(t, 11, *dst.InstallmentsPaidNumber)
	require.Equal(t, 52000.0, *dst.AssetValue)
}

func TestFieldRegistryCoversEveryID(t *testing.T) {
	require.Len(t, historyFields, FieldAssetTypeID)
	for i, f := range historyFields {
		require.Equal(t, i+1, f.id)
		require.NotEmpty(t, f.name)
	}
}
