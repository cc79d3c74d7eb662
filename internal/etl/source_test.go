package etl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSourceConfig() *SourceConfig {
	return &SourceConfig{
		Name:              "test",
		AdministratorCode: "TEST ADM",
		DataSourceCode:    "FILE",
		OriginID:          OriginAdmFile,
		GroupCodeWidth:    5,
		StatusMap: map[string]int{
			"ATIVO":       StatusTypeActive,
			"CONTEMPLADO": StatusTypeContemplated,
			"DESISTENTE":  StatusTypeDropped,
			"EXCLUIDO":    StatusTypeExcluded,
		},
		AssetTypeMap: map[string]int{
			"AUTOMOVEL": AssetTypeLightVehicle,
			"CAMINHAO":  AssetTypeHeavyVehicle,
		},
	}
}

func TestClassifyStatus(t *testing.T) {
	src := testSourceConfig()

	id, known := src.ClassifyStatus("ATIVO")
	require.True(t, known)
	require.Equal(t, StatusTypeActive, id)

	// Lookup normalizes case and surrounding whitespace.
	id, known = src.ClassifyStatus("  contemplado ")
	require.True(t, known)
	require.Equal(t, StatusTypeContemplated, id)
}

func TestClassifyStatusUnknownFallsBack(t *testing.T) {
	src := testSourceConfig()

	id, known := src.ClassifyStatus("SITUACAO INEDITA")
	require.False(t, known)
	require.Equal(t, StatusTypeDefault, id)
}

func TestClassifyAssetTypeUnknownFallsBack(t *testing.T) {
	src := testSourceConfig()

	id, known := src.ClassifyAssetType("automovel")
	require.True(t, known)
	require.Equal(t, AssetTypeLightVehicle, id)

	id, known = src.ClassifyAssetType("TRATOR")
	require.False(t, known)
	require.Equal(t, AssetTypeDefault, id)
}
