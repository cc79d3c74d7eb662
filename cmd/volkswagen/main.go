package main

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/cotahub/mdcota-etl/internal/config"
	"github.com/cotahub/mdcota-etl/internal/cubees"
	"github.com/cotahub/mdcota-etl/internal/db"
	"github.com/cotahub/mdcota-etl/internal/etl"
	"github.com/cotahub/mdcota-etl/internal/events"
	"github.com/cotahub/mdcota-etl/internal/logger"
	"github.com/cotahub/mdcota-etl/internal/stage"
	"github.com/cotahub/mdcota-etl/internal/store"
)

const component = "Main"

func volkswagenSource() *etl.SourceConfig {
	return &etl.SourceConfig{
		Name:              "volkswagen",
		AdministratorCode: "CONSORCIO NACIONAL VOLKSWAGEN - ADM. CONS. LTDA",
		DataSourceCode:    "FILE",
		OriginID:          etl.OriginAdmFile,
		GroupCodeWidth:    6,
		StatusMap: map[string]int{
			"ATIVO":            etl.StatusTypeActive,
			"ATIVO EM DIA":     etl.StatusTypeActive,
			"ATIVO EM ATRASO":  etl.StatusTypeActive,
			"CONTEMPLADO":      etl.StatusTypeContemplated,
			"CONTEMPLADO PAGO": etl.StatusTypeContemplated,
			"DESISTENTE":       etl.StatusTypeDropped,
			"CANCELADO":        etl.StatusTypeDropped,
			"EXCLUIDO":         etl.StatusTypeExcluded,
		},
		AssetTypeMap: map[string]int{
			"CAMINHOES":    etl.AssetTypeHeavyVehicle,
			"CAMINHAO":     etl.AssetTypeHeavyVehicle,
			"DELIVERY":     etl.AssetTypeHeavyVehicle,
			"AUTOMOVEIS":   etl.AssetTypeLightVehicle,
			"AUTOMOVEL":    etl.AssetTypeLightVehicle,
			"MOTOCICLETAS": etl.AssetTypeMotorcycle,
		},
		IncrementalFields: []int{
			etl.FieldAssetAdmCode,
			etl.FieldAssetDescription,
			etl.FieldAssetValue,
			etl.FieldAssetTypeID,
			etl.FieldCurrentAssemblyNumber,
		},
		EventDetailType: "quota_code_list_volkswagen",
	}
}

// Volkswagen delivers both a quota file and a group-information file. The
// quota staging table is drained first so group records created there pick up
// the richer schedule data from the group-information pass.
func main() {
	cfg := config.ResolveJob()
	appLogger := logger.New(cfg.LogLevel)
	ctx := context.Background()

	pool, err := db.New(cfg.DBAddr, cfg.Schema, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.MaxIdleTime)
	if err != nil {
		appLogger.Fatal(component, "Database connection failed: error=%v", err)
	}
	defer pool.Close()
	appLogger.Info(component, "Database connection pool established")

	if cfg.InputFile != "" {
		if _, err := stage.LoadGroupInfoCSV(ctx, pool, appLogger, cfg.InputFile, "stage_raw.group_info_volkswagen_pre"); err != nil {
			appLogger.Fatal(component, "Staging file load failed: error=%v", err)
		}
	}

	st := store.NewStorage(pool)
	src := volkswagenSource()

	lookups, err := etl.LoadLookups(ctx, st, src.AdministratorCode, src.DataSourceCode)
	if err != nil {
		appLogger.Fatal(component, "Reference data load failed: error=%v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		appLogger.Fatal(component, "AWS configuration failed: error=%v", err)
	}

	engine := etl.NewEngine(src, lookups, appLogger, cubees.New(awsCfg, cfg.CubeesCustomerLambda, appLogger))

	quotaJob := &etl.Job{
		DB:        pool,
		Engine:    engine,
		Log:       appLogger,
		BatchSize: cfg.BatchSize,
		Quotas:    stage.NewVolkswagenReader(pool),
		Publisher: events.New(awsCfg, cfg.EventBusName, appLogger),
	}
	if err := quotaJob.Run(ctx); err != nil {
		appLogger.Fatal(component, "Quota job failed: error=%v", err)
	}

	groupJob := &etl.Job{
		DB:        pool,
		Engine:    engine,
		Log:       appLogger,
		BatchSize: cfg.BatchSize,
		GroupInfo: stage.NewVolkswagenGroupInfoReader(pool),
	}
	if err := groupJob.Run(ctx); err != nil {
		appLogger.Fatal(component, "Group info job failed: error=%v", err)
	}
}
