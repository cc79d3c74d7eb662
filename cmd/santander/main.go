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

func santanderSource() *etl.SourceConfig {
	return &etl.SourceConfig{
		Name:              "santander",
		AdministratorCode: "SANTANDER ADM. CONS. LTDA",
		DataSourceCode:    "FILE",
		OriginID:          etl.OriginAdmFile,
		GroupCodeWidth:    5,
		StatusMap: map[string]int{
			"ATIVOS":                  etl.StatusTypeActive,
			"NORMAL":                  etl.StatusTypeActive,
			"CONTEMPLADO":             etl.StatusTypeContemplated,
			"CONTEMPLADOS":            etl.StatusTypeContemplated,
			"BEM PENDENTE DE ENTREGA": etl.StatusTypeContemplated,
			"DESISTENTES":             etl.StatusTypeDropped,
			"DESISTENTE":              etl.StatusTypeDropped,
			"EXCLUIDOS":               etl.StatusTypeExcluded,
			"EXCLUIDO":                etl.StatusTypeExcluded,
			"QUITADO":                 etl.StatusTypeActive,
		},
		AssetTypeMap: map[string]int{
			"PESADOS":      etl.AssetTypeHeavyVehicle,
			"CAMINHAO":     etl.AssetTypeHeavyVehicle,
			"AUTOMOVEIS":   etl.AssetTypeLightVehicle,
			"AUTOMOVEL":    etl.AssetTypeLightVehicle,
			"MOTOCICLETAS": etl.AssetTypeMotorcycle,
			"MOTOCICLETA":  etl.AssetTypeMotorcycle,
			"IMOVEIS":      etl.AssetTypeRealEstate,
			"IMOVEL":       etl.AssetTypeRealEstate,
		},
		IncrementalFields: []int{
			etl.FieldAssetAdmCode,
			etl.FieldAssetDescription,
			etl.FieldAssetValue,
			etl.FieldAssetTypeID,
		},
		EventDetailType: "quota_code_list_santander",
	}
}

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

	st := store.NewStorage(pool)
	src := santanderSource()

	lookups, err := etl.LoadLookups(ctx, st, src.AdministratorCode, src.DataSourceCode)
	if err != nil {
		appLogger.Fatal(component, "Reference data load failed: error=%v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		appLogger.Fatal(component, "AWS configuration failed: error=%v", err)
	}

	job := &etl.Job{
		DB:        pool,
		Engine:    etl.NewEngine(src, lookups, appLogger, cubees.New(awsCfg, cfg.CubeesCustomerLambda, appLogger)),
		Log:       appLogger,
		BatchSize: cfg.BatchSize,
		Quotas:    stage.NewSantanderReader(pool),
		Publisher: events.New(awsCfg, cfg.EventBusName, appLogger),
	}
	if err := job.Run(ctx); err != nil {
		appLogger.Fatal(component, "Job failed: error=%v", err)
	}
}
