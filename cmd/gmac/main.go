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

func gmacSource() *etl.SourceConfig {
	return &etl.SourceConfig{
		Name:              "gmac",
		AdministratorCode: "GMAC ADM. CONS. LTDA",
		DataSourceCode:    "FILE",
		OriginID:          etl.OriginAdmFile,
		GroupCodeWidth:    4,
		StatusMap: map[string]int{
			"ATIVO":          etl.StatusTypeActive,
			"ATIVA":          etl.StatusTypeActive,
			"CONTEMPLADA":    etl.StatusTypeContemplated,
			"CONTEMPLADO":    etl.StatusTypeContemplated,
			"DESISTENTE":     etl.StatusTypeDropped,
			"CANCELADA":      etl.StatusTypeDropped,
			"EXCLUIDA":       etl.StatusTypeExcluded,
			"INADIMPLENTE":   etl.StatusTypeExcluded,
			"QUITADA":        etl.StatusTypeActive,
			"ENCERRADA":      etl.StatusTypeExcluded,
			"TRANSFERIDA":    etl.StatusTypeActive,
			"CONTRATO ATIVO": etl.StatusTypeActive,
		},
		AssetTypeMap: map[string]int{
			"CAMINHOES":   etl.AssetTypeHeavyVehicle,
			"CAMINHAO":    etl.AssetTypeHeavyVehicle,
			"ONIBUS":      etl.AssetTypeHeavyVehicle,
			"AUTOMOVEL":   etl.AssetTypeLightVehicle,
			"VEICULO":     etl.AssetTypeLightVehicle,
			"PICAPE":      etl.AssetTypeLightVehicle,
			"MOTOCICLETA": etl.AssetTypeMotorcycle,
		},
		IncrementalFields: []int{
			etl.FieldPerMutualFundToPay,
			etl.FieldPerAdmToPay,
			etl.FieldPerReserveFundToPay,
			etl.FieldAmntMutualFundToPay,
			etl.FieldAmntAdmToPay,
			etl.FieldAmntReserveFundToPay,
			etl.FieldAmntToPay,
		},
		EventDetailType: "quota_code_list_gmac",
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
	src := gmacSource()

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
		Quotas:    stage.NewGMACReader(pool),
		Publisher: events.New(awsCfg, cfg.EventBusName, appLogger),
	}
	if err := job.Run(ctx); err != nil {
		appLogger.Fatal(component, "Job failed: error=%v", err)
	}
}
