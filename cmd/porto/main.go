package main

import (
	"context"

	"github.com/cotahub/mdcota-etl/internal/config"
	"github.com/cotahub/mdcota-etl/internal/db"
	"github.com/cotahub/mdcota-etl/internal/etl"
	"github.com/cotahub/mdcota-etl/internal/logger"
	"github.com/cotahub/mdcota-etl/internal/stage"
	"github.com/cotahub/mdcota-etl/internal/store"
)

const component = "Main"

func portoSource() *etl.SourceConfig {
	return &etl.SourceConfig{
		Name:              "porto",
		AdministratorCode: "PORTO SEGURO ADM. CONS. LTDA",
		DataSourceCode:    "FILE",
		OriginID:          etl.OriginAdmFile,
		GroupCodeWidth:    5,
		AssetTypeMap: map[string]int{
			"PESADOS":     etl.AssetTypeHeavyVehicle,
			"CAMINHAO":    etl.AssetTypeHeavyVehicle,
			"AUTOMOVEL":   etl.AssetTypeLightVehicle,
			"AUTO":        etl.AssetTypeLightVehicle,
			"MOTOCICLETA": etl.AssetTypeMotorcycle,
			"MOTO":        etl.AssetTypeMotorcycle,
			"IMOVEL":      etl.AssetTypeRealEstate,
		},
	}
}

// Porto Seguro delivers group information only: per-group asset, winning bid
// and vacancy counts arrive as a CSV that is staged and then drained like any
// other staging table. No quota records flow through this job.
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
		if _, err := stage.LoadGroupInfoCSV(ctx, pool, appLogger, cfg.InputFile, "stage_raw.group_info_porto_pre"); err != nil {
			appLogger.Fatal(component, "Staging file load failed: error=%v", err)
		}
	}

	st := store.NewStorage(pool)
	src := portoSource()

	lookups, err := etl.LoadLookups(ctx, st, src.AdministratorCode, src.DataSourceCode)
	if err != nil {
		appLogger.Fatal(component, "Reference data load failed: error=%v", err)
	}

	job := &etl.Job{
		DB:        pool,
		Engine:    etl.NewEngine(src, lookups, appLogger, nil),
		Log:       appLogger,
		BatchSize: cfg.BatchSize,
		GroupInfo: stage.NewPortoGroupInfoReader(pool),
	}
	if err := job.Run(ctx); err != nil {
		appLogger.Fatal(component, "Job failed: error=%v", err)
	}
}
