package config

import (
	"flag"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/cotahub/mdcota-etl/internal/env"
)

// JobConfig carries every parameter a batch job resolves at startup.
// Parameter names mirror the orchestrator's `--name` job arguments; each one
// falls back to an environment variable so local runs work from a .env file.
type JobConfig struct {
	DBAddr       string
	Schema       string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  string

	BatchSize int
	LogLevel  string

	CubeesCustomerLambda string
	EventBusName         string
	AWSRegion            string

	// InputFile is set for sources delivered as CSV files instead of
	// pre-populated staging tables.
	InputFile string
}

// ResolveJob parses the job arguments for one batch binary. Call once from
// main; flag.Parse runs here.
func ResolveJob() *JobConfig {
	// Missing .env is the normal case on the orchestrator.
	_ = godotenv.Load()

	cfg := &JobConfig{}

	defaultAddr := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		env.GetString("DB_USER", "admin"),
		env.GetString("DB_PASS", "helloworld"),
		env.GetString("DB_HOST", "localhost"),
		env.GetInt("DB_PORT", 5432),
		env.GetString("DB_NAME", "md_cota_db"),
		env.GetString("DB_SSLMODE", "disable"),
	)

	flag.StringVar(&cfg.DBAddr, "db-addr", env.GetString("DB_ADDR", defaultAddr), "Postgres connection string")
	flag.StringVar(&cfg.Schema, "db-schema", env.GetString("DB_SCHEMA", "md_cota"), "Destination schema")
	flag.IntVar(&cfg.MaxOpenConns, "db-max-open-conns", env.GetInt("DB_MAX_OPEN_CONNS", 25), "Max open connections")
	flag.IntVar(&cfg.MaxIdleConns, "db-max-idle-conns", env.GetInt("DB_MAX_IDLE_CONNS", 25), "Max idle connections")
	flag.StringVar(&cfg.MaxIdleTime, "db-max-idle-time", env.GetString("DB_MAX_IDLE_TIME", "15m"), "Max connection idle time")

	flag.IntVar(&cfg.BatchSize, "batch-size", env.GetInt("BATCH_SIZE", 500), "Staging rows fetched per batch")
	flag.StringVar(&cfg.LogLevel, "loglevel", env.GetString("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	flag.StringVar(&cfg.CubeesCustomerLambda, "md-cota-cubees-customer-lambda", env.GetString("CUBEES_CUSTOMER_LAMBDA", ""), "Customer-registry Lambda function name")
	flag.StringVar(&cfg.EventBusName, "event-bus-name", env.GetString("EVENT_BUS_NAME", ""), "EventBridge bus for pricing events")
	flag.StringVar(&cfg.AWSRegion, "aws-region", env.GetString("AWS_REGION", "sa-east-1"), "AWS region")

	flag.StringVar(&cfg.InputFile, "input-file", env.GetString("INPUT_FILE", ""), "CSV file to load into staging before processing")

	flag.Parse()
	return cfg
}
