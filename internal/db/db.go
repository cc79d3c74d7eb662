package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// New opens a Postgres pool. When schema is non-empty the search_path is
// pinned through the DSN so every pooled connection sees the same scoping
// (md_cota entities plus the stage_raw staging tables).
func New(addr, schema string, maxOpenConns, maxIdleConns int, maxIdleTime string) (*sqlx.DB, error) {
	if schema != "" {
		withSchema, err := withSearchPath(addr, schema)
		if err != nil {
			return nil, err
		}
		addr = withSchema
	}

	db, err := sqlx.Open("postgres", addr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	duration, err := time.ParseDuration(maxIdleTime)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxIdleTime(duration)

	return db, nil
}

func withSearchPath(addr, schema string) (string, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("parse database addr: %w", err)
	}
	q := u.Query()
	q.Set("options", fmt.Sprintf("-csearch_path=%s,stage_raw,public", schema))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
