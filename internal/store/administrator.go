package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type AdministratorStore struct {
	db sqlx.ExtContext
}

func (as *AdministratorStore) GetByCode(ctx context.Context, code string) (*Administrator, error) {
	query := `SELECT administrator_id, administrator_code, administrator_desc, created_at, modified_at
	FROM md_cota.pl_administrator
	WHERE administrator_code = $1`

	var adm Administrator
	if err := sqlx.GetContext(ctx, as.db, &adm, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("administrator %s not registered", code)
		}
		return nil, err
	}
	return &adm, nil
}

type DataSourceStore struct {
	db sqlx.ExtContext
}

func (ds *DataSourceStore) GetIDByCode(ctx context.Context, code string) (int, error) {
	query := `SELECT data_source_id FROM md_cota.pl_data_source WHERE data_source_code = $1`

	var id int
	if err := sqlx.GetContext(ctx, ds.db, &id, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("data source %s not registered", code)
		}
		return 0, err
	}
	return id, nil
}
