package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Group-scoped open-interval histories used by the group-info flows:
// reference asset, winning-bid percentage and open vacancies.

type AssetStore struct {
	db sqlx.ExtContext
}

func (as *AssetStore) GetOpenByGroup(ctx context.Context, groupID int64) (*Asset, error) {
	query := `SELECT asset_id, group_id, asset_code, asset_desc, asset_value, asset_type_id,
		info_date, valid_from, valid_to, created_at
	FROM md_cota.pl_asset
	WHERE group_id = $1 AND valid_to IS NULL`

	var asset Asset
	if err := sqlx.GetContext(ctx, as.db, &asset, query, groupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

func (as *AssetStore) CloseOpen(ctx context.Context, groupID int64, at time.Time) error {
	query := `UPDATE md_cota.pl_asset SET valid_to = $1
	WHERE group_id = $2 AND valid_to IS NULL`

	_, err := as.db.ExecContext(ctx, query, at, groupID)
	return err
}

func (as *AssetStore) Insert(ctx context.Context, asset *Asset) error {
	query := `INSERT INTO md_cota.pl_asset (
		group_id,
		asset_code,
		asset_desc,
		asset_value,
		asset_type_id,
		info_date,
		valid_from,
		valid_to,
		created_at
	) VALUES (
		:group_id,
		:asset_code,
		:asset_desc,
		:asset_value,
		:asset_type_id,
		:info_date,
		:valid_from,
		:valid_to,
		:created_at
	)`

	_, err := sqlx.NamedExecContext(ctx, as.db, query, asset)
	return err
}

type BidStore struct {
	db sqlx.ExtContext
}

func (bs *BidStore) GetOpenByGroup(ctx context.Context, groupID int64) (*Bid, error) {
	query := `SELECT bid_id, group_id, value, assembly_date, info_date, valid_from, valid_to, created_at
	FROM md_cota.pl_bid
	WHERE group_id = $1 AND valid_to IS NULL`

	var bid Bid
	if err := sqlx.GetContext(ctx, bs.db, &bid, query, groupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &bid, nil
}

func (bs *BidStore) CloseOpen(ctx context.Context, groupID int64, at time.Time) error {
	query := `UPDATE md_cota.pl_bid SET valid_to = $1
	WHERE group_id = $2 AND valid_to IS NULL`

	_, err := bs.db.ExecContext(ctx, query, at, groupID)
	return err
}

func (bs *BidStore) Insert(ctx context.Context, bid *Bid) error {
	query := `INSERT INTO md_cota.pl_bid (
		group_id,
		value,
		assembly_date,
		info_date,
		valid_from,
		valid_to,
		created_at
	) VALUES (
		:group_id,
		:value,
		:assembly_date,
		:info_date,
		:valid_from,
		:valid_to,
		:created_at
	)`

	_, err := sqlx.NamedExecContext(ctx, bs.db, query, bid)
	return err
}

type GroupVacanciesStore struct {
	db sqlx.ExtContext
}

func (gv *GroupVacanciesStore) GetOpenByGroup(ctx context.Context, groupID int64) (*GroupVacancies, error) {
	query := `SELECT group_vacancies_id, group_id, vacancies, info_date, valid_from, valid_to, created_at
	FROM md_cota.pl_group_vacancies
	WHERE group_id = $1 AND valid_to IS NULL`

	var vac GroupVacancies
	if err := sqlx.GetContext(ctx, gv.db, &vac, query, groupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &vac, nil
}

func (gv *GroupVacanciesStore) CloseOpen(ctx context.Context, groupID int64, at time.Time) error {
	query := `UPDATE md_cota.pl_group_vacancies SET valid_to = $1
	WHERE group_id = $2 AND valid_to IS NULL`

	_, err := gv.db.ExecContext(ctx, query, at, groupID)
	return err
}

func (gv *GroupVacanciesStore) Insert(ctx context.Context, vacancies *GroupVacancies) error {
	query := `INSERT INTO md_cota.pl_group_vacancies (
		group_id,
		vacancies,
		info_date,
		valid_from,
		valid_to,
		created_at
	) VALUES (
		:group_id,
		:vacancies,
		:info_date,
		:valid_from,
		:valid_to,
		:created_at
	)`

	_, err := sqlx.NamedExecContext(ctx, gv.db, query, vacancies)
	return err
}
