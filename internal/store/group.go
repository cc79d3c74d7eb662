package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type GroupStore struct {
	db sqlx.ExtContext
}

func (gs *GroupStore) GetByID(ctx context.Context, groupID int64) (*Group, error) {
	query := `SELECT group_id, group_code, administrator_id, group_deadline, group_start_date,
		group_closing_date, current_assembly_date, current_assembly_number, created_at, modified_at
	FROM md_cota.pl_group
	WHERE group_id = $1`

	var group Group
	if err := sqlx.GetContext(ctx, gs.db, &group, query, groupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

func (gs *GroupStore) ListByAdministrator(ctx context.Context, administratorID int) ([]Group, error) {
	query := `SELECT group_id, group_code, administrator_id, group_deadline, group_start_date,
		group_closing_date, current_assembly_date, current_assembly_number, created_at, modified_at
	FROM md_cota.pl_group
	WHERE administrator_id = $1`

	groups := []Group{}
	if err := sqlx.SelectContext(ctx, gs.db, &groups, query, administratorID); err != nil {
		return nil, err
	}
	return groups, nil
}

func (gs *GroupStore) Insert(ctx context.Context, group *Group) error {
	query := `INSERT INTO md_cota.pl_group (
		group_code,
		administrator_id,
		group_deadline,
		group_start_date,
		group_closing_date,
		current_assembly_date,
		current_assembly_number,
		created_at,
		modified_at
	) VALUES (
		:group_code,
		:administrator_id,
		:group_deadline,
		:group_start_date,
		:group_closing_date,
		:current_assembly_date,
		:current_assembly_number,
		:created_at,
		:modified_at
	) RETURNING group_id`

	rows, err := sqlx.NamedQueryContext(ctx, gs.db, query, group)
	if err != nil {
		return err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&group.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (gs *GroupStore) Update(ctx context.Context, group *Group) error {
	query := `UPDATE md_cota.pl_group SET
		group_deadline = :group_deadline,
		group_closing_date = :group_closing_date,
		current_assembly_date = :current_assembly_date,
		current_assembly_number = :current_assembly_number,
		modified_at = :modified_at
	WHERE group_id = :group_id`

	_, err := sqlx.NamedExecContext(ctx, gs.db, query, group)
	return err
}
