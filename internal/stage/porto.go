package stage

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/cotahub/mdcota-etl/internal/etl"
)

const portoGroupInfoTable = "stage_raw.group_info_porto_pre"

type PortoGroupInfoReader struct {
	db *sqlx.DB
}

func NewPortoGroupInfoReader(db *sqlx.DB) *PortoGroupInfoReader {
	return &PortoGroupInfoReader{db: db}
}

func (r *PortoGroupInfoReader) FetchBatch(ctx context.Context, limit int) ([]etl.GroupInfoRow, error) {
	return fetchGroupInfoBatch(ctx, r.db, portoGroupInfoTable, limit)
}

func (r *PortoGroupInfoReader) MarkProcessed(ctx context.Context, tx sqlx.ExtContext, stageIDs []int64) error {
	return markProcessed(ctx, tx, portoGroupInfoTable, stageIDs)
}
