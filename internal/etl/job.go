package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cotahub/mdcota-etl/internal/logger"
	"github.com/cotahub/mdcota-etl/internal/store"
)

// QuotaSource feeds staged quota rows to the engine. FetchBatch returns only
// unprocessed rows; MarkProcessed runs inside the batch transaction so the
// flag flips together with the row's writes.
type QuotaSource interface {
	FetchBatch(ctx context.Context, limit int) ([]QuotaRow, error)
	MarkProcessed(ctx context.Context, tx sqlx.ExtContext, stageIDs []int64) error
}

// GroupInfoSource is the group-information counterpart of QuotaSource.
type GroupInfoSource interface {
	FetchBatch(ctx context.Context, limit int) ([]GroupInfoRow, error)
	MarkProcessed(ctx context.Context, tx sqlx.ExtContext, stageIDs []int64) error
}

// PricingPublisher emits the processed quota codes for the downstream
// pricing pipeline once the run finishes.
type PricingPublisher interface {
	PublishQuotaCodes(ctx context.Context, detailType string, quotaCodes []string) error
}

// Job drives one batch run: fetch unprocessed staging rows, reconcile them
// inside a per-batch transaction, flip is_processed, commit, repeat until the
// staging table is drained. Any error rolls the current batch back and fails
// the job loudly.
type Job struct {
	DB        *sqlx.DB
	Engine    *Engine
	Log       *logger.Logger
	BatchSize int

	Quotas    QuotaSource
	GroupInfo GroupInfoSource

	Publisher PricingPublisher
}

const componentJob = "Job"

func (j *Job) Run(ctx context.Context) error {
	started := time.Now()
	src := j.Engine.src
	j.Log.Info(componentJob, "Job starting: source=%s batchSize=%d", src.Name, j.BatchSize)

	total := 0
	for {
		processed, err := j.runBatch(ctx)
		if err != nil {
			return err
		}
		if processed == 0 {
			break
		}
		total += processed
		j.Log.Info(componentJob, "Batch committed: source=%s rows=%d total=%d", src.Name, processed, total)
	}

	if j.Publisher != nil {
		codes := j.Engine.ProcessedQuotaCodes()
		if len(codes) > 0 {
			// Pricing events are best-effort; the data is already
			// committed.
			if err := j.Publisher.PublishQuotaCodes(ctx, src.EventDetailType, codes); err != nil {
				j.Log.Error(componentJob, "Pricing event emission failed: source=%s codes=%d error=%v", src.Name, len(codes), err)
			}
		}
	}

	j.Log.Info(componentJob, "Job finished: source=%s rows=%d duration=%.2fs", src.Name, total, time.Since(started).Seconds())
	return nil
}

func (j *Job) runBatch(ctx context.Context) (int, error) {
	switch {
	case j.Quotas != nil:
		rows, err := j.Quotas.FetchBatch(ctx, j.BatchSize)
		if err != nil {
			return 0, fmt.Errorf("fetch staging batch: %w", err)
		}
		if len(rows) == 0 {
			return 0, nil
		}
		return len(rows), j.inTx(ctx, func(tx *sqlx.Tx, st *store.Storage) error {
			stageIDs := make([]int64, 0, len(rows))
			for i := range rows {
				if err := j.Engine.ProcessQuotaRow(ctx, st, &rows[i]); err != nil {
					return fmt.Errorf("stage row %d: %w", rows[i].StageID, err)
				}
				stageIDs = append(stageIDs, rows[i].StageID)
			}
			return j.Quotas.MarkProcessed(ctx, tx, stageIDs)
		})

	case j.GroupInfo != nil:
		rows, err := j.GroupInfo.FetchBatch(ctx, j.BatchSize)
		if err != nil {
			return 0, fmt.Errorf("fetch staging batch: %w", err)
		}
		if len(rows) == 0 {
			return 0, nil
		}
		return len(rows), j.inTx(ctx, func(tx *sqlx.Tx, st *store.Storage) error {
			stageIDs := make([]int64, 0, len(rows))
			for i := range rows {
				if err := j.Engine.ProcessGroupInfoRow(ctx, st, &rows[i]); err != nil {
					return fmt.Errorf("stage row %d: %w", rows[i].StageID, err)
				}
				stageIDs = append(stageIDs, rows[i].StageID)
			}
			return j.GroupInfo.MarkProcessed(ctx, tx, stageIDs)
		})
	}

	return 0, fmt.Errorf("job has no staging source configured")
}

func (j *Job) inTx(ctx context.Context, fn func(tx *sqlx.Tx, st *store.Storage) error) error {
	tx, err := j.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch transaction: %w", err)
	}

	if err := fn(tx, store.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			j.Log.Error(componentJob, "Rollback failed: error=%v", rbErr)
		}
		return err
	}
	return tx.Commit()
}
