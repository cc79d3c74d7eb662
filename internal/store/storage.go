package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Storage struct {
	Administrator interface {
		GetByCode(ctx context.Context, code string) (*Administrator, error)
	}

	DataSource interface {
		GetIDByCode(ctx context.Context, code string) (int, error)
	}

	Group interface {
		GetByID(ctx context.Context, groupID int64) (*Group, error)
		ListByAdministrator(ctx context.Context, administratorID int) ([]Group, error)
		Insert(ctx context.Context, group *Group) error
		Update(ctx context.Context, group *Group) error
	}

	Quota interface {
		ListByAdministrator(ctx context.Context, administratorID int) ([]Quota, error)
		ListRecent(ctx context.Context, limit int) ([]Quota, error)
		GetByCode(ctx context.Context, code string) (*Quota, error)
		MaxID(ctx context.Context) (int64, error)
		Insert(ctx context.Context, quota *Quota) error
		Update(ctx context.Context, quota *Quota) error
		UpdateCode(ctx context.Context, quotaID int64, code, checkDigit string) error
	}

	QuotaStatus interface {
		GetOpenByQuota(ctx context.Context, quotaID int64) (*QuotaStatus, error)
		CloseOpen(ctx context.Context, quotaID int64, at time.Time) error
		Insert(ctx context.Context, status *QuotaStatus) error
	}

	QuotaHistory interface {
		GetOpenByQuota(ctx context.Context, quotaID int64) (*QuotaHistoryDetail, error)
		CloseOpen(ctx context.Context, quotaID int64, at time.Time) error
		Insert(ctx context.Context, detail *QuotaHistoryDetail) error
		Update(ctx context.Context, detail *QuotaHistoryDetail) error
	}

	QuotaFieldUpdate interface {
		Get(ctx context.Context, quotaID int64, fieldID int) (*QuotaFieldUpdateDate, error)
		Insert(ctx context.Context, fud *QuotaFieldUpdateDate) error
		Update(ctx context.Context, quotaID int64, fieldID, dataSourceID int, updateDate time.Time) error
	}

	QuotaOwner interface {
		GetOpenByQuota(ctx context.Context, quotaID int64) ([]QuotaOwner, error)
		CloseOpen(ctx context.Context, quotaID int64, at time.Time) error
		Insert(ctx context.Context, owner *QuotaOwner) error
	}

	Asset interface {
		GetOpenByGroup(ctx context.Context, groupID int64) (*Asset, error)
		CloseOpen(ctx context.Context, groupID int64, at time.Time) error
		Insert(ctx context.Context, asset *Asset) error
	}

	Bid interface {
		GetOpenByGroup(ctx context.Context, groupID int64) (*Bid, error)
		CloseOpen(ctx context.Context, groupID int64, at time.Time) error
		Insert(ctx context.Context, bid *Bid) error
	}

	GroupVacancies interface {
		GetOpenByGroup(ctx context.Context, groupID int64) (*GroupVacancies, error)
		CloseOpen(ctx context.Context, groupID int64, at time.Time) error
		Insert(ctx context.Context, vacancies *GroupVacancies) error
	}
}

// NewStorage builds the md_cota storage aggregate over a pool.
func NewStorage(db *sqlx.DB) *Storage {
	return newStorage(db)
}

// WithTx rebinds every store to the given transaction so a batch's writes
// commit or roll back together.
func WithTx(tx *sqlx.Tx) *Storage {
	return newStorage(tx)
}

func newStorage(db sqlx.ExtContext) *Storage {
	return &Storage{
		Administrator:    &AdministratorStore{db: db},
		DataSource:       &DataSourceStore{db: db},
		Group:            &GroupStore{db: db},
		Quota:            &QuotaStore{db: db},
		QuotaStatus:      &QuotaStatusStore{db: db},
		QuotaHistory:     &QuotaHistoryStore{db: db},
		QuotaFieldUpdate: &QuotaFieldUpdateStore{db: db},
		QuotaOwner:       &QuotaOwnerStore{db: db},
		Asset:            &AssetStore{db: db},
		Bid:              &BidStore{db: db},
		GroupVacancies:   &GroupVacanciesStore{db: db},
	}
}
