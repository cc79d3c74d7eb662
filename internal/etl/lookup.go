package etl

import (
	"context"
	"fmt"

	"github.com/cotahub/mdcota-etl/internal/store"
)

// Lookups holds the reference data one job needs, loaded once at start and
// kept in keyed maps so the per-row loop resolves groups and quotas in O(1).
type Lookups struct {
	Administrator *store.Administrator
	DataSourceID  int

	groupsByCode map[string]*store.Group
	quotasByRef  map[string]*store.Quota
}

// LoadLookups reads the administrator, its full group list and its full quota
// list into memory. Administrator-level volumes are thousands of rows, so the
// whole working set fits comfortably.
func LoadLookups(ctx context.Context, st *store.Storage, administratorCode, dataSourceCode string) (*Lookups, error) {
	adm, err := st.Administrator.GetByCode(ctx, administratorCode)
	if err != nil {
		return nil, fmt.Errorf("load administrator: %w", err)
	}

	dataSourceID, err := st.DataSource.GetIDByCode(ctx, dataSourceCode)
	if err != nil {
		return nil, fmt.Errorf("load data source: %w", err)
	}

	groups, err := st.Group.ListByAdministrator(ctx, adm.ID)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}

	quotas, err := st.Quota.ListByAdministrator(ctx, adm.ID)
	if err != nil {
		return nil, fmt.Errorf("load quotas: %w", err)
	}

	lk := &Lookups{
		Administrator: adm,
		DataSourceID:  dataSourceID,
		groupsByCode:  make(map[string]*store.Group, len(groups)),
		quotasByRef:   make(map[string]*store.Quota, len(quotas)),
	}
	for i := range groups {
		lk.groupsByCode[groups[i].GroupCode] = &groups[i]
	}
	for i := range quotas {
		lk.quotasByRef[quotas[i].ExternalReference] = &quotas[i]
	}
	return lk, nil
}

func (lk *Lookups) GroupByCode(code string) *store.Group {
	return lk.groupsByCode[code]
}

func (lk *Lookups) QuotaByReference(ref string) *store.Quota {
	return lk.quotasByRef[ref]
}

func (lk *Lookups) AddGroup(g *store.Group) {
	lk.groupsByCode[g.GroupCode] = g
}

func (lk *Lookups) AddQuota(q *store.Quota) {
	lk.quotasByRef[q.ExternalReference] = q
}
