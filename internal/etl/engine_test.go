package etl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cotahub/mdcota-etl/internal/logger"
	"github.com/cotahub/mdcota-etl/internal/store"
)

// memDB is an in-memory stand-in for the md_cota tables, shared by the fake
// stores below so tests can assert on what the engine actually wrote.
type memDB struct {
	groups     []store.Group
	quotas     []store.Quota
	statuses   []store.QuotaStatus
	history    []store.QuotaHistoryDetail
	fieldDates []store.QuotaFieldUpdateDate
	owners     []store.QuotaOwner
	assets     []store.Asset
	bids       []store.Bid
	vacancies  []store.GroupVacancies
	nextID     int64
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memDB) storage() *store.Storage {
	return &store.Storage{
		Group:            &memGroupStore{m},
		Quota:            &memQuotaStore{m},
		QuotaStatus:      &memQuotaStatusStore{m},
		QuotaHistory:     &memQuotaHistoryStore{m},
		QuotaFieldUpdate: &memFieldUpdateStore{m},
		QuotaOwner:       &memQuotaOwnerStore{m},
		Asset:            &memAssetStore{m},
		Bid:              &memBidStore{m},
		GroupVacancies:   &memVacanciesStore{m},
	}
}

func (m *memDB) openStatuses(quotaID int64) []store.QuotaStatus {
	open := []store.QuotaStatus{}
	for _, s := range m.statuses {
		if s.QuotaID == quotaID && s.ValidTo == nil {
			open = append(open, s)
		}
	}
	return open
}

func (m *memDB) openHistory(quotaID int64) []store.QuotaHistoryDetail {
	open := []store.QuotaHistoryDetail{}
	for _, h := range m.history {
		if h.QuotaID == quotaID && h.ValidTo == nil {
			open = append(open, h)
		}
	}
	return open
}

type memGroupStore struct{ m *memDB }

func (s *memGroupStore) GetByID(_ context.Context, groupID int64) (*store.Group, error) {
	for _, g := range s.m.groups {
		if g.ID == groupID {
			out := g
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memGroupStore) ListByAdministrator(_ context.Context, administratorID int) ([]store.Group, error) {
	out := []store.Group{}
	for _, g := range s.m.groups {
		if g.AdministratorID == administratorID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *memGroupStore) Insert(_ context.Context, group *store.Group) error {
	group.ID = s.m.id()
	s.m.groups = append(s.m.groups, *group)
	return nil
}

func (s *memGroupStore) Update(_ context.Context, group *store.Group) error {
	for i := range s.m.groups {
		if s.m.groups[i].ID == group.ID {
			s.m.groups[i] = *group
		}
	}
	return nil
}

type memQuotaStore struct{ m *memDB }

func (s *memQuotaStore) ListByAdministrator(_ context.Context, administratorID int) ([]store.Quota, error) {
	out := []store.Quota{}
	for _, q := range s.m.quotas {
		if q.AdministratorID == administratorID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *memQuotaStore) ListRecent(_ context.Context, limit int) ([]store.Quota, error) {
	out := []store.Quota{}
	for i := len(s.m.quotas) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.m.quotas[i])
	}
	return out, nil
}

func (s *memQuotaStore) GetByCode(_ context.Context, code string) (*store.Quota, error) {
	for _, q := range s.m.quotas {
		if q.QuotaCode == code {
			out := q
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memQuotaStore) MaxID(_ context.Context) (int64, error) {
	var max int64
	for _, q := range s.m.quotas {
		if q.ID > max {
			max = q.ID
		}
	}
	return max, nil
}

func (s *memQuotaStore) Insert(_ context.Context, quota *store.Quota) error {
	quota.ID = s.m.id()
	s.m.quotas = append(s.m.quotas, *quota)
	return nil
}

func (s *memQuotaStore) Update(_ context.Context, quota *store.Quota) error {
	for i := range s.m.quotas {
		if s.m.quotas[i].ID == quota.ID {
			s.m.quotas[i] = *quota
		}
	}
	return nil
}

func (s *memQuotaStore) UpdateCode(_ context.Context, quotaID int64, code, checkDigit string) error {
	for i := range s.m.quotas {
		if s.m.quotas[i].ID == quotaID {
			s.m.quotas[i].QuotaCode = code
			s.m.quotas[i].CheckDigit = &checkDigit
		}
	}
	return nil
}

type memQuotaStatusStore struct{ m *memDB }

func (s *memQuotaStatusStore) GetOpenByQuota(_ context.Context, quotaID int64) (*store.QuotaStatus, error) {
	for _, st := range s.m.statuses {
		if st.QuotaID == quotaID && st.ValidTo == nil {
			out := st
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memQuotaStatusStore) CloseOpen(_ context.Context, quotaID int64, at time.Time) error {
	for i := range s.m.statuses {
		if s.m.statuses[i].QuotaID == quotaID && s.m.statuses[i].ValidTo == nil {
			closed := at
			s.m.statuses[i].ValidTo = &closed
		}
	}
	return nil
}

func (s *memQuotaStatusStore) Insert(_ context.Context, status *store.QuotaStatus) error {
	status.ID = s.m.id()
	s.m.statuses = append(s.m.statuses, *status)
	return nil
}

type memQuotaHistoryStore struct{ m *memDB }

func (s *memQuotaHistoryStore) GetOpenByQuota(_ context.Context, quotaID int64) (*store.QuotaHistoryDetail, error) {
	for _, h := range s.m.history {
		if h.QuotaID == quotaID && h.ValidTo == nil {
			out := h
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memQuotaHistoryStore) CloseOpen(_ context.Context, quotaID int64, at time.Time) error {
	for i := range s.m.history {
		if s.m.history[i].QuotaID == quotaID && s.m.history[i].ValidTo == nil {
			closed := at
			s.m.history[i].ValidTo = &closed
		}
	}
	return nil
}

func (s *memQuotaHistoryStore) Insert(_ context.Context, detail *store.QuotaHistoryDetail) error {
	detail.ID = s.m.id()
	s.m.history = append(s.m.history, *detail)
	return nil
}

func (s *memQuotaHistoryStore) Update(_ context.Context, detail *store.QuotaHistoryDetail) error {
	for i := range s.m.history {
		if s.m.history[i].ID == detail.ID {
			s.m.history[i] = *detail
		}
	}
	return nil
}

type memFieldUpdateStore struct{ m *memDB }

func (s *memFieldUpdateStore) Get(_ context.Context, quotaID int64, fieldID int) (*store.QuotaFieldUpdateDate, error) {
	for _, fud := range s.m.fieldDates {
		if fud.QuotaID == quotaID && fud.QuotaHistoryFieldID == fieldID {
			out := fud
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memFieldUpdateStore) Insert(_ context.Context, fud *store.QuotaFieldUpdateDate) error {
	fud.ID = s.m.id()
	s.m.fieldDates = append(s.m.fieldDates, *fud)
	return nil
}

func (s *memFieldUpdateStore) Update(_ context.Context, quotaID int64, fieldID, dataSourceID int, updateDate time.Time) error {
	for i := range s.m.fieldDates {
		if s.m.fieldDates[i].QuotaID == quotaID && s.m.fieldDates[i].QuotaHistoryFieldID == fieldID {
			s.m.fieldDates[i].DataSourceID = dataSourceID
			s.m.fieldDates[i].UpdateDate = updateDate
		}
	}
	return nil
}

type memQuotaOwnerStore struct{ m *memDB }

func (s *memQuotaOwnerStore) GetOpenByQuota(_ context.Context, quotaID int64) ([]store.QuotaOwner, error) {
	out := []store.QuotaOwner{}
	for _, o := range s.m.owners {
		if o.QuotaID == quotaID && o.ValidTo == nil {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memQuotaOwnerStore) CloseOpen(_ context.Context, quotaID int64, at time.Time) error {
	for i := range s.m.owners {
		if s.m.owners[i].QuotaID == quotaID && s.m.owners[i].ValidTo == nil {
			closed := at
			s.m.owners[i].ValidTo = &closed
		}
	}
	return nil
}

func (s *memQuotaOwnerStore) Insert(_ context.Context, owner *store.QuotaOwner) error {
	owner.ID = s.m.id()
	s.m.owners = append(s.m.owners, *owner)
	return nil
}

type memAssetStore struct{ m *memDB }

func (s *memAssetStore) GetOpenByGroup(_ context.Context, groupID int64) (*store.Asset, error) {
	for _, a := range s.m.assets {
		if a.GroupID == groupID && a.ValidTo == nil {
			out := a
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memAssetStore) CloseOpen(_ context.Context, groupID int64, at time.Time) error {
	for i := range s.m.assets {
		if s.m.assets[i].GroupID == groupID && s.m.assets[i].ValidTo == nil {
			closed := at
			s.m.assets[i].ValidTo = &closed
		}
	}
	return nil
}

func (s *memAssetStore) Insert(_ context.Context, asset *store.Asset) error {
	asset.ID = s.m.id()
	s.m.assets = append(s.m.assets, *asset)
	return nil
}

type memBidStore struct{ m *memDB }

func (s *memBidStore) GetOpenByGroup(_ context.Context, groupID int64) (*store.Bid, error) {
	for _, b := range s.m.bids {
		if b.GroupID == groupID && b.ValidTo == nil {
			out := b
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memBidStore) CloseOpen(_ context.Context, groupID int64, at time.Time) error {
	for i := range s.m.bids {
		if s.m.bids[i].GroupID == groupID && s.m.bids[i].ValidTo == nil {
			closed := at
			s.m.bids[i].ValidTo = &closed
		}
	}
	return nil
}

func (s *memBidStore) Insert(_ context.Context, bid *store.Bid) error {
	bid.ID = s.m.id()
	s.m.bids = append(s.m.bids, *bid)
	return nil
}

type memVacanciesStore struct{ m *memDB }

func (s *memVacanciesStore) GetOpenByGroup(_ context.Context, groupID int64) (*store.GroupVacancies, error) {
	for _, v := range s.m.vacancies {
		if v.GroupID == groupID && v.ValidTo == nil {
			out := v
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memVacanciesStore) CloseOpen(_ context.Context, groupID int64, at time.Time) error {
	for i := range s.m.vacancies {
		if s.m.vacancies[i].GroupID == groupID && s.m.vacancies[i].ValidTo == nil {
			closed := at
			s.m.vacancies[i].ValidTo = &closed
		}
	}
	return nil
}

func (s *memVacanciesStore) Insert(_ context.Context, vacancies *store.GroupVacancies) error {
	vacancies.ID = s.m.id()
	s.m.vacancies = append(s.m.vacancies, *vacancies)
	return nil
}

func newTestEngine(src *SourceConfig) (*Engine, *memDB, *store.Storage) {
	m := &memDB{}
	lookups := &Lookups{
		Administrator: &store.Administrator{ID: 1, Code: src.AdministratorCode},
		DataSourceID:  1,
		groupsByCode:  map[string]*store.Group{},
		quotasByRef:   map[string]*store.Quota{},
	}
	engine := NewEngine(src, lookups, logger.New("error"), nil)
	engine.now = func() time.Time { return date(2024, 6, 15) }
	return engine, m, m.storage()
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func quotaRow(ref string, infoDate time.Time) *QuotaRow {
	return &QuotaRow{
		StageID:           1,
		ExternalReference: ref,
		GroupCode:         "512",
		GroupDeadline:     intPtr(80),
		CurrentAssembly:   intPtr(10),
		InfoDate:          infoDate,
		StatusRaw:         "ATIVO",
	}
}

func TestProcessQuotaRowCreatesQuota(t *testing.T) {
	engine, m, st := newTestEngine(testSourceConfig())
	ctx := context.Background()

	row := quotaRow("CT-001", date(2024, 5, 1))
	row.Fields.InstallmentsPaidNumber = intPtr(12)
	row.Fields.AmntPaid = floatPtr(15000)
	row.Owners = []Owner{{Document: "345678909", PersonType: "F", Name: "JOAO DA SILVA", MainOwner: true}}

	require.NoError(t, engine.ProcessQuotaRow(ctx, st, row))

	require.Len(t, m.groups, 1)
	require.Equal(t, "00512", m.groups[0].GroupCode)

	require.Len(t, m.quotas, 1)
	quota := m.quotas[0]
	code, digit := BuildQuotaCode(quota.ID)
	require.Equal(t, code, quota.QuotaCode)
	require.Equal(t, digit, *quota.CheckDigit)
	require.Equal(t, StatusTypeActive, quota.QuotaStatusTypeID)

	require.Len(t, m.openStatuses(quota.ID), 1)
	require.Len(t, m.openHistory(quota.ID), 1)
	require.Equal(t, 12, *m.openHistory(quota.ID)[0].InstallmentsPaidNumber)

	// One field-date row per populated history field.
	require.Len(t, m.fieldDates, 2)

	require.Len(t, m.owners, 1)
	require.Equal(t, "00345678909", m.owners[0].PersonCode)
	require.Equal(t, 1.0, m.owners[0].OwnershipPercentage)

	require.Equal(t, []string{quota.QuotaCode}, engine.ProcessedQuotaCodes())
}

func TestProcessQuotaRowNewerUpdate(t *testing.T) {
	engine, m, st := newTestEngine(testSourceConfig())
	ctx := context.Background()

	first := quotaRow("CT-001", date(2024, 4, 1))
	first.Fields.InstallmentsPaidNumber = intPtr(10)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, first))

	second := quotaRow("CT-001", date(2024, 5, 1))
	second.StatusRaw = "CONTEMPLADO"
	second.Fields.InstallmentsPaidNumber = intPtr(11)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, second))

	require.Len(t, m.quotas, 1)
	quota := m.quotas[0]
	require.Equal(t, date(2024, 5, 1), quota.InfoDate)
	require.Equal(t, StatusTypeContemplated, quota.QuotaStatusTypeID)

	// Status changed: old interval closed, exactly one open.
	require.Len(t, m.statuses, 2)
	open := m.openStatuses(quota.ID)
	require.Len(t, open, 1)
	require.Equal(t, StatusTypeContemplated, open[0].QuotaStatusTypeID)

	// History closed and reopened at the newer info_date.
	require.Len(t, m.history, 2)
	openHist := m.openHistory(quota.ID)
	require.Len(t, openHist, 1)
	require.Equal(t, date(2024, 5, 1), openHist[0].InfoDate)
	require.Equal(t, 11, *openHist[0].InstallmentsPaidNumber)
}

func TestProcessQuotaRowMergesSilentFields(t *testing.T) {
	engine, m, st := newTestEngine(testSourceConfig())
	ctx := context.Background()

	first := quotaRow("CT-001", date(2024, 4, 1))
	first.Fields.QuotaPlan = strP("PLANO A")
	first.Fields.InstallmentsPaidNumber = intPtr(10)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, first))

	// The newer row is silent on quota_plan; the stored value must survive
	// the snapshot reopen.
	second := quotaRow("CT-001", date(2024, 5, 1))
	second.Fields.InstallmentsPaidNumber = intPtr(11)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, second))

	openHist := m.openHistory(m.quotas[0].ID)
	require.Len(t, openHist, 1)
	require.Equal(t, "PLANO A", *openHist[0].QuotaPlan)
	require.Equal(t, 11, *openHist[0].InstallmentsPaidNumber)
}

func TestProcessQuotaRowStaleRowIgnored(t *testing.T) {
	engine, m, st := newTestEngine(testSourceConfig())
	ctx := context.Background()

	newer := quotaRow("CT-001", date(2024, 5, 1))
	newer.Fields.InstallmentsPaidNumber = intPtr(11)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, newer))

	stale := quotaRow("CT-001", date(2024, 4, 1))
	stale.StatusRaw = "DESISTENTE"
	stale.Fields.InstallmentsPaidNumber = intPtr(10)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, stale))

	quota := m.quotas[0]
	require.Equal(t, date(2024, 5, 1), quota.InfoDate)
	require.Equal(t, StatusTypeActive, quota.QuotaStatusTypeID)

	require.Len(t, m.statuses, 1)
	openHist := m.openHistory(quota.ID)
	require.Len(t, openHist, 1)
	require.Equal(t, date(2024, 5, 1), openHist[0].InfoDate)
	require.Equal(t, 11, *openHist[0].InstallmentsPaidNumber)
}

func TestProcessQuotaRowReprocessIsIdempotent(t *testing.T) {
	engine, m, st := newTestEngine(testSourceConfig())
	ctx := context.Background()

	row := quotaRow("CT-001", date(2024, 5, 1))
	row.Fields.InstallmentsPaidNumber = intPtr(11)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, row))

	statuses := len(m.statuses)
	history := len(m.history)
	fieldDates := len(m.fieldDates)

	again := quotaRow("CT-001", date(2024, 5, 1))
	again.Fields.InstallmentsPaidNumber = intPtr(11)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, again))

	require.Len(t, m.quotas, 1)
	require.Len(t, m.statuses, statuses)
	require.Len(t, m.history, history)
	require.Len(t, m.fieldDates, fieldDates)
}

func TestProcessQuotaRowSkipsRowWithoutInfoDate(t *testing.T) {
	engine, m, st := newTestEngine(testSourceConfig())
	ctx := context.Background()

	require.NoError(t, engine.ProcessQuotaRow(ctx, st, quotaRow("CT-001", date(2024, 5, 1))))
	require.Len(t, m.groups, 1)
	assemblies := *m.groups[0].CurrentAssemblyNumber

	// A staging row whose date failed to parse arrives with the zero value;
	// applying it would project the group schedule from year 1 and rewind
	// current_assembly_date. It must be dropped wholesale.
	bad := quotaRow("CT-001", time.Time{})
	bad.CurrentAssembly = intPtr(10)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, bad))

	require.Len(t, m.quotas, 1)
	require.Equal(t, assemblies, *m.groups[0].CurrentAssemblyNumber)
	require.Equal(t, date(2024, 5, 1), *m.groups[0].CurrentAssemblyDate)
	require.Len(t, engine.ProcessedQuotaCodes(), 1)
}

func TestProcessGroupInfoRowSkipsRowWithoutInfoDate(t *testing.T) {
	engine, m, st := newTestEngine(testSourceConfig())
	ctx := context.Background()

	good := &GroupInfoRow{
		StageID:         1,
		GroupCode:       "512",
		GroupDeadline:   intPtr(80),
		CurrentAssembly: intPtr(10),
		InfoDate:        date(2024, 5, 1),
		AssetValue:      floatPtr(52000),
		AssetTypeRaw:    "AUTOMOVEL",
	}
	require.NoError(t, engine.ProcessGroupInfoRow(ctx, st, good))
	require.Len(t, m.assets, 1)
	assemblies := *m.groups[0].CurrentAssemblyNumber

	bad := &GroupInfoRow{
		StageID:         2,
		GroupCode:       "512",
		GroupDeadline:   intPtr(80),
		CurrentAssembly: intPtr(10),
		AssetValue:      floatPtr(48000),
		AssetTypeRaw:    "AUTOMOVEL",
	}
	require.NoError(t, engine.ProcessGroupInfoRow(ctx, st, bad))

	require.Len(t, m.assets, 1)
	require.Equal(t, assemblies, *m.groups[0].CurrentAssemblyNumber)
	require.Equal(t, date(2024, 5, 1), *m.groups[0].CurrentAssemblyDate)
}

func TestProcessedQuotaCodesDeduplicated(t *testing.T) {
	engine, m, st := newTestEngine(testSourceConfig())
	ctx := context.Background()

	require.NoError(t, engine.ProcessQuotaRow(ctx, st, quotaRow("CT-001", date(2024, 4, 1))))

	// The same quota staged twice in one run publishes once.
	second := quotaRow("CT-001", date(2024, 5, 1))
	second.Fields.InstallmentsPaidNumber = intPtr(11)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, second))

	require.Equal(t, []string{m.quotas[0].QuotaCode}, engine.ProcessedQuotaCodes())
}

func TestStaleNoOpRowIsNotPublished(t *testing.T) {
	engine, m, st := newTestEngine(testSourceConfig())
	ctx := context.Background()

	// Quota and its open snapshot already exist from an earlier run.
	quota := &store.Quota{
		ID:                1,
		QuotaCode:         "0000018",
		ExternalReference: "CT-001",
		AdministratorID:   1,
		QuotaStatusTypeID: StatusTypeActive,
		InfoDate:          date(2024, 5, 1),
	}
	m.quotas = append(m.quotas, *quota)
	m.history = append(m.history, store.QuotaHistoryDetail{ID: 2, QuotaID: 1, InfoDate: date(2024, 5, 1)})
	m.nextID = 10
	engine.lookups.AddQuota(quota)

	stale := quotaRow("CT-001", date(2024, 4, 1))
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, stale))

	require.Empty(t, engine.ProcessedQuotaCodes())
}

func TestProcessQuotaRowBackfillsIncrementalFields(t *testing.T) {
	src := testSourceConfig()
	src.IncrementalFields = []int{FieldAssetValue}
	engine, m, st := newTestEngine(src)
	ctx := context.Background()

	newer := quotaRow("CT-001", date(2024, 5, 1))
	newer.Fields.InstallmentsPaidNumber = intPtr(11)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, newer))

	// The stale row carries a field the open snapshot never received; it is
	// backfilled despite losing the whole-row info_date race.
	stale := quotaRow("CT-001", date(2024, 4, 1))
	stale.Fields.AssetValue = floatPtr(48000)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, stale))

	openHist := m.openHistory(m.quotas[0].ID)
	require.Len(t, openHist, 1)
	require.Equal(t, date(2024, 5, 1), openHist[0].InfoDate)
	require.Equal(t, 48000.0, *openHist[0].AssetValue)
	require.Equal(t, 11, *openHist[0].InstallmentsPaidNumber)

	fud, err := st.QuotaFieldUpdate.Get(ctx, m.quotas[0].ID, FieldAssetValue)
	require.NoError(t, err)
	require.NotNil(t, fud)
	require.Equal(t, date(2024, 4, 1), fud.UpdateDate)
}

func TestProcessQuotaRowDoesNotOverwriteFresherIncrementalField(t *testing.T) {
	src := testSourceConfig()
	src.IncrementalFields = []int{FieldAssetValue}
	engine, m, st := newTestEngine(src)
	ctx := context.Background()

	newer := quotaRow("CT-001", date(2024, 5, 1))
	newer.Fields.AssetValue = floatPtr(52000)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, newer))

	stale := quotaRow("CT-001", date(2024, 4, 1))
	stale.Fields.AssetValue = floatPtr(48000)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, stale))

	openHist := m.openHistory(m.quotas[0].ID)
	require.Equal(t, 52000.0, *openHist[0].AssetValue)
}

func TestResolveGroupGateSkipsStaleSchedule(t *testing.T) {
	src := testSourceConfig()
	src.GateGroupUpdates = true
	engine, m, st := newTestEngine(src)
	ctx := context.Background()

	require.NoError(t, engine.ProcessQuotaRow(ctx, st, quotaRow("CT-001", date(2024, 5, 1))))
	require.Len(t, m.groups, 1)
	assemblies := *m.groups[0].CurrentAssemblyNumber

	stale := quotaRow("CT-002", date(2024, 3, 1))
	stale.CurrentAssembly = intPtr(99)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, stale))

	require.Len(t, m.groups, 1)
	require.Equal(t, assemblies, *m.groups[0].CurrentAssemblyNumber)
}

func TestResolveGroupUngatedOverwrites(t *testing.T) {
	engine, m, st := newTestEngine(testSourceConfig())
	ctx := context.Background()

	require.NoError(t, engine.ProcessQuotaRow(ctx, st, quotaRow("CT-001", date(2024, 5, 1))))

	stale := quotaRow("CT-002", date(2024, 3, 1))
	stale.CurrentAssembly = intPtr(20)
	require.NoError(t, engine.ProcessQuotaRow(ctx, st, stale))

	// Ungated sources overwrite the schedule on every sighting, matching the
	// legacy flows.
	require.Len(t, m.groups, 1)
	require.Equal(t, date(2024, 3, 1), *m.groups[0].CurrentAssemblyDate)
}

func TestProcessGroupInfoRow(t *testing.T) {
	engine, m, st := newTestEngine(testSourceConfig())
	ctx := context.Background()

	row := &GroupInfoRow{
		StageID:         1,
		GroupCode:       "512",
		GroupDeadline:   intPtr(80),
		CurrentAssembly: intPtr(10),
		InfoDate:        date(2024, 4, 1),
		AssetDesc:       strP("GOL 1.0"),
		AssetValue:      floatPtr(52000),
		AssetTypeRaw:    "AUTOMOVEL",
		BidValue:        floatPtr(38.5),
		Vacancies:       intPtr(3),
	}
	require.NoError(t, engine.ProcessGroupInfoRow(ctx, st, row))

	require.Len(t, m.assets, 1)
	require.Equal(t, AssetTypeLightVehicle, m.assets[0].AssetTypeID)
	require.Len(t, m.bids, 1)
	require.Len(t, m.vacancies, 1)

	// A newer sighting closes each open interval and reopens it.
	newer := &GroupInfoRow{
		StageID:         2,
		GroupCode:       "512",
		GroupDeadline:   intPtr(80),
		CurrentAssembly: intPtr(11),
		InfoDate:        date(2024, 5, 1),
		AssetValue:      floatPtr(53000),
		AssetTypeRaw:    "AUTOMOVEL",
		Vacancies:       intPtr(2),
	}
	require.NoError(t, engine.ProcessGroupInfoRow(ctx, st, newer))

	require.Len(t, m.assets, 2)
	require.Len(t, m.vacancies, 2)
	require.Len(t, m.bids, 1)

	groupID := m.groups[0].ID
	openAsset, err := st.Asset.GetOpenByGroup(ctx, groupID)
	require.NoError(t, err)
	require.Equal(t, 53000.0, openAsset.AssetValue)

	openVac, err := st.GroupVacancies.GetOpenByGroup(ctx, groupID)
	require.NoError(t, err)
	require.Equal(t, 2, openVac.Vacancies)

	// A stale sighting is ignored.
	stale := &GroupInfoRow{
		StageID:         3,
		GroupCode:       "512",
		GroupDeadline:   intPtr(80),
		CurrentAssembly: intPtr(9),
		InfoDate:        date(2024, 3, 1),
		AssetValue:      floatPtr(50000),
		AssetTypeRaw:    "AUTOMOVEL",
	}
	require.NoError(t, engine.ProcessGroupInfoRow(ctx, st, stale))
	require.Len(t, m.assets, 2)
}

func strP(s string) *string { return &s }
