package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/cotahub/mdcota-etl/internal/logger"
	"github.com/cotahub/mdcota-etl/internal/store"
)

// CustomerNotifier registers quota owners with the external customer
// registry. Implementations are fire-and-forget; the engine logs failures and
// keeps going.
type CustomerNotifier interface {
	RegisterCustomer(ctx context.Context, quotaID int64, quotaCode string, owners []Owner) error
}

// Engine is the temporal-upsert reconciler. One instance serves one job run,
// parameterized by the source's field mappings and classification
// dictionaries. All writes go through the Storage handed to each call, so the
// caller controls the transaction boundary.
type Engine struct {
	src      *SourceConfig
	lookups  *Lookups
	log      *logger.Logger
	notifier CustomerNotifier

	now func() time.Time

	processedCodes []string
	seenCodes      map[string]struct{}
}

func NewEngine(src *SourceConfig, lookups *Lookups, log *logger.Logger, notifier CustomerNotifier) *Engine {
	return &Engine{
		src:       src,
		lookups:   lookups,
		log:       log,
		notifier:  notifier,
		now:       time.Now,
		seenCodes: map[string]struct{}{},
	}
}

// ProcessedQuotaCodes returns the quota codes materially touched so far,
// deduplicated, in first-touch order. Fed to the pricing-event publisher
// after the run.
func (e *Engine) ProcessedQuotaCodes() []string {
	return e.processedCodes
}

func (e *Engine) recordProcessedCode(code string) {
	if _, seen := e.seenCodes[code]; seen {
		return
	}
	e.seenCodes[code] = struct{}{}
	e.processedCodes = append(e.processedCodes, code)
}

// ProcessQuotaRow reconciles one staged quota record: resolves the group,
// decides insert-vs-update by info_date, and maintains the status/history
// open intervals and per-field provenance.
func (e *Engine) ProcessQuotaRow(ctx context.Context, st *store.Storage, row *QuotaRow) error {
	// A zero info_date means the staging row carried no parseable date.
	// Every gate downstream compares against it, including the group
	// schedule projection, so the row is dropped rather than applied.
	if row.InfoDate.IsZero() {
		e.log.Warn(componentReconciler, "Row without a valid info_date skipped: source=%s reference=%s stageID=%d", e.src.Name, row.ExternalReference, row.StageID)
		return nil
	}

	group, err := e.resolveGroup(ctx, st, row.GroupCode, row.GroupDeadline, row.CurrentAssembly, row.InfoDate)
	if err != nil {
		return fmt.Errorf("resolve group %s: %w", row.GroupCode, err)
	}

	if row.AssetTypeRaw != "" {
		assetTypeID, known := e.src.ClassifyAssetType(row.AssetTypeRaw)
		if !known {
			e.log.Warn(componentReconciler, "Unrecognized asset type, using default bucket: source=%s value=%q", e.src.Name, row.AssetTypeRaw)
		}
		row.Fields.AssetTypeID = &assetTypeID
	}

	quota := e.lookups.QuotaByReference(row.ExternalReference)
	if quota == nil {
		return e.insertNewQuota(ctx, st, row, group)
	}
	return e.updateExistingQuota(ctx, st, row, quota, group)
}

const componentReconciler = "Reconciler"

func (e *Engine) resolveGroup(ctx context.Context, st *store.Storage, rawCode string, deadline, currentAssembly *int, infoDate time.Time) (*store.Group, error) {
	code := NormalizeGroupCode(rawCode, e.src.GroupCodeWidth)
	now := e.now()

	var proj *GroupProjection
	if deadline != nil && currentAssembly != nil {
		p, err := ProjectGroup(now, infoDate, *currentAssembly, *deadline)
		if err != nil {
			e.log.Warn(componentReconciler, "Group projection skipped: source=%s group=%s error=%v", e.src.Name, code, err)
		} else {
			proj = &p
		}
	}

	group := e.lookups.GroupByCode(code)
	if group == nil {
		group = &store.Group{
			GroupCode:       code,
			AdministratorID: e.lookups.Administrator.ID,
			GroupDeadline:   deadline,
			CreatedAt:       now,
			ModifiedAt:      now,
		}
		applyProjection(group, proj, infoDate)
		if err := st.Group.Insert(ctx, group); err != nil {
			return nil, err
		}
		e.lookups.AddGroup(group)
		e.log.Debug(componentReconciler, "Group created: source=%s group=%s id=%d", e.src.Name, code, group.ID)
		return group, nil
	}

	// Legacy behavior: most flows overwrite the group schedule on every
	// sighting; only the gated sources check info_date first.
	if e.src.GateGroupUpdates && group.CurrentAssemblyDate != nil && !infoDate.After(*group.CurrentAssemblyDate) {
		return group, nil
	}

	if deadline != nil {
		group.GroupDeadline = deadline
	}
	applyProjection(group, proj, infoDate)
	group.ModifiedAt = now
	if err := st.Group.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func applyProjection(group *store.Group, proj *GroupProjection, infoDate time.Time) {
	if proj == nil {
		return
	}
	assemblies := proj.AssembliesToday
	closing := proj.ClosingDate
	assemblyDate := infoDate
	group.CurrentAssemblyNumber = &assemblies
	group.CurrentAssemblyDate = &assemblyDate
	group.GroupClosingDate = &closing
}

func (e *Engine) insertNewQuota(ctx context.Context, st *store.Storage, row *QuotaRow, group *store.Group) error {
	now := e.now()

	statusTypeID, known := e.src.ClassifyStatus(row.StatusRaw)
	if !known {
		e.log.Warn(componentReconciler, "Unrecognized status, using default bucket: source=%s value=%q", e.src.Name, row.StatusRaw)
	}

	maxID, err := st.Quota.MaxID(ctx)
	if err != nil {
		return fmt.Errorf("read max quota id: %w", err)
	}
	code, digit := BuildQuotaCode(maxID + 1)

	quota := &store.Quota{
		QuotaCode:          code,
		CheckDigit:         &digit,
		ExternalReference:  row.ExternalReference,
		AdministratorID:    e.lookups.Administrator.ID,
		GroupID:            group.ID,
		QuotaOriginID:      e.src.OriginID,
		QuotaPersonTypeID:  row.PersonTypeID,
		QuotaStatusTypeID:  statusTypeID,
		QuotaNumber:        row.QuotaNumber,
		ContractNumber:     row.ContractNumber,
		IsContemplated:     false,
		IsMultipleOwner:    row.MultipleOwnership,
		AdmFeePercentage:   row.AdmFeePercentage,
		FundReservationFee: row.FundReservationFee,
		TotalInstallments:  row.TotalInstallments,
		CancelDate:         row.CancelDate,
		AcquisitionDate:    row.AcquisitionDate,
		InfoDate:           row.InfoDate,
		CreatedAt:          now,
		ModifiedAt:         now,
	}
	if err := st.Quota.Insert(ctx, quota); err != nil {
		return fmt.Errorf("insert quota %s: %w", row.ExternalReference, err)
	}

	// The placeholder code was minted from a counter that may have raced
	// past the real key; re-mint against the actual id.
	code, digit = BuildQuotaCode(quota.ID)
	if err := st.Quota.UpdateCode(ctx, quota.ID, code, digit); err != nil {
		return fmt.Errorf("update quota code %d: %w", quota.ID, err)
	}
	quota.QuotaCode = code
	quota.CheckDigit = &digit

	if err := st.QuotaStatus.Insert(ctx, &store.QuotaStatus{
		QuotaID:           quota.ID,
		QuotaStatusTypeID: statusTypeID,
		ValidFrom:         now,
		CreatedAt:         now,
	}); err != nil {
		return fmt.Errorf("insert quota status: %w", err)
	}

	detail := &store.QuotaHistoryDetail{
		QuotaID:       quota.ID,
		InfoDate:      row.InfoDate,
		ValidFrom:     now,
		CreatedAt:     now,
		HistoryFields: row.Fields,
	}
	if err := st.QuotaHistory.Insert(ctx, detail); err != nil {
		return fmt.Errorf("insert quota history: %w", err)
	}

	for _, fieldID := range SetFieldIDs(&row.Fields) {
		if err := st.QuotaFieldUpdate.Insert(ctx, &store.QuotaFieldUpdateDate{
			QuotaID:             quota.ID,
			QuotaHistoryFieldID: fieldID,
			DataSourceID:        e.lookups.DataSourceID,
			UpdateDate:          row.InfoDate,
			CreatedAt:           now,
			ModifiedAt:          now,
		}); err != nil {
			return fmt.Errorf("insert field update date %d: %w", fieldID, err)
		}
	}

	if err := e.writeOwners(ctx, st, quota, row.Owners, now); err != nil {
		return err
	}

	e.lookups.AddQuota(quota)
	e.recordProcessedCode(quota.QuotaCode)
	e.log.Debug(componentReconciler, "Quota created: source=%s reference=%s code=%s", e.src.Name, row.ExternalReference, quota.QuotaCode)
	return nil
}

func (e *Engine) updateExistingQuota(ctx context.Context, st *store.Storage, row *QuotaRow, quota *store.Quota, group *store.Group) error {
	now := e.now()
	newer := row.InfoDate.After(quota.InfoDate)

	statusTypeID, known := e.src.ClassifyStatus(row.StatusRaw)
	if !known {
		e.log.Warn(componentReconciler, "Unrecognized status, using default bucket: source=%s value=%q", e.src.Name, row.StatusRaw)
	}

	if newer {
		quota.GroupID = group.ID
		quota.InfoDate = row.InfoDate
		quota.ModifiedAt = now
		if row.ContractNumber != nil {
			quota.ContractNumber = row.ContractNumber
		}
		if row.MultipleOwnership != nil {
			quota.IsMultipleOwner = row.MultipleOwnership
		}
		if row.AdmFeePercentage != nil {
			quota.AdmFeePercentage = row.AdmFeePercentage
		}
		if row.FundReservationFee != nil {
			quota.FundReservationFee = row.FundReservationFee
		}
		if row.TotalInstallments != nil {
			quota.TotalInstallments = row.TotalInstallments
		}
		if row.CancelDate != nil {
			quota.CancelDate = row.CancelDate
		}

		if statusTypeID != quota.QuotaStatusTypeID {
			if err := st.QuotaStatus.CloseOpen(ctx, quota.ID, now); err != nil {
				return fmt.Errorf("close quota status: %w", err)
			}
			if err := st.QuotaStatus.Insert(ctx, &store.QuotaStatus{
				QuotaID:           quota.ID,
				QuotaStatusTypeID: statusTypeID,
				ValidFrom:         now,
				CreatedAt:         now,
			}); err != nil {
				return fmt.Errorf("insert quota status: %w", err)
			}
			quota.QuotaStatusTypeID = statusTypeID
		}

		if err := st.Quota.Update(ctx, quota); err != nil {
			return fmt.Errorf("update quota %d: %w", quota.ID, err)
		}

		if err := e.writeOwners(ctx, st, quota, row.Owners, now); err != nil {
			return err
		}
	}

	changed, err := e.reconcileHistory(ctx, st, row, quota, now)
	if err != nil {
		return err
	}

	// A fully stale row that wrote nothing has no business triggering a
	// pricing event.
	if newer || changed {
		e.recordProcessedCode(quota.QuotaCode)
	}
	return nil
}

// reconcileHistory applies the snapshot decision independently of the
// quota-level gate: newer rows close and reopen the snapshot with merged
// fields, stale rows may still backfill individual incrementally-arriving
// fields under the finer per-field date check. Reports whether anything was
// written.
func (e *Engine) reconcileHistory(ctx context.Context, st *store.Storage, row *QuotaRow, quota *store.Quota, now time.Time) (bool, error) {
	open, err := st.QuotaHistory.GetOpenByQuota(ctx, quota.ID)
	if err != nil {
		return false, fmt.Errorf("read open history: %w", err)
	}

	if open == nil {
		detail := &store.QuotaHistoryDetail{
			QuotaID:       quota.ID,
			InfoDate:      row.InfoDate,
			ValidFrom:     now,
			CreatedAt:     now,
			HistoryFields: row.Fields,
		}
		if err := st.QuotaHistory.Insert(ctx, detail); err != nil {
			return false, fmt.Errorf("insert quota history: %w", err)
		}
		for _, fieldID := range SetFieldIDs(&row.Fields) {
			if err := e.upsertFieldDate(ctx, st, quota.ID, fieldID, row.InfoDate, now); err != nil {
				return false, err
			}
		}
		return true, nil
	}

	if row.InfoDate.After(open.InfoDate) {
		merged := open.HistoryFields
		MergeFields(&merged, &row.Fields)

		if err := st.QuotaHistory.CloseOpen(ctx, quota.ID, now); err != nil {
			return false, fmt.Errorf("close quota history: %w", err)
		}
		if err := st.QuotaHistory.Insert(ctx, &store.QuotaHistoryDetail{
			QuotaID:       quota.ID,
			InfoDate:      row.InfoDate,
			ValidFrom:     now,
			CreatedAt:     now,
			HistoryFields: merged,
		}); err != nil {
			return false, fmt.Errorf("insert quota history: %w", err)
		}
		for _, fieldID := range SetFieldIDs(&row.Fields) {
			if err := e.upsertFieldDate(ctx, st, quota.ID, fieldID, row.InfoDate, now); err != nil {
				return false, err
			}
		}
		return true, nil
	}

	// Stale whole row. Incrementally arriving fields may still be fresher
	// than what is stored, judged field by field.
	changed := false
	for _, fieldID := range e.src.IncrementalFields {
		if !fieldIsSet(&row.Fields, fieldID) {
			continue
		}
		if !fieldIsSet(&open.HistoryFields, fieldID) {
			copyField(&open.HistoryFields, &row.Fields, fieldID)
			changed = true
			if err := e.upsertFieldDate(ctx, st, quota.ID, fieldID, row.InfoDate, now); err != nil {
				return false, err
			}
			continue
		}

		fud, err := st.QuotaFieldUpdate.Get(ctx, quota.ID, fieldID)
		if err != nil {
			return false, fmt.Errorf("read field update date %d: %w", fieldID, err)
		}
		if fud == nil || fud.UpdateDate.Before(row.InfoDate) {
			copyField(&open.HistoryFields, &row.Fields, fieldID)
			changed = true
			if err := e.upsertFieldDate(ctx, st, quota.ID, fieldID, row.InfoDate, now); err != nil {
				return false, err
			}
		}
	}
	if changed {
		if err := st.QuotaHistory.Update(ctx, open); err != nil {
			return false, fmt.Errorf("backfill quota history: %w", err)
		}
	}
	return changed, nil
}

func (e *Engine) upsertFieldDate(ctx context.Context, st *store.Storage, quotaID int64, fieldID int, updateDate, now time.Time) error {
	fud, err := st.QuotaFieldUpdate.Get(ctx, quotaID, fieldID)
	if err != nil {
		return fmt.Errorf("read field update date %d: %w", fieldID, err)
	}
	if fud == nil {
		return st.QuotaFieldUpdate.Insert(ctx, &store.QuotaFieldUpdateDate{
			QuotaID:             quotaID,
			QuotaHistoryFieldID: fieldID,
			DataSourceID:        e.lookups.DataSourceID,
			UpdateDate:          updateDate,
			CreatedAt:           now,
			ModifiedAt:          now,
		})
	}
	return st.QuotaFieldUpdate.Update(ctx, quotaID, fieldID, e.lookups.DataSourceID, updateDate)
}

// writeOwners replaces the open ownership interval and notifies the customer
// registry. The registry call is asynchronous and unconfirmed; local rows are
// written regardless.
func (e *Engine) writeOwners(ctx context.Context, st *store.Storage, quota *store.Quota, owners []Owner, now time.Time) error {
	if len(owners) == 0 {
		return nil
	}

	if err := st.QuotaOwner.CloseOpen(ctx, quota.ID, now); err != nil {
		return fmt.Errorf("close quota owners: %w", err)
	}

	percentage := 1.0 / float64(len(owners))
	for _, owner := range owners {
		if err := st.QuotaOwner.Insert(ctx, &store.QuotaOwner{
			QuotaID:             quota.ID,
			PersonCode:          NormalizeDocument(owner.Document, owner.PersonType),
			OwnershipPercentage: percentage,
			MainOwner:           owner.MainOwner,
			ValidFrom:           now,
			CreatedAt:           now,
		}); err != nil {
			return fmt.Errorf("insert quota owner: %w", err)
		}
	}

	if e.notifier != nil {
		if err := e.notifier.RegisterCustomer(ctx, quota.ID, quota.QuotaCode, owners); err != nil {
			e.log.Warn(componentReconciler, "Customer registry notification failed: source=%s quota=%s error=%v", e.src.Name, quota.QuotaCode, err)
		}
	}
	return nil
}

// ProcessGroupInfoRow reconciles one staged group-information record: the
// group-scoped asset, bid and vacancy open intervals, each date-gated against
// its own stored info_date.
func (e *Engine) ProcessGroupInfoRow(ctx context.Context, st *store.Storage, row *GroupInfoRow) error {
	if row.InfoDate.IsZero() {
		e.log.Warn(componentReconciler, "Row without a valid info_date skipped: source=%s group=%s stageID=%d", e.src.Name, row.GroupCode, row.StageID)
		return nil
	}

	group, err := e.resolveGroup(ctx, st, row.GroupCode, row.GroupDeadline, row.CurrentAssembly, row.InfoDate)
	if err != nil {
		return fmt.Errorf("resolve group %s: %w", row.GroupCode, err)
	}
	now := e.now()

	if row.AssetValue != nil {
		assetTypeID, known := e.src.ClassifyAssetType(row.AssetTypeRaw)
		if !known {
			e.log.Warn(componentReconciler, "Unrecognized asset type, using default bucket: source=%s value=%q", e.src.Name, row.AssetTypeRaw)
		}

		open, err := st.Asset.GetOpenByGroup(ctx, group.ID)
		if err != nil {
			return fmt.Errorf("read open asset: %w", err)
		}
		if open == nil || open.InfoDate.Before(row.InfoDate) {
			if open != nil {
				if err := st.Asset.CloseOpen(ctx, group.ID, now); err != nil {
					return fmt.Errorf("close asset: %w", err)
				}
			}
			if err := st.Asset.Insert(ctx, &store.Asset{
				GroupID:     group.ID,
				AssetCode:   row.AssetCode,
				AssetDesc:   row.AssetDesc,
				AssetValue:  *row.AssetValue,
				AssetTypeID: assetTypeID,
				InfoDate:    row.InfoDate,
				ValidFrom:   now,
				CreatedAt:   now,
			}); err != nil {
				return fmt.Errorf("insert asset: %w", err)
			}
		}
	}

	if row.BidValue != nil {
		open, err := st.Bid.GetOpenByGroup(ctx, group.ID)
		if err != nil {
			return fmt.Errorf("read open bid: %w", err)
		}
		if open == nil || open.InfoDate.Before(row.InfoDate) {
			if open != nil {
				if err := st.Bid.CloseOpen(ctx, group.ID, now); err != nil {
					return fmt.Errorf("close bid: %w", err)
				}
			}
			if err := st.Bid.Insert(ctx, &store.Bid{
				GroupID:      group.ID,
				Value:        *row.BidValue,
				AssemblyDate: row.AssemblyDate,
				InfoDate:     row.InfoDate,
				ValidFrom:    now,
				CreatedAt:    now,
			}); err != nil {
				return fmt.Errorf("insert bid: %w", err)
			}
		}
	}

	if row.Vacancies != nil {
		open, err := st.GroupVacancies.GetOpenByGroup(ctx, group.ID)
		if err != nil {
			return fmt.Errorf("read open vacancies: %w", err)
		}
		if open == nil || open.InfoDate.Before(row.InfoDate) {
			if open != nil {
				if err := st.GroupVacancies.CloseOpen(ctx, group.ID, now); err != nil {
					return fmt.Errorf("close vacancies: %w", err)
				}
			}
			if err := st.GroupVacancies.Insert(ctx, &store.GroupVacancies{
				GroupID:   group.ID,
				Vacancies: *row.Vacancies,
				InfoDate:  row.InfoDate,
				ValidFrom: now,
				CreatedAt: now,
			}); err != nil {
				return fmt.Errorf("insert vacancies: %w", err)
			}
		}
	}

	return nil
}
