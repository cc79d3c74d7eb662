package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cotahub/mdcota-etl/internal/consorciei"
	"github.com/cotahub/mdcota-etl/internal/response"
	"github.com/cotahub/mdcota-etl/internal/store"
)

// QuotaDetail is the read model served per quota: the quota row plus its
// currently open status, history snapshot and ownership interval.
type QuotaDetail struct {
	Quota   store.Quota               `json:"quota"`
	Status  *store.QuotaStatus        `json:"status,omitempty"`
	History *store.QuotaHistoryDetail `json:"history,omitempty"`
	Owners  []store.QuotaOwner        `json:"owners,omitempty"`
}

type GetQuotaResponse = response.APIResponse[*QuotaDetail]
type GetQuotaValuationResponse = response.APIResponse[*consorciei.Quote]
type ListQuotasResponse = response.APIResponse[[]store.Quota]

func (app *application) handleListRecentQuotas(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if param := r.URL.Query().Get("limit"); param != "" {
		parsed, err := strconv.Atoi(param)
		if err != nil || parsed < 1 || parsed > 500 {
			writeJSONError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	quotas, err := app.store.Quota.ListRecent(r.Context(), limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to list quotas: "+err.Error())
		return
	}

	resp := &ListQuotasResponse{
		Success: true,
		Data:    quotas,
		Message: "Successfully listed recently updated quotas",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetQuota(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	ctx := r.Context()

	quota, err := app.store.Quota.GetByCode(ctx, code)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to read quota: "+err.Error())
		return
	}
	if quota == nil {
		writeJSONError(w, http.StatusNotFound, "quota not found")
		return
	}

	detail := &QuotaDetail{Quota: *quota}

	if detail.Status, err = app.store.QuotaStatus.GetOpenByQuota(ctx, quota.ID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to read quota status: "+err.Error())
		return
	}
	if detail.History, err = app.store.QuotaHistory.GetOpenByQuota(ctx, quota.ID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to read quota history: "+err.Error())
		return
	}
	if detail.Owners, err = app.store.QuotaOwner.GetOpenByQuota(ctx, quota.ID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to read quota owners: "+err.Error())
		return
	}

	resp := &GetQuotaResponse{
		Success: true,
		Data:    detail,
		Message: "Successfully fetched quota",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetQuotaValuation(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	ctx := r.Context()

	quota, err := app.store.Quota.GetByCode(ctx, code)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to read quota: "+err.Error())
		return
	}
	if quota == nil {
		writeJSONError(w, http.StatusNotFound, "quota not found")
		return
	}

	quote, err := app.consorciei.GetQuote(ctx, quota.QuotaCode)
	if err != nil {
		var notFound *consorciei.EntityNotFoundError
		var unprocessable *consorciei.UnprocessableEntityError
		switch {
		case errors.As(err, &notFound):
			writeJSONError(w, http.StatusNotFound, notFound.Message)
		case errors.As(err, &unprocessable):
			writeJSONError(w, http.StatusUnprocessableEntity, unprocessable.Message)
		default:
			writeJSONError(w, http.StatusBadGateway, "valuation service unavailable: "+err.Error())
		}
		return
	}

	resp := &GetQuotaValuationResponse{
		Success: true,
		Data:    quote,
		Message: "Successfully fetched quota valuation",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
