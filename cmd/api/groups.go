package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cotahub/mdcota-etl/internal/response"
	"github.com/cotahub/mdcota-etl/internal/store"
)

// GroupDetail is the read model served per group: the group row plus the
// currently open asset, winning bid and vacancy intervals.
type GroupDetail struct {
	Group     store.Group           `json:"group"`
	Asset     *store.Asset          `json:"asset,omitempty"`
	Bid       *store.Bid            `json:"bid,omitempty"`
	Vacancies *store.GroupVacancies `json:"vacancies,omitempty"`
}

type GetGroupResponse = response.APIResponse[*GroupDetail]

func (app *application) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid group id")
		return
	}
	ctx := r.Context()

	group, err := app.store.Group.GetByID(ctx, groupID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to read group: "+err.Error())
		return
	}
	if group == nil {
		writeJSONError(w, http.StatusNotFound, "group not found")
		return
	}

	detail := &GroupDetail{Group: *group}

	if detail.Asset, err = app.store.Asset.GetOpenByGroup(ctx, group.ID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to read group asset: "+err.Error())
		return
	}
	if detail.Bid, err = app.store.Bid.GetOpenByGroup(ctx, group.ID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to read group bid: "+err.Error())
		return
	}
	if detail.Vacancies, err = app.store.GroupVacancies.GetOpenByGroup(ctx, group.ID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to read group vacancies: "+err.Error())
		return
	}

	resp := &GetGroupResponse{
		Success: true,
		Data:    detail,
		Message: "Successfully fetched group",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
