package member

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
)

func (h *Handler) caseListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := common.ParseCaseStatus(r)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		filter := domain.CaseFilter{Status: status, Search: strings.TrimSpace(r.URL.Query().Get("search"))}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		cases, pagination, err := h.caseService.List(ctx, currentMember(r), filter, common.ParsePaging(r))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"cases":      common.NewCaseResponses(cases),
			"pagination": pagination,
		})
	}
}

func (h *Handler) caseDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		c, err := h.caseService.Detail(ctx, currentMember(r), id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"case": common.NewCaseResponse(*c)})
	}
}

func (h *Handler) caseCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req caseRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		c, err := h.caseService.Create(ctx, currentMember(r), req.command())
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusCreated, "case", common.NewCaseResponse(*c))
	}
}

func (h *Handler) caseUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var req caseRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		c, err := h.caseService.Update(ctx, currentMember(r), id, req.command())
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "case", common.NewCaseResponse(*c))
	}
}

func (h *Handler) caseDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.caseService.Delete(ctx, currentMember(r), id); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "", nil)
	}
}
