package public

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
		query := r.URL.Query()
		minBudget, err := common.ParseOptionalInt(r, "minBudget")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		maxBudget, err := common.ParseOptionalInt(r, "maxBudget")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		companyID, err := common.ParseOptionalUint(r, "companyId")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		tagIDs, err := common.ParseIDList(r, "tagIds")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		filter := domain.CaseFilter{
			CompanyID:  companyID,
			Prefecture: strings.TrimSpace(query.Get("prefecture")),
			MinBudget:  minBudget,
			MaxBudget:  maxBudget,
			TagIDs:     tagIDs,
			Search:     strings.TrimSpace(query.Get("search")),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		cases, pagination, err := h.caseQueries.List(ctx, filter, common.ParsePaging(r))
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

// caseDetailHandler answers 404 for drafts so their existence is not leaked.
func (h *Handler) caseDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		c, err := h.caseQueries.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"case": common.NewCaseResponse(*c)})
	}
}

func (h *Handler) companyListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		tagIDs, err := common.ParseIDList(r, "tagIds")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		filter := domain.CompanyFilter{
			Search:     strings.TrimSpace(query.Get("search")),
			Prefecture: strings.TrimSpace(query.Get("prefecture")),
			TagIDs:     tagIDs,
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		companies, pagination, err := h.companyQueries.List(ctx, filter, common.ParsePaging(r))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"companies":  common.NewCompanyResponses(companies),
			"pagination": pagination,
		})
	}
}

func (h *Handler) companyDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		detail, err := h.companyQueries.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"company": companyDetailResponse{
			CompanyResponse: common.NewCompanyResponse(detail.Company),
			Cases:           common.NewCaseResponses(detail.Cases),
		}})
	}
}

func (h *Handler) tagListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		groups, err := h.tagQueries.Grouped(ctx)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		items := make([]tagGroupResponse, 0, len(groups))
		for _, group := range groups {
			items = append(items, tagGroupResponse{Category: string(group.Category), Tags: common.NewTagResponses(group.Tags)})
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"tagGroups": items})
	}
}
