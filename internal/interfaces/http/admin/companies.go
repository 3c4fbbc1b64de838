package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	adminapp "github.com/taka-shaka/matching-site-sub001/internal/admin/application"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
)

func (h *Handler) companyListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		isPublished, err := common.ParseOptionalBool(r, "isPublished")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		tagIDs, err := common.ParseIDList(r, "tagIds")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		filter := domain.CompanyFilter{
			Search:      strings.TrimSpace(query.Get("search")),
			Prefecture:  strings.TrimSpace(query.Get("prefecture")),
			IsPublished: isPublished,
			TagIDs:      tagIDs,
		}
		paging := common.ParsePaging(r)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		companies, pagination, err := h.companyService.List(ctx, filter, paging)
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

		company, err := h.companyService.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"company": common.NewCompanyResponse(*company)})
	}
}

func (h *Handler) companyCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req companyRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		company, err := h.companyService.Create(ctx, currentAdmin(r).ID, req.createCommand())
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusCreated, "company", common.NewCompanyResponse(*company))
	}
}

func (h *Handler) companyUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var req companyRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		admin := currentAdmin(r)
		company, err := h.companyService.Update(ctx, admin.ID, id, adminapp.CompanyPatch{
			Profile:     req.profile(),
			IsPublished: req.IsPublished,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		// PATCH may carry tagIds as well; they replace the current set.
		if req.TagIDs != nil {
			if company, err = h.companyService.ReplaceTags(ctx, admin.ID, id, req.TagIDs); err != nil {
				common.WriteError(h.logger, w, r, err)
				return
			}
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "company", common.NewCompanyResponse(*company))
	}
}

func (h *Handler) companyDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := h.companyService.Delete(ctx, currentAdmin(r).ID, id); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "", nil)
	}
}

func (h *Handler) companyTagsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var req tagIDsRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		company, err := h.companyService.ReplaceTags(ctx, currentAdmin(r).ID, id, req.TagIDs)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "company", common.NewCompanyResponse(*company))
	}
}
