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

func (h *Handler) tagListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var category domain.TagCategory
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			parsed, err := domain.ParseTagCategory(raw)
			if err != nil {
				common.WriteError(h.logger, w, r, err)
				return
			}
			category = parsed
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		tags, err := h.tagService.List(ctx, category)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"tags": common.NewTagResponses(tags)})
	}
}

func (h *Handler) tagCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tagCreateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		tag, err := h.tagService.Create(ctx, currentAdmin(r).ID, req.Name, domain.TagCategory(req.Category))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusCreated, "tag", common.NewTagResponse(*tag))
	}
}

func (h *Handler) tagUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var req tagUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		tag, err := h.tagService.Update(ctx, currentAdmin(r).ID, id, adminapp.TagPatch{Name: req.Name, Category: req.Category})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "tag", common.NewTagResponse(*tag))
	}
}

func (h *Handler) tagReorderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var req tagReorderRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		tag, err := h.tagService.Reorder(ctx, currentAdmin(r).ID, id, req.DisplayOrder)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "tag", common.NewTagResponse(*tag))
	}
}

func (h *Handler) tagDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.tagService.Delete(ctx, currentAdmin(r).ID, id); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "", nil)
	}
}
