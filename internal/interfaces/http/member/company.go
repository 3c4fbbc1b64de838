package member

import (
	"context"
	"net/http"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/account"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
)

func (h *Handler) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"member": common.NewMemberResponse(*currentMember(r))})
	}
}

func (h *Handler) companyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		company, err := h.companyService.Profile(ctx, currentMember(r))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"company": common.NewCompanyResponse(*company)})
	}
}

func (h *Handler) companyUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req companyProfileRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		company, err := h.companyService.UpdateProfile(ctx, currentMember(r), req.patch())
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "company", common.NewCompanyResponse(*company))
	}
}

func (h *Handler) companyTagsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tagIDsRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		company, err := h.companyService.ReplaceTags(ctx, currentMember(r), req.TagIDs)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "company", common.NewCompanyResponse(*company))
	}
}

func (h *Handler) staffListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		members, pagination, err := h.staffService.List(ctx, currentMember(r), common.ParsePaging(r))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"members":    common.NewMemberResponses(members),
			"pagination": pagination,
		})
	}
}

func (h *Handler) staffCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req staffCreateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		member, err := h.staffService.Create(ctx, currentMember(r), account.MemberInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     domain.MemberRole(req.Role),
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusCreated, "member", common.NewMemberResponse(*member))
	}
}
