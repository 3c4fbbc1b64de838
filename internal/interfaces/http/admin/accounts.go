package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/account"
	adminapp "github.com/taka-shaka/matching-site-sub001/internal/admin/application"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
)

func (h *Handler) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"admin": common.NewAdminResponse(*currentAdmin(r))})
	}
}

func (h *Handler) memberListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := common.ParseOptionalUint(r, "companyId")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		filter := domain.MemberFilter{CompanyID: companyID, Search: strings.TrimSpace(r.URL.Query().Get("search"))}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		members, pagination, err := h.memberService.List(ctx, filter, common.ParsePaging(r))
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

func (h *Handler) memberDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		member, err := h.memberService.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"member": common.NewMemberResponse(*member)})
	}
}

func (h *Handler) memberCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req memberCreateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		// The identity provider round-trip is slower than a plain insert.
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		member, err := h.memberService.Create(ctx, currentAdmin(r).ID, account.MemberInput{
			Name:      req.Name,
			Email:     req.Email,
			Password:  req.Password,
			Role:      domain.MemberRole(req.Role),
			CompanyID: req.CompanyID,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusCreated, "member", common.NewMemberResponse(*member))
	}
}

func (h *Handler) memberUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var req memberUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		member, err := h.memberService.Update(ctx, currentAdmin(r).ID, id, adminapp.MemberPatch{
			Name:     req.Name,
			Role:     req.Role,
			IsActive: req.IsActive,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "member", common.NewMemberResponse(*member))
	}
}

func (h *Handler) memberDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := h.memberService.Delete(ctx, currentAdmin(r).ID, id); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "", nil)
	}
}

func (h *Handler) customerListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isActive, err := common.ParseOptionalBool(r, "isActive")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		filter := domain.CustomerFilter{Search: strings.TrimSpace(r.URL.Query().Get("search")), IsActive: isActive}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		customers, pagination, err := h.customerService.List(ctx, filter, common.ParsePaging(r))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"customers":  common.NewCustomerResponses(customers),
			"pagination": pagination,
		})
	}
}

func (h *Handler) customerDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		customer, err := h.customerService.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"customer": common.NewCustomerResponse(*customer)})
	}
}

func (h *Handler) customerUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var req customerUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		customer, err := h.customerService.SetActive(ctx, currentAdmin(r).ID, id, *req.IsActive)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "customer", common.NewCustomerResponse(*customer))
	}
}

func (h *Handler) customerDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := h.customerService.Delete(ctx, currentAdmin(r).ID, id); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "", nil)
	}
}
