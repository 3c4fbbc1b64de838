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

func (h *Handler) caseListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := common.ParseOptionalUint(r, "companyId")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		status, err := common.ParseCaseStatus(r)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		filter := domain.CaseFilter{
			CompanyID: companyID,
			Status:    status,
			Search:    strings.TrimSpace(r.URL.Query().Get("search")),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		cases, pagination, err := h.caseService.List(ctx, filter, common.ParsePaging(r))
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

		c, err := h.caseService.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"case": common.NewCaseResponse(*c)})
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

		if err := h.caseService.Delete(ctx, currentAdmin(r).ID, id); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "", nil)
	}
}

func (h *Handler) inquiryListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := common.ParseOptionalUint(r, "companyId")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		status, err := common.ParseInquiryStatus(r)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		inquiries, pagination, err := h.inquiryService.List(ctx, domain.InquiryFilter{CompanyID: companyID, Status: status}, common.ParsePaging(r))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"inquiries":  common.NewInquiryResponses(inquiries, true),
			"pagination": pagination,
		})
	}
}

func (h *Handler) inquiryDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		inquiry, err := h.inquiryService.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"inquiry": common.NewInquiryResponse(*inquiry, true)})
	}
}

func (h *Handler) inquiryDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.inquiryService.Delete(ctx, currentAdmin(r).ID, id); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "", nil)
	}
}

func (h *Handler) generalInquiryListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := common.ParseInquiryStatus(r)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		inquiries, pagination, err := h.generalInquiryService.List(ctx, domain.GeneralInquiryFilter{Status: status}, common.ParsePaging(r))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		items := make([]common.GeneralInquiryResponse, 0, len(inquiries))
		for _, inquiry := range inquiries {
			items = append(items, common.NewGeneralInquiryResponse(inquiry))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"inquiries":  items,
			"pagination": pagination,
		})
	}
}

func (h *Handler) generalInquiryDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		inquiry, err := h.generalInquiryService.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"inquiry": common.NewGeneralInquiryResponse(*inquiry)})
	}
}

func (h *Handler) generalInquiryUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var req inquiryUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		inquiry, err := h.generalInquiryService.Update(ctx, currentAdmin(r).ID, id, adminapp.InquiryPatch{
			Status:        req.Status,
			InternalNotes: req.InternalNotes,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "inquiry", common.NewGeneralInquiryResponse(*inquiry))
	}
}

func (h *Handler) generalInquiryReplyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := common.ParseID(r, "id")
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		var req replyRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		inquiry, err := h.generalInquiryService.Reply(ctx, currentAdmin(r).ID, id, req.Message)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusCreated, "inquiry", common.NewGeneralInquiryResponse(*inquiry))
	}
}
