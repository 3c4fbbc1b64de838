package member

import (
	"context"
	"net/http"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
	memberapp "github.com/taka-shaka/matching-site-sub001/internal/member/application"
)

func (h *Handler) inquiryListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := common.ParseInquiryStatus(r)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		inquiries, pagination, err := h.inquiryService.List(ctx, currentMember(r), domain.InquiryFilter{Status: status}, common.ParsePaging(r))
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

		inquiry, err := h.inquiryService.Detail(ctx, currentMember(r), id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"inquiry": common.NewInquiryResponse(*inquiry, true)})
	}
}

func (h *Handler) inquiryUpdateHandler() http.HandlerFunc {
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

		inquiry, err := h.inquiryService.Update(ctx, currentMember(r), id, memberapp.InquiryPatch{
			Status:        req.Status,
			InternalNotes: req.InternalNotes,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "inquiry", common.NewInquiryResponse(*inquiry, true))
	}
}

// inquiryReplyHandler appends a COMPANY response; the status moves NEW to
// IN_PROGRESS in the same transaction.
func (h *Handler) inquiryReplyHandler() http.HandlerFunc {
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

		inquiry, err := h.inquiryService.Reply(ctx, currentMember(r), id, req.Message)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusCreated, "inquiry", common.NewInquiryResponse(*inquiry, true))
	}
}
