package public

import (
	"context"
	"net/http"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
	publicapp "github.com/taka-shaka/matching-site-sub001/internal/public/application"
	"go.uber.org/zap"
)

// inquiryCreateHandler accepts an inquiry from anyone. A valid customer
// session links the inquiry to that customer; the body never can.
func (h *Handler) inquiryCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req inquiryCreateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		inquiry, err := h.inquiryCommands.Submit(ctx, h.optionalCustomer(ctx, r), publicapp.SubmitInquiryCommand{
			CompanyID:     req.CompanyID,
			InquirerName:  req.InquirerName,
			InquirerEmail: req.InquirerEmail,
			InquirerPhone: req.InquirerPhone,
			Message:       req.Message,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusCreated, "inquiry", common.NewInquiryResponse(*inquiry, false))
	}
}

func (h *Handler) generalInquiryCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generalInquiryCreateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		inquiry, err := h.inquiryCommands.SubmitGeneral(ctx, publicapp.SubmitGeneralInquiryCommand{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Subject: req.Subject,
			Message: req.Message,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusCreated, "inquiryId", inquiry.ID)
	}
}

func (h *Handler) optionalCustomer(ctx context.Context, r *http.Request) *domain.Customer {
	if h.guard == nil {
		return nil
	}
	customer, err := h.guard.RequireCustomer(ctx, r)
	if err != nil {
		h.logger.Debug("inquiry submitted without customer session", zap.Error(err))
		return nil
	}
	return customer
}
