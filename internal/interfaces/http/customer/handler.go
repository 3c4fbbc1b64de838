// Package customer serves /api/customer: the signed-in customer's profile
// and inquiry threads.
package customer

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	customerapp "github.com/taka-shaka/matching-site-sub001/internal/customer/application"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
	"go.uber.org/zap"
)

// Handler wires customer HTTP endpoints to application services.
type Handler struct {
	logger         *zap.Logger
	guard          *auth.Guard
	profileService customerapp.ProfileService
	inquiryService customerapp.InquiryService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger         *zap.Logger
	Guard          *auth.Guard
	ProfileService customerapp.ProfileService
	InquiryService customerapp.InquiryService
}

func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:         logger.Named("customer"),
		guard:          cfg.Guard,
		profileService: cfg.ProfileService,
		inquiryService: cfg.InquiryService,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Use(common.RequireCustomer(h.guard, h.logger))

	r.Get("/profile", h.profileHandler())
	r.Patch("/profile", h.profileUpdateHandler())
	r.Get("/inquiries", h.inquiryListHandler())
	r.Get("/inquiries/{id}", h.inquiryDetailHandler())
	r.Post("/inquiries/{id}/reply", h.inquiryReplyHandler())
}

type profileRequest struct {
	LastName    *string `json:"lastName" label:"姓" validate:"omitempty,max=50"`
	FirstName   *string `json:"firstName" label:"名" validate:"omitempty,max=50"`
	PhoneNumber *string `json:"phoneNumber" label:"電話番号" validate:"omitempty,max=20"`
}

type replyRequest struct {
	Message string `json:"message" label:"返信内容" validate:"required"`
}

func currentCustomer(r *http.Request) *domain.Customer {
	customer, _ := common.CustomerFromContext(r.Context())
	return customer
}

func (h *Handler) profileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		customer, err := h.profileService.Profile(ctx, currentCustomer(r))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"customer": common.NewCustomerResponse(*customer)})
	}
}

func (h *Handler) profileUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		customer, err := h.profileService.Update(ctx, currentCustomer(r), customerapp.ProfilePatch{
			LastName:    req.LastName,
			FirstName:   req.FirstName,
			PhoneNumber: req.PhoneNumber,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "customer", common.NewCustomerResponse(*customer))
	}
}

// Customers never see the company's internal notes.
func (h *Handler) inquiryListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := common.ParseInquiryStatus(r)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		inquiries, pagination, err := h.inquiryService.List(ctx, currentCustomer(r), domain.InquiryFilter{Status: status}, common.ParsePaging(r))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"inquiries":  common.NewInquiryResponses(inquiries, false),
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

		inquiry, err := h.inquiryService.Detail(ctx, currentCustomer(r), id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"inquiry": common.NewInquiryResponse(*inquiry, false)})
	}
}

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

		inquiry, err := h.inquiryService.Reply(ctx, currentCustomer(r), id, req.Message)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusCreated, "inquiry", common.NewInquiryResponse(*inquiry, false))
	}
}
