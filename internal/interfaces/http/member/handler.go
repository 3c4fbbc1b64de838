// Package member serves /api/member for company staff. Every route is scoped
// to the signed-in member's own company.
package member

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
	memberapp "github.com/taka-shaka/matching-site-sub001/internal/member/application"
	"go.uber.org/zap"
)

// Handler wires member HTTP endpoints to application services.
type Handler struct {
	logger         *zap.Logger
	guard          *auth.Guard
	companyService memberapp.CompanyService
	staffService   memberapp.StaffService
	caseService    memberapp.CaseService
	inquiryService memberapp.InquiryService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger         *zap.Logger
	Guard          *auth.Guard
	CompanyService memberapp.CompanyService
	StaffService   memberapp.StaffService
	CaseService    memberapp.CaseService
	InquiryService memberapp.InquiryService
}

func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:         logger.Named("member"),
		guard:          cfg.Guard,
		companyService: cfg.CompanyService,
		staffService:   cfg.StaffService,
		caseService:    cfg.CaseService,
		inquiryService: cfg.InquiryService,
	}
}

// Register mounts member routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Use(common.RequireMember(h.guard, h.logger))

	r.Get("/me", h.meHandler())
	r.Get("/company", h.companyHandler())
	r.Patch("/company", h.companyUpdateHandler())
	r.Put("/company/tags", h.companyTagsHandler())

	r.Get("/members", h.staffListHandler())
	r.Post("/members", h.staffCreateHandler())

	r.Get("/cases", h.caseListHandler())
	r.Post("/cases", h.caseCreateHandler())
	r.Get("/cases/{id}", h.caseDetailHandler())
	r.Patch("/cases/{id}", h.caseUpdateHandler())
	r.Delete("/cases/{id}", h.caseDeleteHandler())

	r.Get("/inquiries", h.inquiryListHandler())
	r.Get("/inquiries/{id}", h.inquiryDetailHandler())
	r.Patch("/inquiries/{id}", h.inquiryUpdateHandler())
	r.Post("/inquiries/{id}/reply", h.inquiryReplyHandler())
}

func currentMember(r *http.Request) *domain.Member {
	member, _ := common.MemberFromContext(r.Context())
	return member
}
