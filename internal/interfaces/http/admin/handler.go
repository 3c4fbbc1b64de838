package admin

import (
	"github.com/go-chi/chi/v5"
	adminapp "github.com/taka-shaka/matching-site-sub001/internal/admin/application"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
	"go.uber.org/zap"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger                *zap.Logger
	guard                 *auth.Guard
	companyService        adminapp.CompanyService
	memberService         adminapp.MemberService
	customerService       adminapp.CustomerService
	caseService           adminapp.CaseService
	inquiryService        adminapp.InquiryService
	generalInquiryService adminapp.GeneralInquiryService
	tagService            adminapp.TagService
	dashboardService      adminapp.DashboardService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger                *zap.Logger
	Guard                 *auth.Guard
	CompanyService        adminapp.CompanyService
	MemberService         adminapp.MemberService
	CustomerService       adminapp.CustomerService
	CaseService           adminapp.CaseService
	InquiryService        adminapp.InquiryService
	GeneralInquiryService adminapp.GeneralInquiryService
	TagService            adminapp.TagService
	DashboardService      adminapp.DashboardService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:                logger.Named("admin"),
		guard:                 cfg.Guard,
		companyService:        cfg.CompanyService,
		memberService:         cfg.MemberService,
		customerService:       cfg.CustomerService,
		caseService:           cfg.CaseService,
		inquiryService:        cfg.InquiryService,
		generalInquiryService: cfg.GeneralInquiryService,
		tagService:            cfg.TagService,
		dashboardService:      cfg.DashboardService,
	}
}

// Register mounts admin routes onto router. Every route requires an admin session.
func (h *Handler) Register(r chi.Router) {
	r.Use(common.RequireAdmin(h.guard, h.logger))

	r.Get("/me", h.meHandler())
	r.Get("/stats", h.statsHandler())

	r.Get("/companies", h.companyListHandler())
	r.Post("/companies", h.companyCreateHandler())
	r.Get("/companies/{id}", h.companyDetailHandler())
	r.Patch("/companies/{id}", h.companyUpdateHandler())
	r.Delete("/companies/{id}", h.companyDeleteHandler())
	r.Put("/companies/{id}/tags", h.companyTagsHandler())

	r.Get("/members", h.memberListHandler())
	r.Post("/members", h.memberCreateHandler())
	r.Get("/members/{id}", h.memberDetailHandler())
	r.Patch("/members/{id}", h.memberUpdateHandler())
	r.Delete("/members/{id}", h.memberDeleteHandler())

	r.Get("/customers", h.customerListHandler())
	r.Get("/customers/{id}", h.customerDetailHandler())
	r.Patch("/customers/{id}", h.customerUpdateHandler())
	r.Delete("/customers/{id}", h.customerDeleteHandler())

	r.Get("/cases", h.caseListHandler())
	r.Get("/cases/{id}", h.caseDetailHandler())
	r.Delete("/cases/{id}", h.caseDeleteHandler())

	r.Get("/inquiries", h.inquiryListHandler())
	r.Get("/inquiries/{id}", h.inquiryDetailHandler())
	r.Delete("/inquiries/{id}", h.inquiryDeleteHandler())

	r.Get("/general-inquiries", h.generalInquiryListHandler())
	r.Get("/general-inquiries/{id}", h.generalInquiryDetailHandler())
	r.Patch("/general-inquiries/{id}", h.generalInquiryUpdateHandler())
	r.Post("/general-inquiries/{id}/reply", h.generalInquiryReplyHandler())

	r.Get("/tags", h.tagListHandler())
	r.Post("/tags", h.tagCreateHandler())
	r.Patch("/tags/{id}", h.tagUpdateHandler())
	r.Patch("/tags/{id}/order", h.tagReorderHandler())
	r.Delete("/tags/{id}", h.tagDeleteHandler())

	r.Get("/activity-logs", h.activityLogListHandler())
	r.Get("/notifications/failed", h.failedNotificationListHandler())
	r.Post("/notifications/{id}/resend", h.notificationResendHandler())
}
