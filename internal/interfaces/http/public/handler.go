package public

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
	publicapp "github.com/taka-shaka/matching-site-sub001/internal/public/application"
	"go.uber.org/zap"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger          *zap.Logger
	guard           *auth.Guard
	caseQueries     publicapp.CaseQueryService
	companyQueries  publicapp.CompanyQueryService
	tagQueries      publicapp.TagQueryService
	inquiryCommands publicapp.InquiryCommandService
	authService     publicapp.AuthService
	cookieSecure    bool
	limiter         func(http.Handler) http.Handler
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger          *zap.Logger
	Guard           *auth.Guard
	CaseQueries     publicapp.CaseQueryService
	CompanyQueries  publicapp.CompanyQueryService
	TagQueries      publicapp.TagQueryService
	InquiryCommands publicapp.InquiryCommandService
	AuthService     publicapp.AuthService
	CookieSecure    bool
	// RateLimitRequests per RateLimitWindow and client IP for inquiry posts.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("public")
	return &Handler{
		logger:          logger,
		guard:           cfg.Guard,
		caseQueries:     cfg.CaseQueries,
		companyQueries:  cfg.CompanyQueries,
		tagQueries:      cfg.TagQueries,
		inquiryCommands: cfg.InquiryCommands,
		authService:     cfg.AuthService,
		cookieSecure:    cfg.CookieSecure,
		limiter:         common.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow, logger),
	}
}

// Register mounts the anonymous marketplace routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/cases", h.caseListHandler())
	r.Get("/cases/{id}", h.caseDetailHandler())
	r.Get("/companies", h.companyListHandler())
	r.Get("/companies/{id}", h.companyDetailHandler())
	r.Get("/tags", h.tagListHandler())
	r.With(h.limiter).Post("/inquiries", h.inquiryCreateHandler())
	r.With(h.limiter).Post("/general-inquiries", h.generalInquiryCreateHandler())
}

// RegisterAuth mounts the account endpoints shared by every role.
func (h *Handler) RegisterAuth(r chi.Router) {
	r.With(h.limiter).Post("/signup", h.signupHandler())
	r.With(h.limiter).Post("/login", h.loginHandler())
	r.Post("/logout", h.logoutHandler())
	r.Get("/me", h.meHandler())
}
