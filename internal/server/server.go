package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/taka-shaka/matching-site-sub001/internal/account"
	adminapp "github.com/taka-shaka/matching-site-sub001/internal/admin/application"
	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/background"
	"github.com/taka-shaka/matching-site-sub001/internal/config"
	customerapp "github.com/taka-shaka/matching-site-sub001/internal/customer/application"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	adminhttp "github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/admin"
	commonhttp "github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
	customerhttp "github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/customer"
	memberhttp "github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/member"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/pages"
	publichttp "github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/public"
	"github.com/taka-shaka/matching-site-sub001/internal/logging"
	memberapp "github.com/taka-shaka/matching-site-sub001/internal/member/application"
	"github.com/taka-shaka/matching-site-sub001/internal/metrics"
	"github.com/taka-shaka/matching-site-sub001/internal/notification"
	publicapp "github.com/taka-shaka/matching-site-sub001/internal/public/application"
	"go.uber.org/zap"
)

// Repositories はストア実装（postgres / memory）が提供するリポジトリ一式。
type Repositories struct {
	Admins           domain.AdminRepository
	Members          domain.MemberRepository
	Companies        domain.CompanyRepository
	Customers        domain.CustomerRepository
	Cases            domain.CaseRepository
	Inquiries        domain.InquiryRepository
	GeneralInquiries domain.GeneralInquiryRepository
	Tags             domain.TagRepository
	ActivityLogs     domain.ActivityLogRepository
}

// Pinger はヘルスチェック対象のインフラ。
type Pinger interface {
	Ping(ctx context.Context) error
}

// Closer は停止時に解放するリソース。登録順に呼ばれる。
type Closer func(ctx context.Context) error

// Dependencies は cmd 側で生成したインフラ依存。
type Dependencies struct {
	Logger   *zap.Logger
	Repos    Repositories
	Identity domain.IdentityProvider
	Mailer   notification.Mailer
	Failures notification.FailureLog
	// Checks は /healthz で確認する名前付きの疎通先。
	Checks  map[string]Pinger
	Closers []Closer
}

// Server は HTTP サーバーのライフサイクルを管理し、各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger   *zap.Logger
	addr     string
	location *time.Location
	handler  http.Handler
	runner   *background.Runner
	checks   map[string]Pinger
	closers  []Closer
}

// New はアプリケーションサービスとハンドラを組み立てた Server を返す。
func New(cfg config.Config, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.FixedZone("JST", 9*60*60)
		logger.Warn("タイムゾーンの読み込みに失敗、JST を使用します", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	repos := deps.Repos
	runner := background.NewRunner(logger.Named("background"), 30*time.Second)
	recorder := audit.NewRecorder(repos.ActivityLogs, logger)
	notifier := notification.NewNotifier(notification.Config{
		Logger:      logger.Named("notification"),
		Mailer:      deps.Mailer,
		Failures:    deps.Failures,
		Runner:      runner,
		SiteBaseURL: cfg.SiteBaseURL,
		AdminEmail:  cfg.NotifyAdminEmail,
	})
	provisioner := account.NewProvisioner(deps.Identity, repos.Admins, repos.Members, repos.Customers, repos.Companies, logger.Named("account"))
	loader := auth.NewRecordLoader(repos.Admins, repos.Members, repos.Customers)
	sessions := auth.NewJWTSessionResolver(auth.JWTConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})
	guard := auth.NewGuard(sessions, loader)
	authService := publicapp.NewAuthService(deps.Identity, provisioner, loader, repos.Admins, repos.Customers, logger.Named("auth"))

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:            logger,
		Guard:             guard,
		CaseQueries:       publicapp.NewCaseQueryService(repos.Cases, runner),
		CompanyQueries:    publicapp.NewCompanyQueryService(repos.Companies, repos.Cases),
		TagQueries:        publicapp.NewTagQueryService(repos.Tags),
		InquiryCommands:   publicapp.NewInquiryCommandService(repos.Companies, repos.Inquiries, repos.GeneralInquiries, notifier),
		AuthService:       authService,
		CookieSecure:      cfg.CookieSecure,
		RateLimitRequests: cfg.RateLimit.Requests,
		RateLimitWindow:   cfg.RateLimit.Window,
	})
	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:                logger,
		Guard:                 guard,
		CompanyService:        adminapp.NewCompanyService(repos.Companies, repos.Members, repos.Tags, provisioner, recorder),
		MemberService:         adminapp.NewMemberService(repos.Members, provisioner, recorder),
		CustomerService:       adminapp.NewCustomerService(repos.Customers, provisioner, recorder),
		CaseService:           adminapp.NewCaseService(repos.Cases, recorder),
		InquiryService:        adminapp.NewInquiryService(repos.Inquiries, recorder),
		GeneralInquiryService: adminapp.NewGeneralInquiryService(repos.GeneralInquiries, notifier, recorder),
		TagService:            adminapp.NewTagService(repos.Tags, recorder),
		DashboardService: adminapp.NewDashboardService(adminapp.DashboardDeps{
			Companies:        repos.Companies,
			Members:          repos.Members,
			Customers:        repos.Customers,
			Cases:            repos.Cases,
			Inquiries:        repos.Inquiries,
			GeneralInquiries: repos.GeneralInquiries,
			ActivityLogs:     repos.ActivityLogs,
			Failures:         deps.Failures,
			Mailer:           deps.Mailer,
			Audit:            recorder,
		}),
	})
	memberHandler := memberhttp.NewHandler(memberhttp.Config{
		Logger:         logger,
		Guard:          guard,
		CompanyService: memberapp.NewCompanyService(repos.Companies, repos.Tags, recorder),
		StaffService:   memberapp.NewStaffService(repos.Members, provisioner, recorder),
		CaseService:    memberapp.NewCaseService(repos.Cases, repos.Tags, recorder),
		InquiryService: memberapp.NewInquiryService(repos.Inquiries, notifier, recorder),
	})
	customerHandler := customerhttp.NewHandler(customerhttp.Config{
		Logger:         logger,
		Guard:          guard,
		ProfileService: customerapp.NewProfileService(repos.Customers),
		InquiryService: customerapp.NewInquiryService(repos.Inquiries),
	})
	pageGuard := pages.NewMiddleware(pages.Config{
		Logger:       logger,
		Sessions:     sessions,
		Refresher:    authService,
		CookieSecure: cfg.CookieSecure,
	})

	srv := &Server{
		logger:   logger,
		addr:     cfg.Addr,
		location: loc,
		runner:   runner,
		checks:   deps.Checks,
		closers:  deps.Closers,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.RequestLogger(logger.Named("http")))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(metrics.Middleware)

	router.Get("/healthz", srv.healthHandler())
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", publicHandler.RegisterAuth)
		r.Route("/public", publicHandler.Register)
		r.Route("/admin", adminHandler.Register)
		r.Route("/member", memberHandler.Register)
		r.Route("/customer", customerHandler.Register)
	})
	router.Handle("/*", pageGuard.Handler(pages.Static(cfg.StaticDir)))

	srv.handler = router
	return srv
}

// Handler はミドルウェア込みのルータを返す。
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run は HTTP サーバーを起動し、シグナル受信まで待機する。
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP サーバー起動", zap.String("addr", s.addr))
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

// healthHandler は登録済みインフラへの疎通を確認する。ドメインの状態は返さない。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := make(map[string]string, len(s.checks))
		healthy := true
		for name, pinger := range s.checks {
			if err := pinger.Ping(ctx); err != nil {
				s.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
				checks[name] = err.Error()
				healthy = false
				continue
			}
			checks[name] = "ok"
		}

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		commonhttp.WriteJSON(s.logger, w, code, map[string]any{
			"status": status,
			"checks": checks,
			"time":   time.Now().In(s.location).Format(time.RFC3339),
		})
	}
}

// shutdown はバックグラウンド処理の完了を待ってから外部リソースを解放する。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.runner.Wait(shutdownCtx); err != nil {
		s.logger.Warn("バックグラウンド処理の完了待ちを打ち切りました", zap.Error(err))
	}
	for _, closer := range s.closers {
		if err := closer(shutdownCtx); err != nil {
			s.logger.Warn("リソース解放時にエラー", zap.Error(err))
		}
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Error("サーバーが異常終了", zap.Error(err))
			runErr = err
		}
	case sig := <-sigChan:
		srv.logger.Info("シグナルを受信、サーバー停止処理を開始します", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Warn("サーバー停止時にエラー", zap.Error(err))
		}
	}

	srv.shutdown(context.Background())
	return runErr
}
