package main

import (
	"context"
	"log"

	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/config"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/infrastructure/identity"
	"github.com/taka-shaka/matching-site-sub001/internal/infrastructure/memory"
	mongostore "github.com/taka-shaka/matching-site-sub001/internal/infrastructure/mongo"
	"github.com/taka-shaka/matching-site-sub001/internal/infrastructure/postgres"
	"github.com/taka-shaka/matching-site-sub001/internal/logging"
	"github.com/taka-shaka/matching-site-sub001/internal/notification"
	"github.com/taka-shaka/matching-site-sub001/internal/server"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	deps, err := buildDependencies(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("依存関係の初期化に失敗しました", zap.Error(err))
	}
	deps.Closers = append(deps.Closers, func(context.Context) error {
		_ = logger.Sync()
		return nil
	})

	app := server.New(cfg, deps)
	if err := app.Run(); err != nil {
		logger.Fatal("サーバー起動に失敗", zap.Error(err))
	}
}

// buildDependencies はストア・通知・認証基盤を設定に応じて選び、server へ渡す依存を組み立てる。
func buildDependencies(ctx context.Context, cfg config.Config, logger *zap.Logger) (server.Dependencies, error) {
	deps := server.Dependencies{
		Logger: logger,
		Checks: map[string]server.Pinger{},
	}
	fail := func(err error) (server.Dependencies, error) {
		for _, closer := range deps.Closers {
			_ = closer(ctx)
		}
		return server.Dependencies{}, err
	}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Warn("STORE_DRIVER=memory: データはプロセス終了時に失われます")
		deps.Repos = memoryRepositories(memory.NewStore())
	default:
		db, err := postgres.Open(ctx, postgres.Options{
			URL:             cfg.DatabaseURL,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
		}, logger.Named("postgres"))
		if err != nil {
			return fail(err)
		}
		deps.Closers = append(deps.Closers, func(context.Context) error { return postgres.Close(db) })
		if cfg.AutoMigrate {
			if err := postgres.AutoMigrate(ctx, db); err != nil {
				return fail(err)
			}
			logger.Info("スキーマのマイグレーションを実行しました")
		}
		deps.Repos = postgresRepositories(postgres.NewStore(db))
		deps.Checks["postgres"] = postgres.NewPinger(db)
	}

	if cfg.MongoURI != "" {
		client, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoTimeout)
		if err != nil {
			return fail(err)
		}
		deps.Closers = append(deps.Closers, client.Disconnect)
		repo := mongostore.NewFailedNotificationRepository(client.Database(cfg.MongoDatabase), cfg.FailedNotificationCollection)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Warn("failed_notifications のインデックス作成に失敗", zap.Error(err))
		}
		deps.Failures = repo
		deps.Checks["mongo"] = mongostore.NewPinger(client)
	} else {
		deps.Failures = notification.NewMemoryFailureLog()
	}

	if cfg.SMTP.Enabled() {
		deps.Mailer = notification.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		logger.Info("SMTP が未設定のため通知メールはログ出力のみ")
		deps.Mailer = notification.NewLogMailer(logger.Named("mail"))
	}

	deps.Identity = identityProvider(cfg, logger)
	return deps, nil
}

func identityProvider(cfg config.Config, logger *zap.Logger) domain.IdentityProvider {
	if cfg.IdentityConfigured() {
		return identity.NewSupabaseClient(identity.Config{
			URL:            cfg.Supabase.URL,
			AnonKey:        cfg.Supabase.AnonKey,
			ServiceRoleKey: cfg.Supabase.ServiceRoleKey,
			Timeout:        cfg.Supabase.Timeout,
		}, logger.Named("identity"))
	}
	logger.Warn("SUPABASE_URL などが未設定のため、プロセス内の認証基盤を使用します")
	return memory.NewIdentityProvider(auth.JWTConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})
}

func postgresRepositories(store *postgres.Store) server.Repositories {
	return server.Repositories{
		Admins:           store.Admins(),
		Members:          store.Members(),
		Companies:        store.Companies(),
		Customers:        store.Customers(),
		Cases:            store.Cases(),
		Inquiries:        store.Inquiries(),
		GeneralInquiries: store.GeneralInquiries(),
		Tags:             store.Tags(),
		ActivityLogs:     store.ActivityLogs(),
	}
}

func memoryRepositories(store *memory.Store) server.Repositories {
	return server.Repositories{
		Admins:           store.Admins(),
		Members:          store.Members(),
		Companies:        store.Companies(),
		Customers:        store.Customers(),
		Cases:            store.Cases(),
		Inquiries:        store.Inquiries(),
		GeneralInquiries: store.GeneralInquiries(),
		Tags:             store.Tags(),
		ActivityLogs:     store.ActivityLogs(),
	}
}
