package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/account"
	adminapp "github.com/taka-shaka/matching-site-sub001/internal/admin/application"
	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/config"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/infrastructure/identity"
	"github.com/taka-shaka/matching-site-sub001/internal/infrastructure/postgres"
	"github.com/taka-shaka/matching-site-sub001/internal/logging"
	"go.uber.org/zap"
)

type seedOptions struct {
	migrate  bool
	skipTags bool
	timeout  time.Duration
}

// defaultTags は初期状態のタグカタログ。カテゴリ内の並び順がそのまま displayOrder になる。
var defaultTags = map[domain.TagCategory][]string{
	domain.TagCategoryHouseType:  {"注文住宅", "平屋", "二世帯住宅", "リノベーション", "店舗併用住宅"},
	domain.TagCategoryPriceRange: {"〜2000万円", "2000〜3000万円", "3000〜4000万円", "4000万円〜"},
	domain.TagCategoryStructure:  {"木造", "鉄骨造", "RC造", "2×4工法"},
	domain.TagCategoryAtmosphere: {"ナチュラル", "モダン", "和風", "北欧", "シンプル"},
	domain.TagCategoryPreference: {"高気密・高断熱", "耐震等級3", "ZEH", "自然素材", "ガレージ"},
}

func main() {
	opts := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = logger.Sync() }()

	if cfg.StoreDriver != config.DriverPostgres {
		logger.Fatal("seed は STORE_DRIVER=postgres でのみ実行できます")
	}
	if !cfg.IdentityConfigured() {
		logger.Fatal("SUPABASE_URL / SUPABASE_ANON_KEY / SUPABASE_SERVICE_ROLE_KEY を設定してください")
	}
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		logger.Fatal("SEED_ADMIN_EMAIL と SEED_ADMIN_PASSWORD を設定してください")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Fatal("seed に失敗しました", zap.Error(err))
	}
	logger.Info("seed が完了しました")
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.BoolVar(&opts.migrate, "migrate", true, "スキーマを AutoMigrate してから投入する")
	flag.BoolVar(&opts.skipTags, "skip-tags", false, "タグカタログを投入しない")
	flag.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "全体のタイムアウト")
	flag.Parse()
	return opts
}

func run(ctx context.Context, cfg config.Config, opts seedOptions, logger *zap.Logger) error {
	db, err := postgres.Open(ctx, postgres.Options{
		URL:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	}, logger.Named("postgres"))
	if err != nil {
		return err
	}
	defer func() { _ = postgres.Close(db) }()

	if opts.migrate {
		if err := postgres.AutoMigrate(ctx, db); err != nil {
			return err
		}
	}

	store := postgres.NewStore(db)
	idp := identity.NewSupabaseClient(identity.Config{
		URL:            cfg.Supabase.URL,
		AnonKey:        cfg.Supabase.AnonKey,
		ServiceRoleKey: cfg.Supabase.ServiceRoleKey,
		Timeout:        cfg.Supabase.Timeout,
	}, logger.Named("identity"))
	provisioner := account.NewProvisioner(idp, store.Admins(), store.Members(), store.Customers(), store.Companies(), logger)

	admin, created, err := provisioner.EnsureAdmin(ctx, account.AdminInput{
		Name:     cfg.SeedAdminName,
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
		Role:     domain.AdminRoleSuperAdmin,
	})
	if err != nil {
		return err
	}
	logger.Info("管理者アカウント", zap.String("email", admin.Email), zap.Bool("created", created))

	if opts.skipTags {
		return nil
	}
	tags := adminapp.NewTagService(store.Tags(), audit.NewRecorder(store.ActivityLogs(), logger))
	return seedTags(ctx, store.Tags(), tags, admin.ID, logger)
}

// seedTags は未登録の名前だけを追加する。既存タグの並び順には触れない。
func seedTags(ctx context.Context, repo domain.TagRepository, service adminapp.TagService, adminID uint, logger *zap.Logger) error {
	inserted := 0
	for _, category := range domain.TagCategories {
		for _, name := range defaultTags[category] {
			exists, err := repo.ExistsByName(ctx, name, 0)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			if _, err := service.Create(ctx, adminID, name, category); err != nil {
				return err
			}
			inserted++
		}
	}
	logger.Info("タグを投入しました", zap.Int("inserted", inserted))
	return nil
}
