package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"google.golang.org/grpc/reflection"

	grpcctx "github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/context"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/handler"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/router"
	grpcServer "github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/api/grpc/server"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/config"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/messaging"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/repository/postgres"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/secret"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/server"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/service"
	storage "github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/storage/minio"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// minTrustScore is the score a device gets when a user trusts it explicitly.
const minTrustScore = 0.8

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, cfg.Database.AutoMigrate)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	hasher, err := secret.NewHasher(cfg.Secrets.Pepper)
	if err != nil {
		logger.Fatal("failed to initialize hasher", "error", err)
	}
	generator := secret.Random{}

	userRepo := postgres.NewUserRepository(db)
	tenantRepo := postgres.NewTenantRepository(db)
	accessRepo := postgres.NewTenantAccessRepository(db)
	credentialRepo := postgres.NewCredentialRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	deviceRepo := postgres.NewDeviceRepository(db)
	rateLimitRepo := postgres.NewRateLimitRepository(db)
	familyRepo := postgres.NewFamilyRepository(db)
	privacyRepo := postgres.NewPrivacyRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	auditService := service.NewAudit(auditRepo, logger)
	limiter := service.NewRateLimiter(rateLimitRepo, hasher, service.RateLimitConfig{
		CredentialMax:    cfg.RateLimit.CredentialMax,
		CredentialWindow: cfg.RateLimit.CredentialWindow,
		APIPerMinute:     cfg.RateLimit.APIPerMinute,
		APIPerHour:       cfg.RateLimit.APIPerHour,
	}.Rules(), logger)
	devices := service.NewDevices(deviceRepo, token.NewJWT(cfg.Hint.Secret), auditService, logger, service.DevicesConfig{
		AutoThreshold:    cfg.Recognition.AutoThreshold,
		SuggestThreshold: cfg.Recognition.SuggestThreshold,
		TrustDays:        cfg.Recognition.TrustDays,
		MinTrustScore:    minTrustScore,
		HintTTL:          cfg.Hint.TTL,
	})
	credentialService := service.NewCredentials(credentialRepo, userRepo, tenantRepo, limiter, newMessenger(cfg.Messaging, logger),
		auditService, hasher, generator, logger, service.CredentialsConfig{
			MagicLinkTTL: cfg.Auth.MagicLinkTTL,
			SMSPinTTL:    cfg.Auth.SMSPinTTL,
			PINLength:    cfg.Auth.SMSPinLength,
			MaxAttempts:  cfg.Auth.MaxVerifyAttempts,
			PhoneRegion:  cfg.Auth.PhoneRegion,
			BaseURL:      cfg.Messaging.BaseURL,
		})
	sessions := service.NewSessions(sessionRepo, devices, hasher, generator, auditService, logger, cfg.Auth.SessionTTL)
	tenantAccess := service.NewTenantAccess(accessRepo, auditService, logger)
	directory := service.NewDirectory(tenantRepo, logger)
	families := service.NewFamilies(familyRepo, generator, auditService, logger)
	privacy, err := service.NewPrivacy(privacyRepo, auditService, logger)
	if err != nil {
		logger.Fatal("failed to initialize privacy service", "error", err)
	}
	authService := service.NewAuth(credentialService, sessions, devices, tenantAccess, userRepo, auditService, logger, service.AuthConfig{
		ElderlyMode:  cfg.Auth.ElderlyMode,
		LockDuration: cfg.Auth.LockDuration,
	})

	var archive model.AuditArchive
	if cfg.Storage.Enabled {
		minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
			Secure: cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Fatal("failed to create minio client", "error", err)
		}
		storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
		archive = storageClient
	}

	sweeper := service.NewSweeper(credentialRepo, sessionRepo, rateLimitRepo, auditRepo, archive, logger, service.SweeperConfig{
		Interval:            cfg.Sweep.Interval,
		CredentialRetention: cfg.Sweep.CredentialRetention,
		RateLimitRetention:  cfg.Sweep.RateLimitRetention,
		AuditRetention:      cfg.Sweep.AuditRetention,
		AuditBatch:          cfg.Sweep.AuditBatch,
	})

	trustedProxies, err := grpcctx.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		logger.Fatal("failed to parse trusted proxies", "error", err)
	}

	r := router.New(router.Deps{
		Auth:    authService,
		Tenants: directory,
		Account: handler.AccountDeps{
			Sessions: authService,
			Admin:    sessions,
			Tenants:  tenantAccess,
			Devices:  devices,
			Families: families,
			Privacy:  privacy,
			Audit:    auditService,
		},
		Sessions:       sessions,
		Limiter:        limiter,
		ContextManager: grpcctx.NewManager(trustedProxies...),
		Logger:         logger,
	})
	s := r.Register()
	reflection.Register(s)
	srv := grpcServer.NewGRPCServer(s, fmt.Sprintf(":%s", cfg.GRPC.Port))

	var sl model.SecurityLayer
	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	sweepCtx, cancelSweep := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sweeper.Run(sweepCtx)
	}()
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")
	r.Health().Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}
	cancelSweep()

	wg.Wait()
	logger.Info("shutdown complete")
}

func newMessenger(cfg config.Messaging, logger *logger.Logger) model.Messenger {
	if cfg.Driver == "webhook" {
		return messaging.NewWebhook(cfg.URL, cfg.Token, cfg.Timeout)
	}
	return messaging.NewLog(logger)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
