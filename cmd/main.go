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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	grpcctx "github.com/dtroode/admissions-server/internal/api/grpc/context"
	"github.com/dtroode/admissions-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/admissions-server/internal/api/grpc/server"
	httpapi "github.com/dtroode/admissions-server/internal/api/http"
	"github.com/dtroode/admissions-server/internal/config"
	"github.com/dtroode/admissions-server/internal/email"
	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/metrics"
	"github.com/dtroode/admissions-server/internal/model"
	"github.com/dtroode/admissions-server/internal/push/fcm"
	"github.com/dtroode/admissions-server/internal/repository/postgres"
	redisrepo "github.com/dtroode/admissions-server/internal/repository/redis"
	"github.com/dtroode/admissions-server/internal/server"
	"github.com/dtroode/admissions-server/internal/service"
	storage "github.com/dtroode/admissions-server/internal/storage/minio"
	"github.com/dtroode/admissions-server/internal/stream/rabbitmq"
	"github.com/dtroode/admissions-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)
	health := httpapi.NewHealth(cfg.HTTP.CheckTimeout)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()
	health.RegisterCheck("database", db.Ping)

	identityRepo := postgres.NewIdentityRepository(db, cfg.PasswordReset.BaseURL, cfg.PasswordReset.TTL)
	profileRepo := postgres.NewProfileRepository(db)
	orgConfigRepo := postgres.NewOrgConfigRepository(db)

	counterStore, closeCounter := newCounterStore(ctx, cfg, db, health, logger)
	defer closeCounter()

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
	health.RegisterCheck("storage", storageClient.Ping)

	pushGateway, err := fcm.NewClientFromCredentials(ctx, cfg.FCM.CredentialsFile, fcm.Options{
		Endpoint:  cfg.FCM.Endpoint,
		ProjectID: cfg.FCM.ProjectID,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize push gateway", "error", err)
	}

	emailSender := newEmailSender(cfg, logger)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL)

	location, err := time.LoadLocation(cfg.Admission.TimeZone)
	if err != nil {
		logger.Fatal("failed to load admission time zone", "error", err)
	}

	guard := service.NewGuard(profileRepo, logger)
	allocator := service.NewAllocator(counterStore, orgConfigRepo, service.AllocatorConfig{
		EpochStartMonth: time.Month(cfg.Admission.EpochStartMonth),
		EpochStartDay:   cfg.Admission.EpochStartDay,
		Location:        location,
		Width:           cfg.Admission.CounterWidth,
		MaxRetries:      cfg.Admission.MaxRetries,
		Backoff:         cfg.Admission.Backoff,
		Defaults: model.OrgConfig{
			IDPrefix:     cfg.Admission.DefaultPrefix,
			LocationCode: cfg.Admission.DefaultLocation,
			BranchCode:   cfg.Admission.DefaultBranch,
		},
	}, appMetrics, logger)
	provisioner := service.NewProvisioner(identityRepo, profileRepo, guard, allocator, cfg.Admission.StepTimeout, appMetrics, logger)
	account := service.NewAccount(identityRepo, profileRepo, emailSender, storageClient, guard, logger)

	audience := service.NewAudienceResolver(profileRepo, logger)
	fanout := service.NewFanout(audience, profileRepo, pushGateway, service.FanoutConfig{
		LookupParallelism: cfg.Fanout.LookupParallelism,
		BatchParallelism:  cfg.Fanout.BatchParallelism,
		BatchSize:         cfg.Fanout.BatchSize,
		CallTimeout:       cfg.Fanout.CallTimeout,
	}, appMetrics, logger)
	notifier := service.NewNotifier(fanout, pushGateway, logger)

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue, cfg.RabbitMQ.Parallelism, logger)
	if err != nil {
		logger.Fatal("failed to initialize content stream", "error", err)
	}
	defer consumer.Close()
	health.RegisterCheck("content_stream", consumer.Ping)

	grpcRouter := router.New(provisioner, account, tokenManager, grpcctx.NewManager(), appMetrics, logger)
	servers := []model.Server{
		grpcServer.NewGRPCServer(grpcRouter.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port)),
		httpapi.NewServer(fmt.Sprintf(":%s", cfg.HTTP.Port), httpapi.NewRouter(health, registry)),
	}

	var sl model.SecurityLayer
	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	for i, s := range servers {
		layer := sl
		if i > 0 {
			// The side port is scraped from inside the cluster.
			layer = server.NewPlainListener()
		}
		wg.Add(1)
		go func(s model.Server, layer model.SecurityLayer) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(layer); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
			}
		}(s, layer)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Subscribe(ctx, notifier); err != nil {
			logger.Error("content stream subscription ended", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	grpcRouter.Shutdown()
	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newCounterStore(
	ctx context.Context,
	cfg *config.Config,
	db *postgres.Connection,
	health *httpapi.Health,
	logger *logger.Logger,
) (model.CounterStore, func()) {
	if cfg.CounterBackend != config.CounterBackendRedis {
		health.RegisterCheck("counter", db.Ping)
		return postgres.NewCounterRepository(db), func() {}
	}

	client, err := redisrepo.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Fatal("failed to connect to redis", "error", err)
	}
	repo := redisrepo.NewCounterRepository(client)
	health.RegisterCheck("counter", repo.Ping)

	return repo, func() { _ = client.Close() }
}

func newEmailSender(cfg *config.Config, logger *logger.Logger) model.EmailSender {
	if cfg.Postmark.ServerToken == "" {
		logger.Warn("POSTMARK_SERVER_TOKEN is not set, password reset emails will only be logged")
		return email.NewLogSender(logger)
	}

	sender, err := email.NewPostmarkSender(email.Config{
		ServerToken:  cfg.Postmark.ServerToken,
		AccountToken: cfg.Postmark.AccountToken,
		SenderEmail:  cfg.Postmark.SenderEmail,
		SchoolName:   cfg.Postmark.SchoolName,
	})
	if err != nil {
		logger.Fatal("failed to initialize email sender", "error", err)
	}
	return sender
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
