package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobmarket-backend/config"
	_ "jobmarket-backend/docs" // Important for Swagger
	"jobmarket-backend/internal/db"
	"jobmarket-backend/internal/delivery/http/middleware"
	v1 "jobmarket-backend/internal/delivery/http/v1"
	"jobmarket-backend/internal/repository/postgres"
	"jobmarket-backend/internal/usecase"
	"jobmarket-backend/pkg/database"
	"jobmarket-backend/pkg/email"
	"jobmarket-backend/pkg/logger"
	"jobmarket-backend/pkg/mq"
	"jobmarket-backend/pkg/redis"
	"jobmarket-backend/pkg/security"
	"jobmarket-backend/pkg/security/antivirus"
	"jobmarket-backend/pkg/storage"
	"jobmarket-backend/pkg/token"
	"jobmarket-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
}

func serve(ctx context.Context, cfg *config.Config) error {
	// 1. Setup Loggers
	logger.Init(cfg.LogLevel)
	environment := "development"
	if cfg.GinMode == gin.ReleaseMode {
		environment = "production"
	}
	secLog := security.InitSecurityLogger("jobmarket-backend", environment)
	defer func() { _ = secLog.Sync() }()
	gin.SetMode(cfg.GinMode)
	logger.Log.Info("Starting job marketplace backend", "port", cfg.Port)

	// 2. Setup Database
	if !skipMigrations {
		if err := db.Up(cfg.DBUrl, cfg.MigrationsURL); err != nil {
			return err
		}
	}
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.PoolConfig{
		MaxConns:       cfg.DBMaxConns,
		MinConns:       cfg.DBMinConns,
		SimpleProtocol: cfg.DBSimpleProtocol,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer dbPool.Close()

	// 3. Setup Redis; every consumer degrades to in-memory or no-op state without it
	var redisCheck func(context.Context) error
	blacklist := token.Blacklist(token.NewMemoryBlacklist())
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, continuing without it", "error", err)
		}
	} else {
		defer redis.Close()
		redisCheck = redis.HealthCheck
		blacklist = token.NewRedisBlacklist(redis.Client())
	}

	// 4. Setup Blob Storage
	store, err := storage.New(ctx, storageConfig(cfg))
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	var mediaRoot string
	if local, ok := store.(*storage.LocalStorage); ok {
		mediaRoot = local.Root()
	}
	if cfg.ClamAVAddress != "" {
		scanner := antivirus.NewClamAVScanner(cfg.ClamAVAddress, cfg.ClamAVTimeout)
		if !scanner.Available(ctx) {
			logger.Log.Warn("ClamAV is not answering; uploads will be rejected until it is", "address", cfg.ClamAVAddress)
		}
		store = storage.Scanned(store, scanner)
	}

	// 5. Setup Event Publishing
	var publisher mq.Publisher = mq.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		rabbit, err := mq.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			logger.Log.Warn("RabbitMQ unavailable, events will be dropped", "error", err)
		} else {
			publisher = rabbit
		}
	}
	defer publisher.Close()

	// 6. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - verification and reset emails will fail")
	}

	// 7. Setup Tokens and Login Protection
	tokens := token.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, blacklist)
	resets := token.NewResetTokens(cfg.JWTSecret, cfg.PasswordResetTTL)

	trackerCfg := security.DefaultLoginTrackerConfig()
	trackerCfg.MaxAttempts = cfg.FailedLoginMaxAttempts
	trackerCfg.IPMaxAttempts = cfg.FailedLoginIPMaxAttempts
	trackerCfg.BlockDuration = time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute
	tracker := security.NewLoginTracker(redis.Client(), trackerCfg, secLog)

	validate := validator.New()
	validation.RegisterValidators(validate)

	// 8. Setup Repositories
	accountRepo := postgres.NewAccountRepository(dbPool)
	verificationRepo := postgres.NewVerificationRepository(dbPool)
	resumeRepo := postgres.NewResumeRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	companyRepo := postgres.NewCompanyRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	postRepo := postgres.NewPostRepository(dbPool)

	// 9. Setup UseCases
	authUC := usecase.NewAuthUsecase(accountRepo, verificationRepo, tokens, resets, emailService, tracker, secLog, validate, cfg.FrontendURL)
	profileUC := usecase.NewProfileUsecase(accountRepo, resumeRepo, profileRepo, store)
	jobUC := usecase.NewJobUsecase(jobRepo, companyRepo)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, profileRepo, publisher)
	companyUC := usecase.NewCompanyUsecase(companyRepo, store)
	communityUC := usecase.NewCommunityUsecase(postRepo, store)
	healthUC := usecase.NewHealthUsecase(dbPool, redisCheck)

	// 10. Setup Router
	var uploadLimiter middleware.UploadAllower
	if redis.Client() != nil {
		uploadLimiter = security.NewUploadLimiter(cfg.UploadRatePerMinute, cfg.UploadRatePerDay)
	}
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		ProfileUC:     profileUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		CompanyUC:     companyUC,
		CommunityUC:   communityUC,
		HealthUC:      healthUC,
		UploadLimiter: uploadLimiter,
		MediaRoot:     mediaRoot,
		Config:        cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("listen failed: %w", err)
	case <-quit:
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
	return nil
}

// storageConfig picks the settings for the backend named by STORAGE_TYPE.
func storageConfig(cfg *config.Config) storage.Config {
	sc := storage.Config{
		Type:     cfg.StorageType,
		BasePath: cfg.LocalStoragePath,
		BaseURL:  cfg.LocalStorageURL,
		Region:   cfg.S3Region,
	}
	switch cfg.StorageType {
	case "s3":
		sc.Bucket = cfg.S3Bucket
		sc.AccessKey = cfg.S3AccessKeyID
		sc.SecretKey = cfg.S3SecretKey
		sc.Endpoint = cfg.S3Endpoint
		sc.PublicURL = cfg.S3PublicURL
	case "minio":
		sc.Bucket = cfg.MinioBucket
		sc.AccessKey = cfg.MinioAccessKey
		sc.SecretKey = cfg.MinioSecretKey
		sc.Endpoint = cfg.MinioEndpoint
		sc.UseSSL = cfg.MinioUseSSL
		sc.PublicURL = cfg.MinioPublicURL
	}
	return sc
}
