package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/OkayJosh/wrappai/internal/config"
	s3infra "github.com/OkayJosh/wrappai/internal/infra/s3"
	"github.com/OkayJosh/wrappai/internal/jobs/cleanup"
	"github.com/OkayJosh/wrappai/internal/jobs/dispatch"
	pgrepo "github.com/OkayJosh/wrappai/internal/repo/postgres"
	redrepo "github.com/OkayJosh/wrappai/internal/repo/redis"
	devicessvc "github.com/OkayJosh/wrappai/internal/services/devices"
	interactionssvc "github.com/OkayJosh/wrappai/internal/services/interactions"
	mediasvc "github.com/OkayJosh/wrappai/internal/services/media"
	notificationssvc "github.com/OkayJosh/wrappai/internal/services/notifications"
	playlistssvc "github.com/OkayJosh/wrappai/internal/services/playlists"
	studiossvc "github.com/OkayJosh/wrappai/internal/services/studios"
	userssvc "github.com/OkayJosh/wrappai/internal/services/users"
)

type App struct {
	cfg      config.Config
	logger   *zap.Logger
	server   *http.Server
	postgres *pgxpool.Pool
	redis    *goredis.Client
	s3       *minio.Client

	dispatchJob *dispatch.Job
	cleanupJob  *cleanup.Job
	stopJobs    context.CancelFunc

	httpRouter http.Handler
}

// New wires the whole persistence core. Postgres is mandatory: the data model
// is the product here, so a failed pool init fails startup instead of
// degrading.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	signedURLRepo := redrepo.NewSignedURLRepo(redisClient)

	userRepo := pgrepo.NewUserRepo(pool)
	deviceRepo := pgrepo.NewDeviceRepo(pool)
	studioRepo := pgrepo.NewStudioRepo(pool)
	playlistRepo := pgrepo.NewPlaylistRepo(pool)
	mediaRepo := pgrepo.NewMediaRepo(pool)
	interactionRepo := pgrepo.NewInteractionRepo(pool)
	notificationRepo := pgrepo.NewNotificationRepo(pool)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Region:    cfg.S3.Region,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, media uploads will be unavailable", zap.Error(err))
	} else {
		s3Client = c
	}
	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)

	userService := userssvc.NewService(userRepo)
	deviceService := devicessvc.NewService(deviceRepo, userRepo)
	studioService := studiossvc.NewService(studioRepo, userRepo)
	playlistService := playlistssvc.NewService(playlistRepo, studioRepo, mediaRepo)
	mediaService := mediasvc.NewService(mediaRepo, mediaStorage, signedURLRepo, mediasvc.Config{
		StorageProvider: "minio",
		HostingLocation: cfg.S3.Region,
		SignedURLTTL:    cfg.Media.SignedURLTTL,
	}, log)
	interactionService := interactionssvc.NewService(interactionRepo, userRepo)
	notificationService := notificationssvc.NewService(notificationRepo, userRepo, studioRepo)

	dispatchJob := dispatch.New(notificationService, logGateway{log}, cfg.Dispatch.BatchSize, log)
	cleanupJob := cleanup.New(mediaRepo, mediaStorage, cfg.Cleanup.Retention, log)

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)
	RegisterRoutes(r, Dependencies{
		UserService:         userService,
		DeviceService:       deviceService,
		StudioService:       studioService,
		PlaylistService:     playlistService,
		MediaService:        mediaService,
		InteractionService:  interactionService,
		NotificationService: notificationService,
		Postgres:            pool,
		Redis:               redisClient,
		Logger:              log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:         cfg,
		logger:      log,
		server:      server,
		postgres:    pool,
		redis:       redisClient,
		s3:          s3Client,
		dispatchJob: dispatchJob,
		cleanupJob:  cleanupJob,
		httpRouter:  r,
	}, nil
}

func (a *App) Run() error {
	jobsCtx, cancel := context.WithCancel(context.Background())
	a.stopJobs = cancel
	go a.runJob(jobsCtx, "notification dispatch", a.dispatchJob.Run, a.cfg.Dispatch.Interval)
	go a.runJob(jobsCtx, "media cleanup", a.cleanupJob.Run, a.cfg.Cleanup.Interval)

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) runJob(ctx context.Context, name string, run func(context.Context) error, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := run(ctx); err != nil {
				a.logger.Error("background job failed", zap.String("job", name), zap.Error(err))
			}
		}
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if a.stopJobs != nil {
		a.stopJobs()
	}
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
