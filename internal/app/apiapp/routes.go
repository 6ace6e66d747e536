package apiapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	devicessvc "github.com/OkayJosh/wrappai/internal/services/devices"
	interactionssvc "github.com/OkayJosh/wrappai/internal/services/interactions"
	mediasvc "github.com/OkayJosh/wrappai/internal/services/media"
	notificationssvc "github.com/OkayJosh/wrappai/internal/services/notifications"
	playlistssvc "github.com/OkayJosh/wrappai/internal/services/playlists"
	studiossvc "github.com/OkayJosh/wrappai/internal/services/studios"
	userssvc "github.com/OkayJosh/wrappai/internal/services/users"
)

type Dependencies struct {
	UserService         *userssvc.Service
	DeviceService       *devicessvc.Service
	StudioService       *studiossvc.Service
	PlaylistService     *playlistssvc.Service
	MediaService        *mediasvc.Service
	InteractionService  *interactionssvc.Service
	NotificationService *notificationssvc.Service
	Postgres            *pgxpool.Pool
	Redis               *goredis.Client
	Logger              *zap.Logger
}

// RegisterRoutes exposes only operational probes. The persistence core has no
// public API surface; callers embed the service packages directly.
func RegisterRoutes(r chi.Router, deps Dependencies) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		if deps.Postgres != nil {
			if err := deps.Postgres.Ping(ctx); err != nil {
				if deps.Logger != nil {
					deps.Logger.Warn("readiness check: postgres unreachable", zap.Error(err))
				}
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"postgres unavailable"}`))
				return
			}
		}
		if deps.Redis != nil {
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				if deps.Logger != nil {
					deps.Logger.Warn("readiness check: redis unreachable", zap.Error(err))
				}
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"redis unavailable"}`))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})
}
