// Time-clock record store API:
//
// POST /api/v1/records                     # Idempotent punch insert (auth)
// GET  /api/v1/records                     # Records in a range (auth)
// GET  /api/v1/records/offline/{offlineId} # Lookup by correlation token (auth)
// GET  /api/v1/health                      # Health check (public)

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	healthAPI "punchclock/internal/app/server/api/http/health"
	"punchclock/internal/app/server/api/http/middleware"
	"punchclock/internal/app/server/api/http/middleware/auth"
	"punchclock/internal/app/server/api/http/middleware/logger"
	recordAPI "punchclock/internal/app/server/api/http/record"
	"punchclock/internal/app/server/config"
	"punchclock/internal/domain/punch"
	"punchclock/internal/infrastructure/storage/postgres"
)

type Handlers struct {
	Health *healthAPI.Handler
	Record *recordAPI.Handler
}

// New builds a *chi.Mux with all operations registered through
// huma.Register.
func New(cfg *config.Config, storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("Punchclock API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaConfig)

	h := handlers(cfg, storage, log)
	h.Health.SetupRoutes(API)
	h.Record.SetupRoutes(API)

	return mux
}

func handlers(cfg *config.Config, storage *postgres.Storage, log *slog.Logger) *Handlers {
	registry := auth.NewStaticRegistry(cfg.Auth.Tokens)
	authMW := auth.New(registry, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	recordRepo := postgres.NewRecordRepository(storage.Pool(), log)
	recordService := punch.NewService(recordRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	recordHandler := recordAPI.NewHandler(recordService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		Record: recordHandler,
	}
}
