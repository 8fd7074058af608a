package router

import (
	"database/sql"
	"net/http"
	"time"

	"pet-registry/internal/adapters/storage/instrumented"
	mem "pet-registry/internal/adapters/storage/memory"
	pg "pet-registry/internal/adapters/storage/postgres"
	_ "pet-registry/internal/docs"
	"pet-registry/internal/domain/pets"
	"pet-registry/internal/middleware"
	"pet-registry/internal/platform/idempotency"
	"pet-registry/internal/platform/logger"
	"pet-registry/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Repo explícito (tests). Si es nil se usa DB o, si tampoco hay, in-memory.
	Repo pets.Repository

	// Opcional: si viene, usa Postgres.
	DB *sql.DB

	// SeedDemo precarga el repo in-memory con los datos de demo.
	SeedDemo bool

	Logger logger.Logger

	// Metrics puede ser nil (sin /metrics ni instrumentación).
	Metrics     *metrics.Metrics
	MetricsPath string

	DocsEnabled bool

	// IdempotencyTTL <= 0 deshabilita Idempotency-Key.
	IdempotencyTTL time.Duration
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID(log))
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(log, opts.Metrics))
	r.Use(middleware.Recover(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, opts.Metrics.Handler())
	}

	if opts.DocsEnabled {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	petRepo := opts.Repo
	if petRepo == nil {
		switch {
		case opts.DB != nil:
			petRepo = pg.NewPetsRepo(opts.DB)
		case opts.SeedDemo:
			petRepo = mem.NewPetRepo(mem.DemoSeed()...)
		default:
			petRepo = mem.NewPetRepo()
		}
	}
	petRepo = instrumented.NewPetRepo(petRepo, opts.Metrics)

	petsSvc := pets.NewService(petRepo)
	pets.RegisterRoutes(r, petsSvc, pets.HandlerOptions{
		Idempotency: idempotency.New(opts.IdempotencyTTL),
		Logger:      log,
	})

	return r
}
