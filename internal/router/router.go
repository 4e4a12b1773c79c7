package router

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	mem "showclinic-backend/internal/adapters/storage/memory"
	pg "showclinic-backend/internal/adapters/storage/postgres"
	"showclinic-backend/internal/config"
	"showclinic-backend/internal/domain/inventory"
	"showclinic-backend/internal/domain/patients"
	"showclinic-backend/internal/domain/reports"
	"showclinic-backend/internal/domain/sessions"
	"showclinic-backend/internal/domain/specialists"
	"showclinic-backend/internal/domain/treatments"
	"showclinic-backend/internal/domain/users"
	"showclinic-backend/internal/middleware"
	"showclinic-backend/internal/platform/uploads"
	"showclinic-backend/internal/ports/auth"
)

type Options struct {
	Config *config.Config
	Logger zerolog.Logger

	// Opcional: si viene, usa Postgres. Si no, repos in-memory.
	DB *sql.DB

	Uploads *uploads.Store
}

func NewRouter(opts Options) http.Handler {
	cfg := opts.Config

	var (
		patientRepo    patients.Repository
		treatmentRepo  treatments.Repository
		sessionRepo    sessions.Repository
		inventoryRepo  inventory.Repository
		specialistRepo specialists.Repository
		userRepo       users.Repository
		reportRepo     reports.Repository
	)

	if opts.DB != nil {
		patientRepo = pg.NewPatientsRepo(opts.DB)
		treatmentRepo = pg.NewTreatmentsRepo(opts.DB)
		sessionRepo = pg.NewSessionsRepo(opts.DB)
		inventoryRepo = pg.NewInventoryRepo(opts.DB)
		specialistRepo = pg.NewSpecialistsRepo(opts.DB)
		userRepo = pg.NewUsersRepo(opts.DB)
		reportRepo = pg.NewReportsRepo(opts.DB)
	} else {
		mPatients := mem.NewPatientsRepo()
		mTreatments := mem.NewTreatmentsRepo()
		mInventory := mem.NewInventoryRepo()
		mSessions := mem.NewSessionsRepo(mInventory, mTreatments)

		patientRepo = mPatients
		treatmentRepo = mTreatments
		sessionRepo = mSessions
		inventoryRepo = mInventory
		specialistRepo = mem.NewSpecialistsRepo()
		userRepo = mem.NewUsersRepo()
		reportRepo = mem.NewReportsRepo(mSessions, mPatients, mTreatments)
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	patientsSvc := patients.NewService(patientRepo)
	treatmentsSvc := treatments.NewService(treatmentRepo)
	sessionsSvc := sessions.NewService(sessionRepo, sessions.Options{
		MatchStockByName: cfg.StockMatchByName,
	})
	inventorySvc := inventory.NewService(inventoryRepo)
	specialistsSvc := specialists.NewService(specialistRepo)
	reportsSvc := reports.NewService(reportRepo)

	if err := usersSvc.EnsureDefaultUsers(context.Background(), ""); err != nil {
		opts.Logger.Error().Err(err).Msg("seed default users")
	}

	// Sin secreto configurado no hay verifier: modo dev con headers de debug.
	var verifier auth.AuthVerifier
	if cfg.JWTSecret != "" {
		verifier = usersSvc
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Debug-User-ID", "X-Debug-Role"},
	}))
	r.Use(middleware.RequestLogger(opts.Logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	users.RegisterRoutes(r, usersSvc)

	// Archivos subidos (fotos y PDFs) servidos tal cual por nombre.
	if opts.Uploads != nil {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.Uploads.Dir())))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	// Rutas protegidas
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthContext(verifier))

		patients.RegisterRoutes(r, patientsSvc)
		treatments.RegisterRoutes(r, treatmentsSvc)
		sessions.RegisterRoutes(r, sessionsSvc, patientsSvc, opts.Uploads)
		inventory.RegisterRoutes(r, inventorySvc, opts.Uploads)
		specialists.RegisterRoutes(r, specialistsSvc)
		reports.RegisterRoutes(r, reportsSvc)
	})

	return r
}
