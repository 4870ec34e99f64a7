package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/idea"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/org"
	"hrms/internal/domain/reports"
	"hrms/internal/domain/salary"
	"hrms/internal/domain/shift"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
	audithandler "hrms/internal/transport/http/handlers/audit"
	authhandler "hrms/internal/transport/http/handlers/auth"
	ideahandler "hrms/internal/transport/http/handlers/idea"
	leavehandler "hrms/internal/transport/http/handlers/leave"
	orghandler "hrms/internal/transport/http/handlers/org"
	reportshandler "hrms/internal/transport/http/handlers/reports"
	salaryhandler "hrms/internal/transport/http/handlers/salary"
	shifthandler "hrms/internal/transport/http/handlers/shift"
	"hrms/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	Pool   *pgxpool.Pool
	Router http.Handler
}

// New connects to the database, runs migrations and seeding when
// configured, and wires the full HTTP surface.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config invalid: %w", err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	return &App{
		Config: cfg,
		Pool:   pool,
		Router: newRouter(cfg, pool),
	}, nil
}

func (a *App) Close() {
	a.Pool.Close()
}

func Run() {
	app, err := New(context.Background(), config.Load())
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	log.Printf("HRMS server listening on %s", app.Config.Addr)
	if err := http.ListenAndServe(app.Config.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func newRouter(cfg config.Config, pool *pgxpool.Pool) http.Handler {
	auditSvc := audit.New(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(auth.NewStore(pool), cfg)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/refresh", authHandler.HandleRefresh)
			r.Post("/logout", authHandler.HandleLogout)
			r.With(middleware.RequireAuth).Get("/me", authHandler.HandleMe)
			r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/users", authHandler.HandleListUsers)
			r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/register", authHandler.HandleRegister)
		})

		orghandler.NewHandler(org.NewService(org.NewStore(pool)), auditSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leave.NewService(leave.NewStore(pool)), auditSvc).RegisterRoutes(r)
		salaryhandler.NewHandler(salary.NewService(salary.NewStore(pool)), auditSvc).RegisterRoutes(r)
		shifthandler.NewHandler(shift.NewService(shift.NewStore(pool)), auditSvc).RegisterRoutes(r)
		ideahandler.NewHandler(idea.NewService(idea.NewStore(pool)), auditSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reports.NewService(reports.NewStore(pool))).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
	})

	return router
}
