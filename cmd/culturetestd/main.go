package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	api "github.com/mind-engage/culturetest/internal/api/http"
	"github.com/mind-engage/culturetest/internal/assessment"
	auth "github.com/mind-engage/culturetest/internal/auth/middleware"
	"github.com/mind-engage/culturetest/internal/config"
	"github.com/mind-engage/culturetest/internal/db"
	"github.com/mind-engage/culturetest/internal/generator"
	"github.com/mind-engage/culturetest/internal/grading"
	"github.com/mind-engage/culturetest/internal/lifecycle"
	"github.com/mind-engage/culturetest/internal/log"
	"github.com/mind-engage/culturetest/internal/metrics"
	syncx "github.com/mind-engage/culturetest/internal/sync"
)

func main() {
	cfg := config.FromEnv()
	log.SetLevel(cfg.LogLevel)

	if err := run(cfg); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Info("shutdown complete")
}

// run serves until SIGINT/SIGTERM; deferred cleanup happens before it returns.
func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Store ---
	var (
		dbh   *sql.DB
		store assessment.Store
	)
	if cfg.DBDriver == "memory" {
		store = assessment.NewMemoryStore()
	} else {
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		var err error
		dbh, err = db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		cancel()
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		defer dbh.Close()
		store = assessment.NewSQLStore(dbh)
	}

	opts := []lifecycle.Option{lifecycle.WithScoring(grading.WithAnsweredOnlyRange(cfg.AnsweredOnlyRange))}
	var events *syncx.EventRepo
	if dbh != nil {
		events = syncx.NewEventRepo(dbh, cfg.SiteID)
		opts = append(opts, lifecycle.WithEvents(events))
	}
	svc := lifecycle.New(store, opts...)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	deps := api.Deps{
		Service:  svc,
		Auth:     auth.NewAuthService(cfg.AuthHMACSecret),
		Editor:   auth.Credentials{User: cfg.EditorUser, PassHash: cfg.EditorPassHash},
		ShareURL: cfg.ShareURL,
	}
	if events != nil {
		deps.Events = events
	}
	if cfg.EnableGenerator {
		deps.Generator = &generator.Client{
			BaseURL: cfg.LLMBaseURL,
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
			HTTP:    &http.Client{Timeout: cfg.LLMTimeout + 5*time.Second},
		}
	}

	// Generation can take far longer than any other request.
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Timeout(cfg.LLMTimeout*2 + 10*time.Second))
		api.Mount(gr, deps)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if dbh != nil {
			if err := dbh.PingContext(r.Context()); err != nil {
				log.Warnf("readyz: %v", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	if cfg.EnableMetrics {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(log.Fields{
			"addr":      cfg.HTTPAddr,
			"mode":      cfg.Mode,
			"db":        cfg.DBDriver,
			"generator": cfg.EnableGenerator,
		}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
