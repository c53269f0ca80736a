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
	"go.uber.org/zap"

	api "github.com/mind-engage/mindengage-comments/internal/api/http"
	auth "github.com/mind-engage/mindengage-comments/internal/auth/middleware"
	"github.com/mind-engage/mindengage-comments/internal/bank"
	"github.com/mind-engage/mindengage-comments/internal/comment"
	"github.com/mind-engage/mindengage-comments/internal/config"
	"github.com/mind-engage/mindengage-comments/internal/db"
	"github.com/mind-engage/mindengage-comments/internal/logging"
	"github.com/mind-engage/mindengage-comments/internal/report"
	"github.com/mind-engage/mindengage-comments/internal/session"
	"github.com/mind-engage/mindengage-comments/internal/storage"
	syncx "github.com/mind-engage/mindengage-comments/internal/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("commentd stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer dbh.Close()

	// --- Banks ---
	banks, bankStore, err := bankSource(cfg, dbh)
	if err != nil {
		return err
	}

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}
	events := syncx.NewEventRepo(dbh)

	reports := report.NewService(banks,
		comment.New(comment.WithTarget(cfg.TargetChars)),
		report.WithEvents(events),
		report.WithBlobStore(bs),
		report.WithLogger(log.Named("report")),
		report.WithTitle(cfg.ReportTitle),
	)

	deps := api.Deps{
		Reports:  reports,
		Sessions: session.NewMemoryStore(session.WithTTL(cfg.SessionTTL)),
		Events:   events,
		Auth:     auth.NewAuthService(cfg.AuthSecret),
		Admin:    auth.Admin{User: cfg.AdminUser, PassHash: cfg.AdminPassHash},
		ServeUI:  cfg.ServeUI,
		Log:      log.Named("http"),
	}
	if cfg.EnableBankAPI && bankStore != nil {
		deps.BankStore = bankStore
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, api.RequestLogger(deps.Log), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	api.Mount(r, deps)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("mode", string(cfg.Mode)),
			zap.String("db", cfg.DBDriver),
			zap.String("banks", cfg.BankSource),
			zap.Int("target", reports.Target()),
		)
		errCh <- srv.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case s := <-sig:
		log.Info("shutting down", zap.String("signal", s.String()))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

// bankSource layers the configured bank source over the built-in banks. The
// SQL store is returned when it is in use so uploads can be mounted.
func bankSource(cfg config.Config, dbh *sql.DB) (bank.Source, *bank.SQLStore, error) {
	builtin, err := bank.Builtin()
	if err != nil {
		return nil, nil, fmt.Errorf("builtin banks: %w", err)
	}
	switch cfg.BankSource {
	case config.BankSourceBuiltin, "":
		return builtin, nil, nil
	case config.BankSourceDir:
		dir, err := bank.LoadDir(cfg.BankDir)
		if err != nil {
			return nil, nil, fmt.Errorf("bank dir %s: %w", cfg.BankDir, err)
		}
		return bank.Chain{dir, builtin}, nil, nil
	case config.BankSourceDB:
		st := bank.NewSQLStore(dbh)
		return bank.Chain{st, builtin}, st, nil
	default:
		return nil, nil, fmt.Errorf("unknown BANK_SOURCE %q", cfg.BankSource)
	}
}
