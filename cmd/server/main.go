package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/soaringjerry/Guidance/internal/api"
	"github.com/soaringjerry/Guidance/internal/config"
	"github.com/soaringjerry/Guidance/internal/middleware"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := config.NewLogger(cfg.LogDir, cfg.Production())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rules, err := cfg.ChecklistRules()
	if err != nil {
		return err
	}
	store, err := openStore(cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn("close store", zap.Error(cerr))
		}
	}()
	insightCache, closeCache := openCache(ctx, cfg, log)
	defer closeCache()

	router := api.NewRouter(store, api.Options{
		Cache:           insightCache,
		Rules:           rules,
		HistoryWindow:   cfg.HistoryWindow(),
		AttentionWindow: cfg.AttentionWindow(),
		Log:             log,
	})
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.AttentionCron, func() {
		_ = router.Attention().Refresh(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule attention sweep %q: %w", cfg.AttentionCron, err)
	}
	if _, err := scheduler.AddFunc("@every 1h", func() {
		if n := limiter.Cleanup(); n > 0 {
			log.Debug("rate limiters cleaned", zap.Int("removed", n))
		}
	}); err != nil {
		return fmt.Errorf("schedule limiter cleanup: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	_ = router.Attention().Refresh(ctx)
	log.Info("attention sweep scheduled", zap.String("cron", cfg.AttentionCron))

	mux := http.NewServeMux()
	router.Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":   true,
			"name": "Guidance API",
			"env":  cfg.Environment,
		})
	})

	auth := middleware.NewAuth(cfg.JWTSecret)
	handler := middleware.Chain(mux,
		middleware.RequestLogger(log.Named("http")),
		middleware.CORS,
		middleware.SecureHeaders,
		middleware.NoStore,
		limiter.Middleware,
		auth.WithAuth,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("guidance server listening", zap.String("addr", cfg.Addr), zap.String("env", cfg.Environment))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
