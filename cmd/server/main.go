package main

import (
	"GoToDo/internal/bootstrap"
	"GoToDo/internal/config"
	"GoToDo/internal/handlers"
	"GoToDo/internal/middleware"
	"GoToDo/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, cleanup, err := bootstrap.Open(cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to initialize application", "error", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			sugar.Errorw("Failed to close database", "error", err)
		}
	}()

	if cfg.SeedDemo {
		seeded, err := service.SeedDemoData(ctx, app.Users, app.Lists, app.Items)
		if err != nil {
			sugar.Fatalw("failed to seed demo data", "error", err)
		}
		sugar.Infow("Demo seed", "seeded", seeded, "email", service.DemoEmail)
	}

	h := handlers.NewHandler(app.Users, app.Lists, app.Items, app.Tokens, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow(
		"Starting server",
		"addr", cfg.ServerURL,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"UploadDir", cfg.UploadDir,
		"MaxTreeDepth", cfg.MaxTreeDepth,
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Shutdown failed", "error", err)
		}
	}()

	if cfg.EnableHTTPS {
		err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}
