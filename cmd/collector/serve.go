package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/leads-generator/collector/internal/auth"
	"github.com/octobees/leads-generator/collector/internal/collector"
	"github.com/octobees/leads-generator/collector/internal/handler"
	middlewarepkg "github.com/octobees/leads-generator/collector/internal/middleware"
	"github.com/octobees/leads-generator/collector/internal/repository"
	"github.com/octobees/leads-generator/collector/internal/router"
	"github.com/octobees/leads-generator/collector/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset over HTTP and accept collection triggers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := zap.L()

		companiesRepo := repository.NewFileCompaniesRepository(cfg.OutputPath)
		if err := companiesRepo.Load(ctx); err != nil {
			return eris.Wrapf(err, "load dataset %s", cfg.OutputPath)
		}

		pipeline, err := collector.New(ctx, cfg, log)
		if err != nil {
			return eris.Wrap(err, "build pipeline")
		}

		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
		authService := service.NewAuthService(cfg.AdminEmail, cfg.AdminPasswordHash, jwtManager)
		if !authService.Enabled() {
			log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD_HASH not set, login disabled")
		}
		companiesService := service.NewCompaniesService(companiesRepo)
		collectService := service.NewCollectService(ctx, service.PipelineRunner(pipeline), companiesRepo, pipeline.Query(), log)

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true

		e.Use(middlewarepkg.RequestID())
		e.Use(middlewarepkg.AccessLog(log))
		e.Use(echoMiddleware.Recover())

		router.Register(e, cfg, jwtManager, router.Handlers{
			Auth:      handler.NewAuthHandler(authService),
			Companies: handler.NewCompaniesHandler(companiesService),
			Collect:   handler.NewCollectHandler(collectService, log),
		})

		port, _ := cmd.Flags().GetString("port")
		if port == "" {
			port = cfg.Port
		}

		serverErr := make(chan error, 1)
		go func() {
			serverErr <- e.Start(":" + port)
		}()
		log.Info("starting server",
			zap.String("port", port),
			zap.String("dataset", companiesRepo.Path()))

		select {
		case <-ctx.Done():
			log.Info("shutting down server")
		case err := <-serverErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown failed", zap.Error(err))
		}

		// Runs observe ctx and finish with an interrupted outcome.
		collectService.Wait()
		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "", "server port (default from PORT)")
	rootCmd.AddCommand(serveCmd)
}
