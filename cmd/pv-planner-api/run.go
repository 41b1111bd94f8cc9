package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiserver "github.com/solarwerk/pv-planner/internal/api_server"
	"github.com/solarwerk/pv-planner/internal/config"
	"github.com/solarwerk/pv-planner/internal/events"
	"github.com/solarwerk/pv-planner/internal/export"
	"github.com/solarwerk/pv-planner/internal/service"
	"github.com/solarwerk/pv-planner/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pv-planner api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		undo := setupLogger(cfg)
		defer undo()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		if err := migrate(ctx, cfg, db, s); err != nil {
			zap.S().Fatalw("running migrations", "error", err)
		}

		catalog := service.NewCatalogCache(s)
		go catalog.Run(ctx, cfg.Service.Catalog.RefreshInterval)

		var uploader export.Uploader
		if cfg.Service.Export.Endpoint != "" {
			minioUploader, err := export.NewMinioUploader(
				export.WithEndpoint(cfg.Service.Export.Endpoint),
				export.WithBucket(cfg.Service.Export.Bucket),
				export.WithCredentials(cfg.Service.Export.AccessKey, cfg.Service.Export.SecretKey),
				export.WithSSL(cfg.Service.Export.UseSSL),
			)
			if err != nil {
				zap.S().Errorw("failed to create export uploader, archiving disabled", "error", err)
			} else {
				uploader = minioUploader
			}
		}

		producer := events.NewEventProducer(events.NewStdoutWriter(), events.WithBufferSize(cfg.Service.EventsBufferSize))
		defer func() { _ = producer.Close() }()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, s, listener, catalog, uploader, producer)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalw("Error running server", "error", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener, s)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalw("Error running metrics server", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}
