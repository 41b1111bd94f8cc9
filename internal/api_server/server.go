package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/solarwerk/pv-planner/internal/config"
	"github.com/solarwerk/pv-planner/internal/events"
	"github.com/solarwerk/pv-planner/internal/export"
	handlers "github.com/solarwerk/pv-planner/internal/handlers/v1alpha1"
	"github.com/solarwerk/pv-planner/internal/service"
	"github.com/solarwerk/pv-planner/internal/store"
	"github.com/solarwerk/pv-planner/pkg/metrics"
	"github.com/solarwerk/pv-planner/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
	catalog  *service.CatalogCache
	uploader export.Uploader
	evWriter *events.EventProducer
}

// New returns a new instance of a pv-planner server.
// The catalog cache is shared with the caller, which owns its refresh loop.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
	catalog *service.CatalogCache,
	uploader export.Uploader,
	ew *events.EventProducer,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
		catalog:  catalog,
		uploader: uploader,
		evWriter: ew,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Service.CorsOrigins,
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   []string{"Content-Disposition", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.StripPrefix(s.cfg.Service.PathPrefix),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	bomSrv := service.NewBOMService(s.catalog, service.NewDerivationMemo(s.cfg.Service.Catalog.MemoSize))

	opts := []handlers.HandlerOption{handlers.WithEventProducer(s.evWriter)}
	if s.uploader != nil {
		opts = append(opts, handlers.WithExportUploader(s.uploader))
	}

	h := handlers.NewServiceHandler(
		bomSrv,
		service.NewMaterialService(s.store, bomSrv),
		service.NewParameterService(s.store, bomSrv),
		service.NewProjectService(s.store, bomSrv),
		opts...,
	)
	h.Routes(router)

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
