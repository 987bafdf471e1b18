package apiserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/odeislands/recap-planner/internal/auth"
	"github.com/odeislands/recap-planner/internal/config"
	handlers "github.com/odeislands/recap-planner/internal/handlers/v1alpha1"
	"github.com/odeislands/recap-planner/internal/service"
	"github.com/odeislands/recap-planner/internal/storage"
	"github.com/odeislands/recap-planner/internal/store"
	"github.com/odeislands/recap-planner/pkg/metrics"
	"github.com/odeislands/recap-planner/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of a recap-planner server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.Auth)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	objectStore, err := storage.NewMinioStore(
		storage.WithEndpoint(s.cfg.Storage.Endpoint),
		storage.WithBucket(s.cfg.Storage.Bucket),
		storage.WithAccessKey(s.cfg.Storage.AccessKey),
		storage.WithSecretKey(s.cfg.Storage.SecretKey),
		storage.WithSSL(s.cfg.Storage.UseSSL),
	)
	if err != nil {
		return fmt.Errorf("failed to create object storage client: %w", err)
	}
	prober := storage.NewCompletionProber(objectStore, s.cfg.Storage.ProbeTimeout)

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{s.cfg.Service.BaseUrl},
			AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		authenticator.Authenticator,
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	jobService := service.NewJobService(s.store, s.cfg.Service.JobRetention, s.cfg.Service.ChapterEncodingEstimate)
	h := handlers.NewServiceHandler(
		jobService,
		service.NewArtifactService(jobService),
		service.NewVideoService(prober, s.cfg.Storage.AllowOptimisticReadyOnStorageError),
	)
	h.Routes(router)

	scrubber := service.NewExpiryScrubber(s.store, s.cfg.Service.ExpirySweepInterval)
	go scrubber.Run(ctx)

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

	zap.S().Named("api_server").Infof("serving api: %s", s.cfg.Service.Address)
	if err := srv.Serve(s.listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
