package server

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof" //nolint:gosec
	"os"
	"os/signal"
	"syscall"

	"hoststatus/pkg/config"
	"hoststatus/pkg/log"
	"hoststatus/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// StatusCollector builds the report served on GET /.
type StatusCollector interface {
	Collect(ctx context.Context) (*models.StatusReport, error)
}

// ContainerStopper stops every running container.
type ContainerStopper interface {
	StopAll(ctx context.Context) (string, error)
}

// NodeProbe reports numeric host information.
type NodeProbe interface {
	NodeInfo(storagePath string) (*models.NodeInfo, error)
}

type HostStatusServer struct {
	cfg     config.Config
	version string
	echo    *echo.Echo
	status  StatusCollector
	stopper ContainerStopper
	node    NodeProbe
}

func NewHostStatusServer(cfg config.Config, version string, status StatusCollector, stopper ContainerStopper, node NodeProbe) *HostStatusServer {
	return &HostStatusServer{
		cfg:     cfg,
		version: version,
		echo:    echo.New(),
		status:  status,
		stopper: stopper,
		node:    node,
	}
}

func (hs *HostStatusServer) Start() error {
	hs.setupRoutes()

	if hs.cfg.Debug {
		go func() {
			log.Info().Msgf("Starting pprof server on %s", hs.cfg.DebugAddr)
			log.Info().Msgf("%+v", http.ListenAndServe(hs.cfg.DebugAddr, nil)) //nolint:gosec
		}()
	}

	addr := hs.cfg.Addr()
	go func() {
		log.Info().
			Str("addr", addr).
			Str("service", hs.cfg.ServiceName).
			Str("version", hs.version).
			Msgf("%s listening at http://localhost:%d", hs.cfg.ServiceName, hs.cfg.Port)

		if err := hs.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return hs.Shutdown()
}

// Shutdown waits up to the configured timeout for in-flight requests.
// Subprocesses started by those requests are not killed.
func (hs *HostStatusServer) Shutdown() error {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), hs.cfg.ShutdownTimeout)
	defer cancel()

	if err := hs.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	log.Info().Msg("Server gracefully stopped")
	return nil
}

func (hs *HostStatusServer) setupRoutes() {
	hs.echo.HideBanner = true
	hs.echo.HidePort = true

	hs.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	hs.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${id} ${status} ${method} ${uri} (${latency_human})\n",
	}))
	hs.echo.Use(middleware.Recover())

	hs.echo.GET("/", hs.getStatus)
	hs.echo.POST("/stop", hs.stopContainers)
	hs.echo.GET("/node/info", hs.getNodeInfo)
	hs.echo.GET("/healthz", hs.getHealth)
	hs.echo.GET("/docs", hs.serveSwaggerUI)
	hs.echo.GET("/swagger.yml", hs.serveSwaggerSpec)
}

func requestID(ctx echo.Context) string {
	return ctx.Response().Header().Get(echo.HeaderXRequestID)
}

// detached keeps request values but drops cancellation, so a client hanging
// up does not kill subprocesses already started for it.
func detached(ctx echo.Context) context.Context {
	return context.WithoutCancel(ctx.Request().Context())
}
