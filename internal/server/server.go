// Package server hosts the OMAG server platform: the HTTP listener, its middleware and the
// routes of every access service registered with it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	_ "github.com/MihaiIliescu/egeria/docs"
	"github.com/MihaiIliescu/egeria/internal/apiutil"
	assetmanager "github.com/MihaiIliescu/egeria/internal/assetmanager/server"
	"github.com/MihaiIliescu/egeria/internal/config"
	"github.com/MihaiIliescu/egeria/internal/security"
	"github.com/MihaiIliescu/egeria/internal/ws"
	apierrors "github.com/MihaiIliescu/egeria/pkg/errors"
)

const (
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Server is the platform HTTP server.
type Server struct {
	cfg         config.ServerConfig
	serviceName string
	instances   *assetmanager.InstanceHandler
	logger      *zap.Logger
	gatherer    prometheus.Gatherer
	hub         *ws.Hub
	httpServer  *http.Server
}

// Option customises a Server.
type Option func(*Server)

// WithGatherer serves /metrics from g instead of the default prometheus registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithEventStream serves the out topic events broadcast on hub to websocket clients.
func WithEventStream(hub *ws.Hub) Option {
	return func(s *Server) { s.hub = hub }
}

// NewServer creates a platform server for the asset manager instances.
func NewServer(cfg config.ServerConfig, serviceName string, instances *assetmanager.InstanceHandler,
	logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:         cfg,
		serviceName: serviceName,
		instances:   instances,
		logger:      logger,
		gatherer:    prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with the platform middleware and routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()

	router.Use(ginzap.Ginzap(s.logger, time.RFC3339, true))
	router.Use(otelgin.Middleware(s.serviceName))
	router.Use(apiutil.Recovery(s.logger))
	router.Use(s.corsMiddleware())

	router.NoRoute(apiutil.RouteNotFound)

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	services := assetmanager.NewLineageExchangeRESTServices(s.instances, s.logger)
	assetmanager.NewLineageExchangeResource(services, s.logger).RegisterRoutes(router)
	if s.hub != nil {
		router.GET(assetmanager.BasePath+"/topics/out-topic-stream", s.handleEventStream)
	}

	return router
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	if len(s.cfg.CORSOrigins) == 0 {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = s.cfg.CORSOrigins
	cfg.AddAllowHeaders("Authorization")
	return cors.New(cfg)
}

type healthResponse struct {
	Status  string   `json:"status"`
	Service string   `json:"service"`
	Servers []string `json:"servers"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:  "ok",
		Service: s.instances.ServiceName(),
		Servers: s.instances.ServerNames(),
	})
}

// handleEventStream checks the caller may use the server, then upgrades the connection and
// streams the server's out topic events after the optional since sequence number.
func (s *Server) handleEventStream(c *gin.Context) {
	const methodName = "streamOutTopic"
	serverName, userID := c.Param("serverName"), c.Param("userId")

	var since uint64
	if v := c.Query("since"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apiutil.InvalidQuery(c, "since", "must be a sequence number")
			return
		}
		since = n
	}

	ctx := c.Request.Context()
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		ctx = security.WithToken(ctx, strings.TrimPrefix(auth, "Bearer "))
	}
	if _, err := s.instances.Instance(ctx, userID, serverName, methodName); err != nil {
		if errors.Is(err, apierrors.ErrUserNotAuthorized) {
			apiutil.WriteProblem(c, apierrors.NewUnauthorizedError(err.Error(), c.Request.URL.Path))
			return
		}
		pd := apierrors.ToProblemDetails(err, c.Request.URL.Path)
		if pd.Status == 0 {
			pd.Status = http.StatusInternalServerError
		}
		apiutil.WriteProblem(c, pd)
		return
	}
	if err := s.hub.ServeWS(c.Writer, c.Request, serverName, since); err != nil {
		s.logger.Warn("out topic stream upgrade failed", zap.String("server", serverName), zap.Error(err))
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.Addr(),
		Handler:      s.Router(),
		ReadTimeout:  orDefault(s.cfg.ReadTimeout, defaultReadTimeout),
		WriteTimeout: orDefault(s.cfg.WriteTimeout, defaultWriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("OMAG server platform listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("platform listener failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), orDefault(s.cfg.ShutdownTimeout, defaultShutdownTimeout))
	defer cancel()
	s.logger.Info("shutting down OMAG server platform")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("platform shutdown failed: %w", err)
	}
	return nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
