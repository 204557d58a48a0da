package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// AliveText is the body of the root liveness probe.
const AliveText = "Bot is alive 🚀"

// Probe reports runtime state for /healthz.
type Probe interface {
	Connected() bool
	PendingOrders() int
}

// Status is the /healthz body.
type Status struct {
	Status        string `json:"status"`
	Gateway       string `json:"gateway"`
	PendingOrders int    `json:"pendingOrders"`
}

// NewRouter builds the liveness HTTP handler.
func NewRouter(serviceName string, probe Probe) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, AliveText)
	})
	router.GET("/healthz", func(c *gin.Context) {
		status := Status{Status: "ok", Gateway: "disconnected"}
		if probe != nil {
			if probe.Connected() {
				status.Gateway = "connected"
			}
			status.PendingOrders = probe.PendingOrders()
		}
		c.JSON(http.StatusOK, status)
	})
	router.NoRoute(func(c *gin.Context) {
		problem := errNotFound
		problem.Detail = fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path)
		respondProblem(c, problem)
	})
	router.NoMethod(func(c *gin.Context) {
		respondProblem(c, errMethodNotAllowed)
	})
	return router
}

// Server runs the liveness endpoint until its context ends.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer listens on addr (":3000" style).
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	s.logger.Info("liveness server listening", slog.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown liveness server: %w", err)
		}
		return nil
	}
}
