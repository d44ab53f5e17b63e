// Package http exposes CarbonService over a gin JSON API under /carbonTrack.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/carbontrack/internal/logging"
	"github.com/dmitrijs2005/carbontrack/internal/server/config"
	"github.com/dmitrijs2005/carbontrack/internal/server/models"
	"github.com/gin-gonic/gin"
)

// BasePath prefixes every authenticated route.
const BasePath = "/carbonTrack"

const shutdownTimeout = 10 * time.Second

// CarbonService is the business API the handlers depend on.
type CarbonService interface {
	CalculateAndSubmit(ctx context.Context, sub *models.Submission) (*models.CarbonRecord, error)
	Dashboard(ctx context.Context, userID string) ([]models.SeriesPoint, error)
	Electricity(ctx context.Context, userID string) ([]models.SeriesPoint, error)
	Wastage(ctx context.Context, userID string) ([]models.SeriesPoint, error)
	Transportation(ctx context.Context, userID string) ([]models.SeriesPoint, error)
	LeaderBoard(ctx context.Context, city string) ([]*models.LeaderboardEntry, error)
	Projection(ctx context.Context, city string) ([]*models.LeaderboardEntry, error)
	AllRecords(ctx context.Context) ([]*models.CarbonRecord, error)
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg       *config.Config
	carbon    CarbonService
	logger    logging.Logger
	jwtSecret []byte
	engine    *gin.Engine
}

// New constructs a server with routes and middleware. The gin mode is
// process-wide and left to the caller.
func New(cfg *config.Config, l logging.Logger, carbon CarbonService) *Server {
	engine := gin.New()

	s := &Server{
		cfg:       cfg,
		carbon:    carbon,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(cfg.SecretKey),
		engine:    engine,
	}

	engine.Use(s.recoveryMiddleware())
	engine.Use(s.accessLogMiddleware())
	engine.Use(corsMiddleware(cfg.AllowedOrigin))

	s.registerRoutes()
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.EndpointAddrHTTP,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.cfg.EndpointAddrHTTP)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group(BasePath)
	api.Use(s.bearerAuthMiddleware())
	{
		api.POST("/calculateAndSubmit", s.handleCalculateAndSubmit)

		user := api.Group("/user/:userId")
		user.GET("/dashboard", s.handleSeries("totalCarbonFootprint", s.carbon.Dashboard))
		user.GET("/electricity", s.handleSeries("electricity", s.carbon.Electricity))
		user.GET("/wastage", s.handleSeries("wastage", s.carbon.Wastage))
		user.GET("/transportation", s.handleSeries("transportation", s.carbon.Transportation))

		api.GET("/leaderBoard/:city", s.handleLeaderBoard)
		api.GET("/leaderBoard/:city/projection", s.handleProjection)
		api.GET("/allcarbondetails", s.handleAllRecords)
	}
}
