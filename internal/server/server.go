package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nphies/claims-service/internal/cache"
	"github.com/nphies/claims-service/internal/claim"
	claimdomain "github.com/nphies/claims-service/internal/claim/domain"
	"github.com/nphies/claims-service/internal/config"
	"github.com/nphies/claims-service/internal/eligibility"
	"github.com/nphies/claims-service/internal/events"
	obsmetrics "github.com/nphies/claims-service/internal/observability/metrics"
	"github.com/nphies/claims-service/internal/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	cache.Module,
	events.Module,
	eligibility.Module,
	ratelimit.Module,
	claim.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, metrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, metrics *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(log, metrics)
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	claimsvc      claimdomain.Service
	submitLimiter *ratelimit.SubmitLimiter
	log           *zap.Logger
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Claimsvc      claimdomain.Service
	SubmitLimiter *ratelimit.SubmitLimiter `optional:"true"`
	Log           *zap.Logger
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		claimsvc:      p.Claimsvc,
		submitLimiter: p.SubmitLimiter,
		log:           p.Log.Named("http.server"),
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func registerRoutes(s *Server) {
	s.RegisterAPIRoutes()
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api/v1/claims")

	api.POST("/submit", s.SubmitClaim)
	api.GET("/:claimId", s.GetClaim)
	api.GET("/:claimId/status", s.GetClaimStatus)
	api.PUT("/:claimId/status", s.UpdateClaimStatus)
	api.POST("/:claimId/reprocess", s.ReprocessClaim)

	api.GET("/provider/:providerId", s.ListClaimsByProvider)
	api.GET("/member/:memberId", s.ListClaimsByMember)
}

func run(lc fx.Lifecycle, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting http server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
