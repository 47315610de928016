package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/halaltools/amanah/internal/auth"
	authdomain "github.com/halaltools/amanah/internal/auth/domain"
	"github.com/halaltools/amanah/internal/auth/token"
	"github.com/halaltools/amanah/internal/cache"
	"github.com/halaltools/amanah/internal/config"
	"github.com/halaltools/amanah/internal/contract"
	contractdomain "github.com/halaltools/amanah/internal/contract/domain"
	"github.com/halaltools/amanah/internal/observability"
	obsmiddleware "github.com/halaltools/amanah/internal/observability/logger"
	obsmetrics "github.com/halaltools/amanah/internal/observability/metrics"
	obstracing "github.com/halaltools/amanah/internal/observability/tracing"
	"github.com/halaltools/amanah/internal/providers/email"
	"github.com/halaltools/amanah/internal/quota"
	quotadomain "github.com/halaltools/amanah/internal/quota/domain"
	"github.com/halaltools/amanah/internal/ratelimit"
	"github.com/halaltools/amanah/internal/rates"
	ratesdomain "github.com/halaltools/amanah/internal/rates/domain"
	"github.com/halaltools/amanah/internal/verdict"
	verdictdomain "github.com/halaltools/amanah/internal/verdict/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(cache.NewPremiumCache),
	email.Module,
	auth.Module,
	quota.Module,
	contract.Module,
	rates.Module,
	verdict.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	issuer      *token.Issuer
	authsvc     authdomain.Service
	authRepo    authdomain.Repository
	contractSvc contractdomain.Service
	quotaSvc    quotadomain.Service
	ratesSvc    ratesdomain.Service
	verdictSvc  verdictdomain.Service
	limiter     *ratelimit.GenerateLimiter
	premium     cache.PremiumCache
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	Issuer      *token.Issuer
	Authsvc     authdomain.Service
	AuthRepo    authdomain.Repository
	ContractSvc contractdomain.Service
	QuotaSvc    quotadomain.Service
	RatesSvc    ratesdomain.Service
	VerdictSvc  verdictdomain.Service
	Limiter     *ratelimit.GenerateLimiter `optional:"true"`
	Premium     cache.PremiumCache
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		issuer:      p.Issuer,
		authsvc:     p.Authsvc,
		authRepo:    p.AuthRepo,
		contractSvc: p.ContractSvc,
		quotaSvc:    p.QuotaSvc,
		ratesSvc:    p.RatesSvc,
		verdictSvc:  p.VerdictSvc,
		limiter:     p.Limiter,
		premium:     p.Premium,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/signup", s.Signup)
	authGroup.POST("/login", s.Login)
	authGroup.GET("/me", s.AuthRequired(), s.Me)
	authGroup.GET("/free-uses", s.OptionalAuth(), s.FreeUses)
	authGroup.POST("/forgot-password", s.ForgotPassword)
	authGroup.POST("/reset-password", s.ResetPassword)
	authGroup.DELETE("/users/:id", s.AuthRequired(), s.DeleteUser)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/contracts/generate", s.OptionalAuth(), s.GenerateContract)
	api.GET("/rates", s.GetRates)
	api.POST("/evaluate-investment", s.EvaluateInvestment)
}
