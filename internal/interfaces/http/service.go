package http_interface

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	appconfig "github.com/novacoinotc/claudewallet/internal/app-config"
	"github.com/novacoinotc/claudewallet/internal/interfaces/http/handler"
	"github.com/novacoinotc/claudewallet/internal/interfaces/http/middleware"
)

// ServiceConfig holds the listening and client-facing options of the REST
// interface.
type ServiceConfig struct {
	Port            uint32
	AllowedOrigins  []string
	RateLimitWindow time.Duration
	RateLimitMax    int
}

func (c ServiceConfig) validate() error {
	if c.Port == 0 {
		return fmt.Errorf("missing port")
	}
	if c.RateLimitWindow <= 0 || c.RateLimitMax <= 0 {
		return fmt.Errorf("invalid rate limit settings")
	}
	return nil
}

func (c ServiceConfig) address() string {
	return fmt.Sprintf(":%d", c.Port)
}

type service struct {
	config ServiceConfig
	server *http.Server

	log func(format string, a ...interface{})
}

func NewService(
	config ServiceConfig, appConfig *appconfig.AppConfig,
) (*service, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid service config: %s", err)
	}
	if err := appConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid app config: %s", err)
	}

	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("http interface: %s", format)
		log.Infof(format, a...)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(config.AllowedOrigins))

	txHandler := handler.NewTransactionHandler(
		appConfig.TransactionService(), appConfig.RelayService(),
	)
	sponsorHandler := handler.NewSponsorHandler(
		appConfig.SponsorService(), appConfig.BuildInfo(),
	)

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimit(config.RateLimitWindow, config.RateLimitMax))
	{
		api.GET("/balance/:address", txHandler.GetBalance)
		api.POST("/transaction/prepare", txHandler.PrepareTransfer)
		api.POST("/transaction/submit", txHandler.SubmitTransfer)
		api.GET("/transaction/:txid", txHandler.GetTransactionStatus)
		api.GET("/sponsor/status", sponsorHandler.Status)
		api.GET("/health", sponsorHandler.Health)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &service{
		config: config,
		server: &http.Server{
			Addr:    config.address(),
			Handler: router,
		},
		log: logFn,
	}, nil
}

func (s *service) Start() error {
	s.log("start listening on %s", s.config.address())
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Warnf("http interface: forced shutdown: %s", err)
	}
	s.log("stopped")
}

// Router exposes the underlying handler, to be used only for testing
// purposes.
func (s *service) Router() http.Handler {
	return s.server.Handler
}
