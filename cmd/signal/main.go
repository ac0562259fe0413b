package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"proctorlink/internal/core/services"
	"proctorlink/internal/infrastructure/middleware"
	"proctorlink/internal/infrastructure/monitoring"
	"proctorlink/internal/infrastructure/repositories"
	signalsrv "proctorlink/internal/infrastructure/signal"
	"proctorlink/pkg/config"
	"proctorlink/pkg/logger"
	"proctorlink/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/proctorlink/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		cfg = config.DefaultConfig()
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	tp, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		JaegerURL:   cfg.Tracing.JaegerURL,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	repoFactory, err := repositories.NewFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	roomRepo := repoFactory.CreateRoomRepository()
	accountRepo := repoFactory.CreateAccountRepository()
	logQueue := repoFactory.CreateLogQueue()

	authenticator := services.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, accountRepo)
	collector := monitoring.NewCollector(prometheus.DefaultRegisterer)

	wsServer := signalsrv.NewServer(
		signalsrv.Config{
			PingInterval:        cfg.Signal.PingInterval,
			PongTimeout:         cfg.Signal.PongTimeout,
			WriteTimeout:        cfg.Signal.WriteTimeout,
			SendBufferSize:      cfg.Signal.SendBufferSize,
			MaxMessageSizeBytes: cfg.Signal.MaxMessageSizeBytes,
			MessagesPerSecond:   wsMessagesPerSecond(cfg),
			MessageBurst:        cfg.RateLimiting.WebSocket.Burst,
		},
		authenticator,
		roomRepo,
		logQueue,
		collector,
		log,
	)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(middleware.OriginFilter(cfg.Auth.AllowedOrigins))
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := repoFactory.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":       "ready",
			"active_rooms": wsServer.Registry().RoomCount(),
		})
	})

	router.GET("/api/v1/ice-servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": iceServers(cfg)})
	})

	router.GET("/ws", gin.WrapF(wsServer.HandleWS))

	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting coordination server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("received shutdown signal", "signal", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("error force closing server", "error", closeErr)
		}
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Errorw("error shutting down tracer", "error", err)
	}

	log.Info("coordination server stopped")
}

func wsMessagesPerSecond(cfg *config.Config) float64 {
	if !cfg.RateLimiting.Enabled {
		return 0
	}
	return cfg.RateLimiting.WebSocket.MessagesPerSecond
}

// iceServers maps the configured STUN/TURN entries into the wire shape both
// browser clients consume.
func iceServers(cfg *config.Config) []webrtc.ICEServer {
	servers := make([]webrtc.ICEServer, 0, len(cfg.WebRTC.ICEServers))
	for _, s := range cfg.WebRTC.ICEServers {
		servers = append(servers, webrtc.ICEServer{
			URLs:       s.URLs,
			Username:   s.Username,
			Credential: s.Credential,
		})
	}
	if len(servers) == 0 {
		servers = append(servers, webrtc.ICEServer{
			URLs: []string{"stun:stun.l.google.com:19302"},
		})
	}
	return servers
}
