package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	config "github.com/oskar87/swe2/configs"
	"github.com/oskar87/swe2/internal/auth"
	"github.com/oskar87/swe2/internal/db"
	"github.com/oskar87/swe2/internal/events"
	"github.com/oskar87/swe2/internal/handlers"
	"github.com/oskar87/swe2/internal/logging"
	"github.com/oskar87/swe2/internal/middleware"
	"github.com/oskar87/swe2/internal/notifier"
	"github.com/oskar87/swe2/internal/repository"
	"github.com/oskar87/swe2/internal/service"
	"github.com/oskar87/swe2/internal/validation"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	gormDB, err := db.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	store := repository.NewStore(gormDB)

	v, err := validation.New()
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		publisher = events.NewKafkaProducer(brokers, cfg.Kafka.Topic, logger)
		logger.Info("Publishing Bestellung events", zap.Strings("brokers", brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	defer publisher.Close()

	var notifiers notifier.Multi
	if cfg.SMS.Enabled() {
		notifiers = append(notifiers, notifier.NewSMSNotifier(cfg.SMS, logger))
	}
	if cfg.Email.Enabled() {
		emailNotifier, err := notifier.NewEmailNotifier(ctx, cfg.Email, logger)
		if err != nil {
			return err
		}
		notifiers = append(notifiers, emailNotifier)
	}

	kundeService := service.NewKundeService(store, v, logger)
	artikelService := service.NewArtikelService(store, v, logger)
	bestellungService := service.NewBestellungService(store, v, publisher, notifiers, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(cors.Default())
	r.Use(sessions.Sessions(auth.SessionName, cookie.NewStore([]byte(cfg.SessionSecret))))

	routes := handlers.Routes{
		Kunden:       handlers.NewKundeHandler(kundeService, bestellungService, cfg.APIPrefix, logger),
		Artikel:      handlers.NewArtikelHandler(artikelService, cfg.APIPrefix, logger),
		Bestellungen: handlers.NewBestellungHandler(bestellungService, cfg.APIPrefix, logger),
		Health:       handlers.Health(store),
	}

	if cfg.OIDC.Enabled() {
		authenticator, err := auth.NewAuthenticator(ctx, cfg.OIDC, kundeService, logger)
		if err != nil {
			return err
		}
		r.GET("/auth/login", authenticator.Login)
		r.GET("/auth/callback", authenticator.Callback)
		routes.Guard = auth.RequireAuth(kundeService)
	} else {
		logger.Warn("OIDC not configured, mutating routes are unprotected")
	}
	routes.Register(r, cfg.APIPrefix)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	bestellungService.Wait()
	return nil
}
