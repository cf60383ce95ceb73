package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yeremiapane/buffet-app/broker"
	"github.com/yeremiapane/buffet-app/config"
	"github.com/yeremiapane/buffet-app/database"
	"github.com/yeremiapane/buffet-app/router"
	"github.com/yeremiapane/buffet-app/services"
	"github.com/yeremiapane/buffet-app/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.LogFormat)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	if cfg.SeedData {
		if err := database.Seed(db); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed database: %v", err)
		}
	}

	r := router.SetupRouter(db, cfg)
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Printf("Failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Everything that can fail runs before the server starts.
	var relay *services.EventRelay
	if cfg.AMQPURL != "" {
		mq, err := broker.ConnectRabbitMQ(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer mq.Close()

		relay, err = newEventRelay(ctx, db, mq, cfg.EventSettle, cfg.EventRelayInterval)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to start event relay: %v", err)
		}
	}

	if err := serve(ctx, srv, relay); err != nil {
		utils.ErrorLogger.Printf("Server stopped with error: %v", err)
	}
}

// serve runs the HTTP server, and the relay when there is one, until ctx
// is done or one of them fails, then shuts the server down.
func serve(ctx context.Context, srv *http.Server, relay *services.EventRelay) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		utils.InfoLogger.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		utils.InfoLogger.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if relay != nil {
		g.Go(func() error { return relay.Run(ctx) })
	}

	return g.Wait()
}

// newEventRelay publishes only events committed after startup.
func newEventRelay(ctx context.Context, db *gorm.DB, pub services.Publisher, settle, interval time.Duration) (*services.EventRelay, error) {
	events := services.NewEventService(db, settle)
	latest, err := events.LatestID(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewEventRelay(events, pub, interval, latest), nil
}
