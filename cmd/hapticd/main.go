// Command hapticd is a small HTTP preview server for haptic clips: it
// loads a clip from a request body and returns its duration, or converts
// it straight to a platform pattern, without a host embedding the
// library directly.
package main

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Lofelt/NiceVibrations/internal/config"
	"github.com/Lofelt/NiceVibrations/internal/telemetry"
)

const sentryFlushTimeout = 2 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.Load()

	var reporter telemetry.Reporter = telemetry.NoopReporter{}
	if sentryReporter, err := telemetry.NewSentryReporter(cfg.SentryDSN, cfg.Environment, "hapticd"); err != nil {
		log.Printf("failed to initialize sentry: %v", err)
	} else {
		reporter = sentryReporter
		if cfg.SentryDSN != "" {
			log.Printf("sentry initialized (environment: %s)", cfg.Environment)
			defer telemetry.Flush(sentryFlushTimeout)
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, cfg, reporter)

	log.Printf("hapticd listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("hapticd: ", err)
	}
}
