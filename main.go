package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/kajiwara22/sf6chapter/config"
	"github.com/kajiwara22/sf6chapter/handlers"
	"github.com/kajiwara22/sf6chapter/internal/dataset"
	"github.com/kajiwara22/sf6chapter/internal/duck"
	"github.com/kajiwara22/sf6chapter/internal/search"
	"github.com/kajiwara22/sf6chapter/internal/storage"
	"github.com/kajiwara22/sf6chapter/middleware"
)

func main() {
	config.InitLogger()
	log := config.Log

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var store *storage.Client
	if cfg.R2EndpointURL != "" {
		store, err = storage.NewClient(storage.Config{
			Endpoint:        cfg.R2EndpointURL,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			Bucket:          cfg.R2BucketName,
			UseSSL:          cfg.R2UseSSL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
	}

	session := duck.NewSession(log)
	svc := search.NewService(session, log)

	h := handlers.NewApplicationHandler(log, svc, store)
	h.Environment = cfg.Environment
	h.MatchesKey = cfg.MatchesKey
	h.VideosKey = cfg.VideosKey
	h.PresignExpirySeconds = cfg.PresignExpirySeconds

	app := fiber.New(fiber.Config{AppName: "sf6chapter"})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RequestLogger())

	api := app.Group("/api")
	api.Get("/health", h.Health)
	api.Get("/data/index/matches.parquet", h.GetMatchesParquetURL)
	api.Get("/data/index/videos.parquet", h.GetVideosParquetURL)
	api.Get("/data/videos/:filename", h.GetVideoJSON)
	api.Get("/data/matches/:filename", h.GetMatchJSON)
	api.Get("/search", h.SearchMatches)
	api.Get("/stats", h.GetStats)
	api.Get("/characters", h.ListCharacters)

	// The dataset bootstrap runs in the background so the API (health,
	// presigned URLs) is reachable while the download is in flight. A
	// bootstrap failure is session-fatal: search endpoints keep
	// returning 503 until the process is restarted.
	go bootstrap(cfg, session, store, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("Shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Errorf("Server shutdown failed: %v", err)
		}
	}()

	log.Infof("Starting sf6chapter search API on port %s...", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}

	if err := session.Teardown(); err != nil {
		log.Errorf("Session teardown failed: %v", err)
	}
}

// bootstrap initializes the engine, fetches the dataset bytes and
// loads them. Presigning happens in-process when storage is
// configured; otherwise the loader goes through the remote dataset API
// the way the browser client does.
func bootstrap(cfg *config.Config, session *duck.Session, store *storage.Client, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := session.Initialize(ctx); err != nil {
		log.WithError(err).Error("Engine initialization failed")
		return
	}

	var issuer dataset.URLIssuer
	if cfg.DataAPIURL != "" {
		issuer = &dataset.HTTPIssuer{BaseURL: cfg.DataAPIURL}
	} else {
		issuer = &dataset.PresignIssuer{
			Storage: store,
			Expiry:  time.Duration(cfg.PresignExpirySeconds) * time.Second,
		}
	}

	loader := &dataset.Loader{Issuer: issuer, Log: log}
	data, err := loader.Fetch(ctx, cfg.MatchesKey)
	if err != nil {
		log.WithError(err).Error("Dataset fetch failed")
		return
	}

	if err := session.LoadDataset(ctx, data); err != nil {
		log.WithError(err).Error("Dataset load failed")
		return
	}
	log.Info("Search service is ready")
}
