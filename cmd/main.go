package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mkravets/nutrilog-server/internal/api/http/handler"
	"github.com/mkravets/nutrilog-server/internal/api/http/middleware"
	"github.com/mkravets/nutrilog-server/internal/api/http/router"
	"github.com/mkravets/nutrilog-server/internal/config"
	"github.com/mkravets/nutrilog-server/internal/logger"
	"github.com/mkravets/nutrilog-server/internal/model"
	"github.com/mkravets/nutrilog-server/internal/recognition"
	"github.com/mkravets/nutrilog-server/internal/repository/memory"
	"github.com/mkravets/nutrilog-server/internal/repository/postgres"
	"github.com/mkravets/nutrilog-server/internal/server"
	"github.com/mkravets/nutrilog-server/internal/session"
	"github.com/mkravets/nutrilog-server/internal/stats"
	storage "github.com/mkravets/nutrilog-server/internal/storage/minio"
	"github.com/mkravets/nutrilog-server/internal/store"
	"github.com/mkravets/nutrilog-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	kv, cleanup, err := newKeyValue(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize key-value backend", "error", err)
	}
	defer cleanup()

	images, err := newImageStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize photo storage", "error", err)
	}

	dataStore := store.NewStore(kv, logger)
	statsEngine := stats.NewStats(dataStore)
	tokenManager := token.NewJWT(cfg.JWT.Secret)
	sessions := session.NewManager(dataStore, kv, tokenManager, logger)
	recognizer := recognition.NewClient(cfg.Recognition.URL, cfg.Recognition.APIKey, cfg.Recognition.Timeout, logger)

	r := router.New(
		handler.NewAuth(sessions, logger),
		handler.NewFood(dataStore, recognizer, images, logger),
		handler.NewStats(statsEngine, logger),
		handler.NewSettings(dataStore, logger),
		middleware.NewAuth(sessions, logger),
		logger,
		cfg.HTTP.CORSOrigin,
	)

	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl server.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", httpServer.Address())
		if err := httpServer.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// newKeyValue selects the persistence backend: Postgres when a DSN is
// configured, an in-memory store otherwise.
func newKeyValue(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.KeyValue, func(), error) {
	if cfg.Database.DSN == "" {
		logger.Info("no database DSN configured, using in-memory storage")
		return memory.NewKV(), func() {}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}

	return postgres.NewKVRepository(db), func() { _ = db.Close() }, nil
}

// newImageStorage builds the optional photo store. Without an endpoint
// photos are inlined into food entries instead.
func newImageStorage(ctx context.Context, cfg *config.Config) (model.ImageStorage, error) {
	if cfg.Storage.Endpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return storage.NewClient(ctx, client, cfg.Storage.Bucket)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
