package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	catalog "antique-catalog/internal/catalogService"
	"antique-catalog/internal/config"
	"antique-catalog/internal/imagecodec"
	"antique-catalog/internal/notify"
	"antique-catalog/internal/pkg/clock"
	"antique-catalog/internal/queue"
	"antique-catalog/internal/recovery"
	"antique-catalog/internal/repository"
	"antique-catalog/internal/server"
	"antique-catalog/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load config", map[string]any{"error": err.Error()})
	}
	utils.SetLevel(cfg.App.LogLevel)
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := newStore(cfg.Store)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"type": cfg.Store.Type, "error": err.Error()})
	}
	defer store.Close()

	clk := clock.NewRealClock()
	codec := imagecodec.New(cfg.Codec.Quality)
	inbox := notify.NewInbox(notify.DefaultInboxCapacity, clk)

	var pushers []notify.Pusher
	if cfg.Notify.PushEnabled() {
		pushers = append(pushers, notify.NewKafkaPusher(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic))
		utils.Info("native push enabled", map[string]any{"brokers": cfg.Notify.KafkaBrokers, "topic": cfg.Notify.KafkaTopic})
	}
	notifier := notify.NewFanout([]notify.Sink{inbox, notify.LogSink{}}, pushers, 0)

	catalogSvc := catalog.NewCatalogService(catalog.Dependencies{
		Store: store,
		Queue: queue.New(),
		Recovery: recovery.New(recovery.Config{
			RetentionWindow:      cfg.Recovery.Retention,
			MaxItems:             cfg.Recovery.MaxItems,
			MaxDescriptionLength: cfg.Recovery.MaxDescriptionLength,
			ImageMaxWidth:        cfg.Recovery.ImageMaxWidth,
			ImageMaxHeight:       cfg.Recovery.ImageMaxHeight,
		}, codec, clk),
		Codec:    codec,
		Notifier: notifier,
		Clock:    clk,
	}, catalog.Config{
		IngestImageMaxWidth:  cfg.Codec.IngestMaxWidth,
		IngestImageMaxHeight: cfg.Codec.IngestMaxHeight,
	})

	if err := catalogSvc.Load(context.Background()); err != nil {
		utils.Fatal("failed to load catalog", map[string]any{"error": err.Error()})
	}

	router := server.SetupRouter(catalogSvc, inbox)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		utils.Info("starting catalog server", map[string]any{"address": cfg.Server.Address(), "store": cfg.Store.Type})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("server error", map[string]any{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Info("shutting down server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Error("server shutdown error", map[string]any{"error": err.Error()})
	}

	// drain queued mutations before the store goes away
	catalogSvc.Close()
	if err := notifier.Close(); err != nil {
		utils.Warn("notification pushers did not close cleanly", map[string]any{"error": err.Error()})
	}

	utils.Info("server stopped", nil)
}

// newStore opens the durable mirror selected by STORE_TYPE
func newStore(cfg config.StoreConfig) (repository.Store, error) {
	switch cfg.Type {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		s, err := repository.NewSQLiteStore(repository.SQLiteConfig{
			Path:         cfg.SQLitePath,
			QuotaBytes:   cfg.QuotaBytes,
			PollInterval: cfg.PollInterval,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		s, err := repository.NewRedisStore(repository.RedisConfig{
			Addr:       cfg.RedisAddress(),
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			KeyPrefix:  cfg.KeyPrefix,
			QuotaBytes: cfg.QuotaBytes,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return repository.NewMemoryStore(cfg.QuotaBytes), nil
	}
}
