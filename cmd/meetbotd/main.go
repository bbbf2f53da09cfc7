package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alnabramov-cyber/telegram-bot/config"
	"github.com/alnabramov-cyber/telegram-bot/internal/api"
	"github.com/alnabramov-cyber/telegram-bot/internal/bot"
	"github.com/alnabramov-cyber/telegram-bot/internal/db"
	"github.com/alnabramov-cyber/telegram-bot/internal/notification"
	"github.com/alnabramov-cyber/telegram-bot/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "meetbotd ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	loc, err := time.LoadLocation(cfg.Telegram.Timezone)
	if err != nil {
		logger.Fatalf("invalid timezone %q: %v", cfg.Telegram.Timezone, err)
	}

	// Pick the persistence backend: a database DSN when configured,
	// otherwise the JSON document store.
	var appStore store.Store
	if cfg.Storage.DSN != "" {
		gormDB, err := db.Init(&cfg.Storage)
		if err != nil {
			logger.Fatalf("failed to initialize database: %v", err)
		}
		appStore = store.NewGormStore(gormDB)
		logger.Println("database store initialized")
	} else {
		appStore = store.NewFileStore(cfg.Storage.FilePath)
		logger.Printf("file store initialized at %s", cfg.Storage.FilePath)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatalf("failed to create bot: %v", err)
	}
	logger.Printf("authorized as @%s", botAPI.Self.UserName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, &notification.TelegramSender{Bot: botAPI})
	pool.Start(ctx)

	go bot.New(botAPI, cfg, appStore, pool, loc).Run(ctx)

	router := api.NewRouter(appStore, cfg, loc)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
