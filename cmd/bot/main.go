package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"homework_bot/internal/config"
	"homework_bot/internal/logging"
	"homework_bot/internal/notifier"
	"homework_bot/internal/poller"
	"homework_bot/internal/practicum"
	"homework_bot/internal/storage"
)

func main() {
	log, closer, err := logging.New(config.LogSettings())
	if err != nil {
		logrus.WithError(err).Fatal("create logger")
	}

	cfg := loadConfig(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("program failure")
	}

	log.Info("poller stopped")
	_ = closer.Close()
}

// loadConfig logs a configuration error at fatal level through log, so the
// line naming the missing variable reaches the log file as well as stdout.
func loadConfig(log *logrus.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
		return nil
	}
	return cfg
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open journal %s: %w", cfg.DatabasePath, err)
	}
	defer func() { _ = store.Close() }()

	tg := notifier.New(cfg.TelegramBotToken, cfg.ChatID)

	api := practicum.New(http.DefaultClient, cfg.Endpoint, cfg.PracticumToken)
	p := poller.New(api, tg, store, log, cfg.PollInterval)

	log.WithFields(logrus.Fields{
		"endpoint":  cfg.Endpoint,
		"interval":  cfg.PollInterval,
		"chat_id":   tg.ChatID(),
		"from_date": cfg.FromDate,
	}).Info("starting homework status poller")

	return p.Run(ctx, poller.NewSession(cfg.FromDate))
}
