package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"captionator/internal/app"
	"captionator/internal/bot"
	"captionator/internal/config"
	"captionator/internal/files"
	"captionator/internal/handlers"
	clog "captionator/internal/log"
	"captionator/internal/storage"
)

func main() {
	logger := clog.L()
	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}
	logger = clog.Init(clog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	core, err := app.New(ctx, cfg, nil, logger)
	if err != nil {
		logger.Error("build studio core", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := core.Close(); err != nil {
			logger.Warn("close store", "err", err)
		}
	}()

	botService, err := bot.NewTelegramBot(cfg.BotToken, logger, cfg.MaxFileSize)
	if err != nil {
		logger.Error("create bot", "err", err)
		os.Exit(1)
	}

	fileManager, err := files.NewTelegramFileManager(botService, cfg.TempDir, cfg.MaxFileSize, logger)
	if err != nil {
		logger.Error("create file manager", "err", err)
		os.Exit(1)
	}

	chatHandler := handlers.NewHandler(
		core.Registry,
		core.Importer,
		core.Exporter,
		botService,
		fileManager,
		storage.NewRenderStateStore(),
		core.Viewport,
		logger,
	)

	go func() {
		if err := botService.Start(ctx, chatHandler.HandleUpdate); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("bot stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
}
