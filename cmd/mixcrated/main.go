package main

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"mixcrate/internal/analysis"
	"mixcrate/internal/config"
	"mixcrate/internal/daemon"
	"mixcrate/internal/library"
	"mixcrate/internal/logging"
	"mixcrate/internal/playlist"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "mixcrated.log")},
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	extractor := analysis.New(analysis.Options{
		WindowSeconds: cfg.Analysis.WindowSeconds,
		MinBPM:        cfg.Analysis.MinBPM,
		MaxBPM:        cfg.Analysis.MaxBPM,
		Logger:        logger,
	})
	cache := library.NewCache(cfg.CacheFilePath(), logger)
	scanner := library.NewScanner(cache, extractor, logger, library.ScannerOptions{
		Extensions:    cfg.Library.Extensions,
		Workers:       cfg.Scanner.Workers,
		SaveBatchSize: cfg.Scanner.SaveBatchSize,
	})
	runner := library.NewRunner(scanner, logger)

	playlists, err := playlist.Open(cfg.PlaylistDBPath())
	if err != nil {
		logger.Error("open playlist store", logging.Error(err))
		return
	}

	d, err := daemon.New(cfg, cache, runner, playlists, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = playlists.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("mixcrated shutting down")
}
