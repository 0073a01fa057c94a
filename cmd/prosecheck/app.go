package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/internal/annotator"
	"github.com/avandersen/prosecheck/internal/checker"
	"github.com/avandersen/prosecheck/internal/chunker"
	"github.com/avandersen/prosecheck/internal/config"
	"github.com/avandersen/prosecheck/internal/detect"
	"github.com/avandersen/prosecheck/internal/logging"
	"github.com/avandersen/prosecheck/internal/masker"
	"github.com/avandersen/prosecheck/internal/metrics"
	"github.com/avandersen/prosecheck/internal/segmenter"
	"github.com/avandersen/prosecheck/internal/storage"
)

// app holds the wired pipeline shared by the subcommands
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	checker *checker.Checker
	store   storage.Storage
	metrics *metrics.Metrics
}

// newApp loads configuration and builds the checking pipeline. The
// document store is only opened when withStore is set; the one-shot
// check command runs without touching the database.
func newApp(withStore bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	seg, err := segmenter.NewPunkt(cfg.Pipeline.Abbreviations, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("failed to initialize segmenter: %w", err)
	}

	det := detect.NewMulti(log, detect.NewProse(log), detect.NewRuleSet())
	builder := chunker.New(seg, cfg.Pipeline.SentencesPerChunk, cfg.Pipeline.MaxChunkChars, log)
	msk := masker.New(det, log)

	anns, err := annotator.New(cfg.AnnotatorConfig(log))
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	m, err := metrics.New()
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	chk := checker.New(builder, msk, anns, m, cfg.CheckerConfig(), log)

	a := &app{cfg: cfg, log: log, checker: chk, metrics: m}

	if withStore {
		if dir := filepath.Dir(cfg.Database.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				a.close()
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		store, err := storage.NewSQLiteStorage(cfg.Database.Path)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.store = store
	}

	return a, nil
}

// close releases the pipeline in reverse construction order
func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("failed to close database", zap.Error(err))
		}
	}
	if a.checker != nil {
		if err := a.checker.Close(); err != nil {
			a.log.Warn("failed to close providers", zap.Error(err))
		}
	}
	a.log.Sync()
}
