package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/forPelevin/cinedex/internal/config"
	"github.com/forPelevin/cinedex/internal/logging"
	"github.com/forPelevin/cinedex/internal/ports"
	"github.com/forPelevin/cinedex/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/cinedex/internal/ports/adapters/jsonindex"
	"github.com/forPelevin/cinedex/internal/ports/adapters/sqlindex"
	"github.com/forPelevin/cinedex/internal/usecase"
)

type Config struct {
	InputFolder string
	// IndexJSON is the JSON index output path; empty disables it.
	IndexJSON string
	// IndexDB is the SQLite index output path; empty disables it.
	IndexDB string

	App *config.Config
}

func (c Config) Validate() error {
	if c.InputFolder == "" {
		return errors.New("input folder is empty")
	}
	st, err := os.Stat(c.InputFolder)
	if err != nil {
		return fmt.Errorf("stat input folder: %w", err)
	}
	if !st.IsDir() {
		return fmt.Errorf("input path is not a directory: %s", c.InputFolder)
	}
	if c.IndexJSON == "" && c.IndexDB == "" {
		return errors.New("at least one of the JSON or SQLite outputs is required")
	}
	if c.App == nil {
		return errors.New("app config is nil")
	}
	return c.App.Validate()
}

func Run(ctx context.Context, cfg Config) error {
	log := logging.WithComponent("pipeline")

	src := ffmpeg.New(cfg.App.FFmpeg.FFprobePath)
	uc := usecase.New(usecase.Deps{
		Source: src,
		Log:    logging.WithComponent("indexer"),
	})

	res, err := uc.Run(ctx, usecase.Input{
		Folder:          cfg.InputFolder,
		SegmentDuration: cfg.App.SegmentDuration,
		Workers:         cfg.App.Workers,
		Segment:         cfg.App.Segment,
	})
	if err != nil {
		return err
	}

	var stores []ports.IndexStore
	if cfg.IndexJSON != "" {
		stores = append(stores, jsonindex.New(cfg.IndexJSON))
	}
	if cfg.IndexDB != "" {
		db, err := sqlindex.Open(cfg.IndexDB)
		if err != nil {
			return fmt.Errorf("open index db: %w", err)
		}
		defer db.Close()
		stores = append(stores, db)
	}
	for _, st := range stores {
		if err := st.WriteIndex(ctx, res.Index); err != nil {
			return err
		}
	}

	md := res.Index.Metadata
	log.Info().
		Int("segments", md.TotalSegments).
		Int("videos_indexed", md.IndexedVideos).
		Int("videos_total", md.TotalVideos).
		Float64("segment_duration", md.SegmentDuration).
		Msg("index complete")
	return nil
}
