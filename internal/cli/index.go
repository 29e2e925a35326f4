package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/cinedex/internal/config"
	"github.com/forPelevin/cinedex/internal/logging"
	"github.com/forPelevin/cinedex/internal/pipeline"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <input-folder>",
		Short: "Analyze all videos in a folder and write the segment index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args[0])
		},
	}

	cmd.Flags().String("out", "video_index.json", "Output JSON index file (empty to skip)")
	cmd.Flags().String("db", "", "Output SQLite index file (optional)")
	cmd.Flags().Float64P("segment-duration", "d", 0, "Segment duration in seconds (overrides config)")
	cmd.Flags().Int("workers", 0, "Concurrent segment workers (overrides config)")
	return cmd
}

func runIndex(cmd *cobra.Command, folder string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logging.Init(verbose)

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if d, _ := cmd.Flags().GetFloat64("segment-duration"); d > 0 {
		cfg.SegmentDuration = d
	}
	if w, _ := cmd.Flags().GetInt("workers"); w > 0 {
		cfg.Workers = w
	}
	cfg.FFmpeg.FFprobePath = getenvDefault("CINEDEX_FFPROBE", cfg.FFmpeg.FFprobePath)

	absFolder, err := filepath.Abs(folder)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	db, _ := cmd.Flags().GetString("db")

	pcfg := pipeline.Config{
		InputFolder: absFolder,
		IndexJSON:   out,
		IndexDB:     db,
		App:         cfg,
	}
	if err := pcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 12*time.Hour)
	defer cancel()
	return pipeline.Run(ctx, pcfg)
}
