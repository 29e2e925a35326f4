package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forPelevin/cinedex/internal/ports/adapters/sqlindex"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Filter indexed segments by label and score",
		RunE:  runSearch,
	}

	cmd.Flags().String("db", "", "SQLite index file (required)")
	cmd.Flags().String("movement", "", "Camera movement label (e.g. \"Pan Left\")")
	cmd.Flags().String("stabilization", "", "Stabilization label (e.g. gimbal)")
	cmd.Flags().String("lighting", "", "Lighting label (e.g. golden_hour)")
	cmd.Flags().String("grading", "", "Color grading label (e.g. teal_orange)")
	cmd.Flags().String("exposure", "", "Exposure label (e.g. properly_exposed)")
	cmd.Flags().String("framing", "", "Shot framing label (e.g. close_up)")
	cmd.Flags().Float64("min-sharpness", 0, "Minimum sharpness score")
	cmd.Flags().Float64("min-brightness", 0, "Minimum brightness score")
	cmd.Flags().Float64("min-motion", 0, "Minimum motion score")
	cmd.Flags().Int("limit", 50, "Maximum number of results")
	cmd.Flags().Bool("json", false, "Emit results as JSON")
	return cmd
}

func runSearch(cmd *cobra.Command, _ []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		return errors.New("--db is required")
	}

	store, err := sqlindex.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer store.Close()

	var f sqlindex.Filter
	f.Movement, _ = cmd.Flags().GetString("movement")
	f.Stabilization, _ = cmd.Flags().GetString("stabilization")
	f.Lighting, _ = cmd.Flags().GetString("lighting")
	f.Grading, _ = cmd.Flags().GetString("grading")
	f.Exposure, _ = cmd.Flags().GetString("exposure")
	f.Framing, _ = cmd.Flags().GetString("framing")
	f.MinSharpness, _ = cmd.Flags().GetFloat64("min-sharpness")
	f.MinBrightness, _ = cmd.Flags().GetFloat64("min-brightness")
	f.MinMotion, _ = cmd.Flags().GetFloat64("min-motion")
	f.Limit, _ = cmd.Flags().GetInt("limit")

	segs, err := store.Search(cmd.Context(), f)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(segs)
	}

	for _, s := range segs {
		m := s.Metrics
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %7.2f-%7.2fs  %-16s %-22s %-12s sharp=%.2f\n",
			s.VideoFile, s.StartTime, s.EndTime,
			m.CameraMovement.Label, m.Lighting.Label, m.ShotFraming.Label,
			m.Sharpness)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d segment(s)\n", len(segs))
	return nil
}
