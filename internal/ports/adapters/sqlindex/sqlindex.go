// Package sqlindex persists the index in SQLite so segments can be
// filtered by label and score without loading the whole document.
package sqlindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/forPelevin/cinedex/internal/types"
)

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS index_meta (
	id               INTEGER PRIMARY KEY CHECK (id = 1),
	created_at       TEXT    NOT NULL,
	segment_duration REAL    NOT NULL,
	total_segments   INTEGER NOT NULL,
	total_videos     INTEGER NOT NULL,
	indexed_videos   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS segments (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	video_file          TEXT NOT NULL,
	start_time          REAL NOT NULL,
	end_time            REAL NOT NULL,
	duration            REAL NOT NULL,
	sharpness           REAL NOT NULL,
	brightness          REAL NOT NULL,
	motion_score        REAL NOT NULL,
	movement_label      TEXT NOT NULL,
	stabilization_label TEXT NOT NULL,
	lighting_label      TEXT NOT NULL,
	grading_label       TEXT NOT NULL,
	exposure_label      TEXT NOT NULL,
	framing_label       TEXT NOT NULL,
	metrics             TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_segments_video ON segments (video_file, start_time);
CREATE INDEX IF NOT EXISTS idx_segments_movement ON segments (movement_label);
CREATE INDEX IF NOT EXISTS idx_segments_lighting ON segments (lighting_label);
`

// Open opens (creating if needed) a SQLite index store with the usual
// production pragmas.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// WriteIndex replaces the stored index with doc in one transaction.
func (s *Store) WriteIndex(ctx context.Context, doc types.IndexDocument) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM segments`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM index_meta`); err != nil {
		return err
	}

	md := doc.Metadata
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO index_meta (id, created_at, segment_duration, total_segments, total_videos, indexed_videos)
		 VALUES (1, ?, ?, ?, ?, ?)`,
		md.CreatedAt, md.SegmentDuration, md.TotalSegments, md.TotalVideos, md.IndexedVideos,
	); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO segments (video_file, start_time, end_time, duration,
		    sharpness, brightness, motion_score,
		    movement_label, stabilization_label, lighting_label,
		    grading_label, exposure_label, framing_label, metrics)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, seg := range doc.Segments {
		blob, err := json.Marshal(seg.Metrics)
		if err != nil {
			return fmt.Errorf("marshal metrics: %w", err)
		}
		m := seg.Metrics
		if _, err := stmt.ExecContext(ctx,
			seg.VideoFile, seg.StartTime, seg.EndTime, seg.Duration,
			m.Sharpness, m.Brightness, m.MotionScore,
			m.CameraMovement.Label, m.Stabilization.Label, m.Lighting.Label,
			m.ColorGrading.Label, m.Exposure.Label, m.ShotFraming.Label,
			string(blob),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Filter narrows a search. Empty labels and zero minimums are ignored.
type Filter struct {
	Movement      string
	Stabilization string
	Lighting      string
	Grading       string
	Exposure      string
	Framing       string

	MinSharpness  float64
	MinBrightness float64
	MinMotion     float64

	Limit int
}

// Search returns the stored segments matching the filter, ordered by
// source file and start time.
func (s *Store) Search(ctx context.Context, f Filter) ([]types.VideoSegment, error) {
	var (
		where []string
		args  []any
	)
	label := func(col, v string) {
		if v != "" {
			where = append(where, col+" = ?")
			args = append(args, v)
		}
	}
	minimum := func(col string, v float64) {
		if v > 0 {
			where = append(where, col+" >= ?")
			args = append(args, v)
		}
	}
	label("movement_label", f.Movement)
	label("stabilization_label", f.Stabilization)
	label("lighting_label", f.Lighting)
	label("grading_label", f.Grading)
	label("exposure_label", f.Exposure)
	label("framing_label", f.Framing)
	minimum("sharpness", f.MinSharpness)
	minimum("brightness", f.MinBrightness)
	minimum("motion_score", f.MinMotion)

	q := `SELECT video_file, start_time, end_time, duration, metrics FROM segments`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY video_file, start_time"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.VideoSegment
	for rows.Next() {
		var seg types.VideoSegment
		var blob string
		if err := rows.Scan(&seg.VideoFile, &seg.StartTime, &seg.EndTime, &seg.Duration, &blob); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(blob), &seg.Metrics); err != nil {
			return nil, fmt.Errorf("parse stored metrics: %w", err)
		}
		out = append(out, seg)
	}
	return out, rows.Err()
}
