// Package store handles SQLite persistence of round history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/incense/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for round data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			total_sticks INTEGER NOT NULL,
			correct_sticks INTEGER NOT NULL,
			timer_ms INTEGER NOT NULL,
			initial_score INTEGER NOT NULL,
			final_score INTEGER NOT NULL,
			correct_clicks INTEGER NOT NULL,
			incorrect_clicks INTEGER NOT NULL,
			missed_correct INTEGER NOT NULL,
			received_angle REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS round_clicks (
			round_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			stick_id INTEGER NOT NULL,
			angle REAL NOT NULL,
			band TEXT NOT NULL,
			correct INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			PRIMARY KEY (round_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_ended_at ON rounds(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_round_clicks_band ON round_clicks(band);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRound stores a finished round and its clicks.
func (s *Store) InsertRound(ctx context.Context, rec model.RoundRecord, clicks []model.ClickRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO rounds (started_at, ended_at, total_sticks, correct_sticks, timer_ms, initial_score, final_score, correct_clicks, incorrect_clicks, missed_correct, received_angle)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.TotalSticks,
		rec.CorrectSticks,
		rec.TimerMs,
		rec.InitialScore,
		rec.FinalScore,
		rec.CorrectClicks,
		rec.IncorrectClicks,
		rec.MissedCorrect,
		rec.ReceivedAngle,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(clicks) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO round_clicks (round_id, seq, stick_id, angle, band, correct, elapsed_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, c := range clicks {
			correct := 0
			if c.Correct {
				correct = 1
			}
			if _, err = stmt.ExecContext(ctx, id, c.Seq, c.StickID, c.Angle, c.Band, correct, c.ElapsedMs); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRounds returns round aggregates filtered by history config.
func (s *Store) ListRounds(ctx context.Context, cfg model.HistoryConfig) ([]model.RoundAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, correct_sticks, final_score, correct_clicks, incorrect_clicks, missed_correct
		FROM rounds
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []model.RoundAggregate
	for rows.Next() {
		var agg model.RoundAggregate
		var endedAt string
		if err := rows.Scan(&agg.RoundID, &endedAt, &agg.CorrectSticks, &agg.FinalScore, &agg.CorrectClicks, &agg.IncorrectClicks, &agg.MissedCorrect); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		rounds = append(rounds, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}

// ListBandAggregatesForRounds aggregates clicks by angle band across rounds.
func (s *Store) ListBandAggregatesForRounds(ctx context.Context, roundIDs []int64) ([]model.BandAggregate, error) {
	if len(roundIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(roundIDs))
	args := make([]any, len(roundIDs))
	for i, id := range roundIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT band, COUNT(*) AS clicks, SUM(correct) AS correct, SUM(elapsed_ms) AS elapsed_ms
		FROM round_clicks
		WHERE round_id IN (%s)
		GROUP BY band
		ORDER BY band`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.BandAggregate
	for rows.Next() {
		var agg model.BandAggregate
		if err := rows.Scan(&agg.Band, &agg.Clicks, &agg.Correct, &agg.ElapsedSumMs); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListClicks returns the clicks of one round in order.
func (s *Store) ListClicks(ctx context.Context, roundID int64) ([]model.ClickRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, stick_id, angle, band, correct, elapsed_ms
		 FROM round_clicks
		 WHERE round_id = ?
		 ORDER BY seq ASC`, roundID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var clicks []model.ClickRecord
	for rows.Next() {
		var c model.ClickRecord
		var correct int
		if err := rows.Scan(&c.Seq, &c.StickID, &c.Angle, &c.Band, &correct, &c.ElapsedMs); err != nil {
			return nil, err
		}
		c.Correct = correct != 0
		clicks = append(clicks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return clicks, nil
}
