package results

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/milk9111/duel/results/migrations"
	_ "modernc.org/sqlite"
)

// Store persists results in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite results store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	err := s.sqlDB.Close()
	s.sqlDB = nil
	return err
}

// RecordResult inserts r, assigning an ID when it has none.
func (s *Store) RecordResult(ctx context.Context, r Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return ErrStoreClosed
	}
	r, err := r.Normalize()
	if err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO match_results (
		   id,
		   player_name,
		   seconds,
		   stage,
		   difficulty,
		   player_wins,
		   enemy_wins,
		   recorded_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.PlayerName,
		r.Seconds,
		r.Stage,
		r.Difficulty,
		r.PlayerWins,
		r.EnemyWins,
		toMillis(r.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// Top returns the fastest wins for difficulty, fastest first. An empty
// difficulty matches all.
func (s *Store) Top(ctx context.Context, difficulty string, limit int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, ErrStoreClosed
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, player_name, seconds, stage, difficulty, player_wins, enemy_wins, recorded_at
		   FROM match_results
		  WHERE ? = '' OR difficulty = ?
		  ORDER BY seconds ASC, recorded_at ASC
		  LIMIT ?`,
		difficulty, difficulty, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		var recordedAt int64
		if err := rows.Scan(&r.ID, &r.PlayerName, &r.Seconds, &r.Stage, &r.Difficulty, &r.PlayerWins, &r.EnemyWins, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.RecordedAt = fromMillis(recordedAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}
