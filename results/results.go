// Package results records finished matches.
package results

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrStoreClosed   = errors.New("results: store closed")
	ErrInvalidResult = errors.New("results: invalid result")
)

// Result is one won match.
type Result struct {
	ID         string
	PlayerName string
	// Seconds is the play time of the whole match.
	Seconds    float64
	Stage      string
	Difficulty string
	PlayerWins int
	EnemyWins  int
	RecordedAt time.Time
}

// Sink accepts finished-match results.
type Sink interface {
	RecordResult(ctx context.Context, r Result) error
}

// Normalize trims text fields and fills the defaults a stored result needs.
func (r Result) Normalize() (Result, error) {
	r.PlayerName = strings.TrimSpace(r.PlayerName)
	r.Stage = strings.TrimSpace(r.Stage)
	r.Difficulty = strings.TrimSpace(r.Difficulty)
	if r.PlayerName == "" {
		r.PlayerName = "Player"
	}
	if r.Difficulty == "" {
		r.Difficulty = "Normal"
	}
	if r.Seconds < 0 {
		return r, ErrInvalidResult
	}
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now()
	}
	r.RecordedAt = r.RecordedAt.UTC()
	return r, nil
}
