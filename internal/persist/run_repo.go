package persist

import (
	"context"
	"fmt"
	"time"
)

// RunSummary is the final tally of one run.
type RunSummary struct {
	ID          int64
	Seed        int64
	StartedAt   time.Time
	EndedAt     time.Time
	HighestWave int
	Kills       int
	Score       int
	Pickups     int
	DamageTaken int
}

// WaveEntry records one wave transition.
type WaveEntry struct {
	Wave      int
	SpeedMul  float64
	HealthMul float64
	StartedAt time.Time
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// StartRun inserts a new run and returns its id.
func (r *RunRepo) StartRun(ctx context.Context, seed int64, startedAt time.Time) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO runs (seed, started_at) VALUES ($1, $2) RETURNING id`,
		seed, startedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// LogWave records a wave transition. Replays of the same wave are ignored.
func (r *RunRepo) LogWave(ctx context.Context, runID int64, e WaveEntry) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO run_waves (run_id, wave, speed_mul, health_mul, started_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (run_id, wave) DO NOTHING`,
		runID, e.Wave, e.SpeedMul, e.HealthMul, e.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("log wave %d: %w", e.Wave, err)
	}
	return nil
}

// FinishRun stores the final counters of a run.
func (r *RunRepo) FinishRun(ctx context.Context, s RunSummary) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE runs SET ended_at = $2, highest_wave = $3, kills = $4, score = $5,
		        pickups = $6, damage_taken = $7
		 WHERE id = $1`,
		s.ID, s.EndedAt, s.HighestWave, s.Kills, s.Score, s.Pickups, s.DamageTaken,
	)
	if err != nil {
		return fmt.Errorf("finish run %d: %w", s.ID, err)
	}
	return nil
}

// TopRuns returns the best finished runs by score.
func (r *RunRepo) TopRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, seed, started_at, ended_at, highest_wave, kills, score, pickups, damage_taken
		 FROM runs WHERE ended_at IS NOT NULL
		 ORDER BY score DESC, id ASC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.Seed, &s.StartedAt, &s.EndedAt, &s.HighestWave,
			&s.Kills, &s.Score, &s.Pickups, &s.DamageTaken); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
