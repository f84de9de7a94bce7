package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	// one connection: sqlite has a single writer and :memory: databases are
	// private to their connection
	db.SetMaxOpenConns(1)

	statements, err := migrations("sqlite")
	if err != nil {
		db.Close()
		return nil, err
	}
	for i, migration := range statements {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %d: %v", i+1, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveRound(ctx context.Context, round types.RoundRecord) error {
	q := `
	INSERT INTO rounds (id, mode, difficulty, outcome, winner, started_at, ended_at)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q,
		round.ID.String(),
		round.Mode,
		round.Difficulty,
		string(round.Outcome),
		round.Winner,
		round.StartedAt.UnixMilli(),
		round.EndedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert round: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) GetRound(ctx context.Context, id uuid.UUID) (*types.RoundRecord, error) {
	q := `
	SELECT id, mode, difficulty, outcome, winner, started_at, ended_at
	FROM rounds WHERE id = ?;
	`
	round, err := scanSQLiteRound(r.db.QueryRowContext(ctx, q, id.String()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan round: %v", err)
	}

	return round, nil
}

func (r *SQLiteRepository) ListRounds(ctx context.Context, limit int) ([]types.RoundRecord, error) {
	q := `
	SELECT id, mode, difficulty, outcome, winner, started_at, ended_at
	FROM rounds ORDER BY ended_at DESC, id LIMIT ?;
	`
	rows, err := r.db.QueryContext(ctx, q, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %v", err)
	}
	defer rows.Close()

	rounds := []types.RoundRecord{}
	for rows.Next() {
		round, err := scanSQLiteRound(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %v", err)
		}
		rounds = append(rounds, *round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rounds: %v", err)
	}

	return rounds, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRound(row rowScanner) (*types.RoundRecord, error) {
	var id, outcome string
	var startedAt, endedAt int64
	round := &types.RoundRecord{}
	if err := row.Scan(&id, &round.Mode, &round.Difficulty, &outcome, &round.Winner, &startedAt, &endedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid round id %q: %v", id, err)
	}
	round.ID = parsed
	round.Outcome = types.Outcome(outcome)
	round.StartedAt = time.UnixMilli(startedAt).UTC()
	round.EndedAt = time.UnixMilli(endedAt).UTC()
	return round, nil
}
