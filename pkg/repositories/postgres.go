package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository connects to connStr and applies the migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	conn, err := connectDb(ctx, connStr)
	if err != nil {
		return nil, err
	}

	statements, err := migrations("postgres")
	if err != nil {
		conn.Close(ctx)
		return nil, err
	}
	for i, migration := range statements {
		if _, err := conn.Exec(ctx, migration); err != nil {
			conn.Close(ctx)
			return nil, fmt.Errorf("failed to execute migration %d: %v", i+1, err)
		}
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func connectDb(ctx context.Context, connStr string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}

	log.Info("Connected to %s as %s", database, username)

	return conn, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveRound(ctx context.Context, round types.RoundRecord) error {
	q := `
	INSERT INTO rounds (id, mode, difficulty, outcome, winner, started_at, ended_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.conn.Exec(ctx, q,
		round.ID.String(),
		round.Mode,
		round.Difficulty,
		string(round.Outcome),
		round.Winner,
		round.StartedAt,
		round.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert round: %v", err)
	}

	return nil
}

func (r *PostgresRepository) GetRound(ctx context.Context, id uuid.UUID) (*types.RoundRecord, error) {
	q := `
	SELECT id::text, mode, difficulty, outcome, winner, started_at, ended_at
	FROM rounds WHERE id = $1;
	`
	round, err := scanPostgresRound(r.conn.QueryRow(ctx, q, id.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan round: %v", err)
	}

	return round, nil
}

func (r *PostgresRepository) ListRounds(ctx context.Context, limit int) ([]types.RoundRecord, error) {
	q := `
	SELECT id::text, mode, difficulty, outcome, winner, started_at, ended_at
	FROM rounds ORDER BY ended_at DESC, id LIMIT $1;
	`
	rows, err := r.conn.Query(ctx, q, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %v", err)
	}
	defer rows.Close()

	rounds := []types.RoundRecord{}
	for rows.Next() {
		round, err := scanPostgresRound(rows)
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

func scanPostgresRound(row pgx.Row) (*types.RoundRecord, error) {
	var id, outcome string
	round := &types.RoundRecord{}
	if err := row.Scan(&id, &round.Mode, &round.Difficulty, &outcome, &round.Winner, &round.StartedAt, &round.EndedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid round id %q: %v", id, err)
	}
	round.ID = parsed
	round.Outcome = types.Outcome(outcome)
	return round, nil
}
