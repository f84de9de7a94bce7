package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRound(mode string, outcome types.Outcome, endedAt time.Time) types.RoundRecord {
	return types.RoundRecord{
		ID:        uuid.New(),
		Mode:      mode,
		Outcome:   outcome,
		StartedAt: endedAt.Add(-10 * time.Minute),
		EndedAt:   endedAt,
	}
}

// exerciseRepository runs the journal contract against any implementation.
func exerciseRepository(t *testing.T, repo Repository) {
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	bomb := testRound("bomb", types.OutcomeTimeExpired, base)
	bomb.Difficulty = "hard"
	bomb.Winner = "placer"
	bunker := testRound("bunker", types.OutcomeCaptured, base.Add(time.Hour))
	bunker.Winner = "blue"
	flag := testRound("flag", types.OutcomeAborted, base.Add(2*time.Hour))

	for _, round := range []types.RoundRecord{bomb, bunker, flag} {
		require.NoError(t, repo.SaveRound(ctx, round))
	}

	got, err := repo.GetRound(ctx, bomb.ID)
	require.NoError(t, err)
	assert.Equal(t, bomb.ID, got.ID)
	assert.Equal(t, "bomb", got.Mode)
	assert.Equal(t, "hard", got.Difficulty)
	assert.Equal(t, types.OutcomeTimeExpired, got.Outcome)
	assert.Equal(t, "placer", got.Winner)
	assert.True(t, bomb.StartedAt.Equal(got.StartedAt))
	assert.True(t, bomb.EndedAt.Equal(got.EndedAt))
	assert.Equal(t, 10*time.Minute, got.Duration())

	_, err = repo.GetRound(ctx, uuid.New())
	assert.True(t, IsNotFound(err))

	rounds, err := repo.ListRounds(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, flag.ID, rounds[0].ID)
	assert.Equal(t, bunker.ID, rounds[1].ID)

	rounds, err = repo.ListRounds(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, rounds, 3)

	// ids are unique
	assert.Error(t, repo.SaveRound(ctx, bomb))
}

func TestSQLiteRepository(t *testing.T) {
	repo, err := NewRepository(context.Background(), ":memory:")
	require.NoError(t, err)
	defer repo.Close(context.Background())

	_, ok := repo.(*SQLiteRepository)
	require.True(t, ok)
	exerciseRepository(t, repo)
}

func TestSQLiteRepository_EmptyList(t *testing.T) {
	repo, err := NewSQLiteRepository(context.Background(), ":memory:")
	require.NoError(t, err)
	defer repo.Close(context.Background())

	rounds, err := repo.ListRounds(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, rounds)
	assert.Empty(t, rounds)
}

func TestSQLiteRepository_File(t *testing.T) {
	path := t.TempDir() + "/journal.db"
	ctx := context.Background()

	repo, err := NewRepository(ctx, "sqlite://"+path)
	require.NoError(t, err)
	round := testRound("flag", types.OutcomeCaptured, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, repo.SaveRound(ctx, round))
	require.NoError(t, repo.Close(ctx))

	// migrations are idempotent and data survives a reopen
	repo, err = NewRepository(ctx, path)
	require.NoError(t, err)
	defer repo.Close(ctx)
	got, err := repo.GetRound(ctx, round.ID)
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeCaptured, got.Outcome)
}

func TestNewRepository_NoURL(t *testing.T) {
	_, err := NewRepository(context.Background(), "")
	assert.Error(t, err)
}

func TestPostgresRepository(t *testing.T) {
	url := os.Getenv("SUITCASE_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("SUITCASE_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()
	repo, err := NewRepository(ctx, url)
	require.NoError(t, err)
	defer repo.Close(ctx)

	pg := repo.(*PostgresRepository)
	_, err = pg.conn.Exec(ctx, "TRUNCATE rounds")
	require.NoError(t, err)
	exerciseRepository(t, repo)
}
