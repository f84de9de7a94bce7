package repositories

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/google/uuid"
)

// Repository is the round journal. Rounds are only ever appended.
type Repository interface {
	Close(ctx context.Context) error
	SaveRound(ctx context.Context, round types.RoundRecord) error
	GetRound(ctx context.Context, id uuid.UUID) (*types.RoundRecord, error)
	// ListRounds returns up to limit rounds, most recently ended first.
	ListRounds(ctx context.Context, limit int) ([]types.RoundRecord, error)
}

//go:embed migrations
var migrationsFS embed.FS

// NewRepository opens the journal named by url. postgres:// and
// postgresql:// URLs use PostgreSQL, anything else is a SQLite path with an
// optional sqlite:// prefix.
func NewRepository(ctx context.Context, url string) (Repository, error) {
	switch {
	case url == "":
		return nil, fmt.Errorf("no database url")
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return NewPostgresRepository(ctx, url)
	default:
		return NewSQLiteRepository(ctx, strings.TrimPrefix(url, "sqlite://"))
	}
}

// migrations returns the statements for dialect in file name order.
func migrations(dialect string) ([]string, error) {
	dir := path.Join("migrations", dialect)
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var statements []string
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		migrationPath := path.Join(dir, entry.Name())
		migration, err := fs.ReadFile(migrationsFS, migrationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}
		statements = append(statements, string(migration))
	}
	return statements, nil
}
