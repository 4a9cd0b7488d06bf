package knowledge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitewise-labs/ramsgen/internal/common"
)

type postgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore returns a Store backed by the knowledge_base_items table.
func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &postgresStore{pool: pool, logger: logger}
}

func (s *postgresStore) ListActiveSnippets(ctx context.Context, organizationID string, limit int) ([]Snippet, error) {
	const q = `
		SELECT category, title, content
		FROM knowledge_base_items
		WHERE organization_id = $1 AND is_active
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, q, organizationID, limit)
	if err != nil {
		s.logger.Error("knowledge.list_failed", "organization_id", organizationID, "error", err)
		return nil, dbErr("list active snippets", err)
	}
	defer rows.Close()

	var out []Snippet
	for rows.Next() {
		var sn Snippet
		if err := rows.Scan(&sn.Category, &sn.Title, &sn.Content); err != nil {
			return nil, dbErr("scan snippet", err)
		}
		out = append(out, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("iterate snippets", err)
	}
	return out, nil
}

// dbErr tags the chain with ErrDatabase so callers can tell a database
// outage from a generation failure.
func dbErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrDatabase, err)
}
