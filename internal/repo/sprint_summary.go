package repo

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/repo/selector"
)

type SprintSummary struct {
	db  *bun.DB
	sel selector.S[model.SprintSummary]
}

func NewSprintSummary(db *bun.DB) *SprintSummary {
	return &SprintSummary{db: db, sel: selector.New[model.SprintSummary](db)}
}

func (r *SprintSummary) ListByScope(ctx context.Context, scope string) ([]*model.SprintSummary, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("scope = ?", scope).
			Order("sprint_number ASC", "id ASC")
	})
}

// ReplaceAll swaps the stored summaries of scope for summaries in a single
// transaction. Every existing document is deleted before any new one is
// inserted. IDs, scope, etag and creation time of summaries are assigned here.
func (r *SprintSummary) ReplaceAll(ctx context.Context, scope string, summaries []*model.SprintSummary) error {
	now := time.Now()
	for _, s := range summaries {
		s.ID = newID()
		s.Scope = scope
		s.ETag = 1
		s.CreatedAt = now
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*model.SprintSummary)(nil)).
			Where("scope = ?", scope).
			Exec(ctx)
		if err != nil {
			return err
		}

		if len(summaries) == 0 {
			return nil
		}

		_, err = tx.NewInsert().
			Model(&summaries).
			Exec(ctx)
		return err
	})
}
