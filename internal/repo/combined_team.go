package repo

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/pkg/apperr"
	"exusiai.dev/sprintsummary/internal/repo/selector"
)

type CombinedTeam struct {
	db  *bun.DB
	sel selector.S[model.CombinedTeam]
}

func NewCombinedTeam(db *bun.DB) *CombinedTeam {
	return &CombinedTeam{db: db, sel: selector.New[model.CombinedTeam](db)}
}

// List returns the combined teams of scope in creation order, which is the
// order they are merged in.
func (r *CombinedTeam) List(ctx context.Context, scope string) ([]*model.CombinedTeam, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("scope = ?", scope).
			Order("created_at ASC", "id ASC")
	})
}

func (r *CombinedTeam) Get(ctx context.Context, scope, id string) (*model.CombinedTeam, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("scope = ?", scope).Where("id = ?", id)
	})
}

// Create assigns the id, scope and first etag of team before inserting it.
func (r *CombinedTeam) Create(ctx context.Context, scope string, team *model.CombinedTeam) error {
	team.ID = newID()
	team.Scope = scope
	team.ETag = 1
	team.CreatedAt = time.Now()

	_, err := r.db.NewInsert().Model(team).Exec(ctx)
	return err
}

func (r *CombinedTeam) Delete(ctx context.Context, scope, id string) error {
	res, err := r.db.NewDelete().
		Model((*model.CombinedTeam)(nil)).
		Where("scope = ?", scope).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Replace swaps the stored team id for edited, keeping its id and bumping its
// etag. The edited team gets a fresh creation time, so it moves to the end of
// the merge order. etag must match the stored revision, otherwise
// apperr.ErrConflict is returned.
func (r *CombinedTeam) Replace(ctx context.Context, scope, id string, etag int, edited *model.CombinedTeam) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		original, err := selector.New[model.CombinedTeam](tx).SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("scope = ?", scope).Where("id = ?", id)
		})
		if err != nil {
			return err
		}
		if original.ETag != etag {
			return apperr.ErrConflict.Msg("combined team %s is at revision %d, got %d", id, original.ETag, etag)
		}

		_, err = tx.NewDelete().
			Model((*model.CombinedTeam)(nil)).
			Where("scope = ?", scope).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}

		edited.ID = original.ID
		edited.Scope = scope
		edited.ETag = original.ETag + 1
		edited.CreatedAt = time.Now()

		_, err = tx.NewInsert().Model(edited).Exec(ctx)
		return err
	})
}
