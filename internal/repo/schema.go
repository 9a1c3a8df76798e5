package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"exusiai.dev/sprintsummary/internal/model"
)

type Schema struct {
	db *bun.DB
}

func NewSchema(db *bun.DB) *Schema {
	return &Schema{db: db}
}

// Create creates the document tables and indexes that do not exist yet.
func (r *Schema) Create(ctx context.Context) error {
	models := []any{
		(*model.SprintSummary)(nil),
		(*model.CombinedTeam)(nil),
		(*model.Setting)(nil),
	}
	for _, m := range models {
		if _, err := r.db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrapf(err, "failed to create table for %T", m)
		}
	}

	indexes := []struct {
		model  any
		name   string
		column string
	}{
		{(*model.SprintSummary)(nil), "sprint_summaries_scope_idx", "scope"},
		{(*model.CombinedTeam)(nil), "combined_teams_scope_idx", "scope"},
	}
	for _, idx := range indexes {
		_, err := r.db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.column).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return errors.Wrapf(err, "failed to create index %s", idx.name)
		}
	}

	return nil
}
