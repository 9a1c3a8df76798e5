package repo

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/repo/selector"
)

type Setting struct {
	db  *bun.DB
	sel selector.S[model.Setting]
}

func NewSetting(db *bun.DB) *Setting {
	return &Setting{db: db, sel: selector.New[model.Setting](db)}
}

func (r *Setting) GetValue(ctx context.Context, scope, key string) (*model.Setting, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("? = ?", bun.Ident("key"), key).
			Where("scope = ?", scope)
	})
}

func (r *Setting) SetValue(ctx context.Context, scope, key string, value *model.UserSettings) error {
	setting := &model.Setting{
		Key:       key,
		Scope:     scope,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	_, err := r.db.NewInsert().
		Model(setting).
		On("CONFLICT (key, scope) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// ListScopes returns every scope holding a value for key.
func (r *Setting) ListScopes(ctx context.Context, key string) ([]string, error) {
	scopes := make([]string, 0)
	err := r.db.NewSelect().
		Model((*model.Setting)(nil)).
		Column("scope").
		Where("? = ?", bun.Ident("key"), key).
		Order("scope ASC").
		Scan(ctx, &scopes)
	return scopes, err
}
