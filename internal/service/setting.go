package service

import (
	"context"

	"github.com/pkg/errors"

	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/pkg/apperr"
	"exusiai.dev/sprintsummary/internal/repo"
)

type Setting struct {
	SettingRepo *repo.Setting
}

func NewSetting(settingRepo *repo.Setting) *Setting {
	return &Setting{
		SettingRepo: settingRepo,
	}
}

// Get returns the saved settings of scope, or empty settings when the user
// never saved any.
func (s *Setting) Get(ctx context.Context, scope string) (*model.UserSettings, error) {
	setting, err := s.SettingRepo.GetValue(ctx, scope, model.SettingKeyUserSettings)
	if errors.Is(err, apperr.ErrNotFound) {
		return &model.UserSettings{}, nil
	} else if err != nil {
		return nil, err
	}
	if setting.Value == nil {
		return &model.UserSettings{}, nil
	}
	return setting.Value, nil
}

func (s *Setting) Save(ctx context.Context, scope string, settings *model.UserSettings) error {
	return s.SettingRepo.SetValue(ctx, scope, model.SettingKeyUserSettings, settings)
}

// Scopes lists every scope with saved settings.
func (s *Setting) Scopes(ctx context.Context) ([]string, error) {
	return s.SettingRepo.ListScopes(ctx, model.SettingKeyUserSettings)
}
