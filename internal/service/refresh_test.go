package service

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/sprintsummary/internal/model"
	"exusiai.dev/sprintsummary/internal/model/types"
)

type memoryStore struct {
	mu sync.Mutex

	summaries map[string][]*model.SprintSummary
	settings  map[string]*model.UserSettings
	replaced  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		summaries: map[string][]*model.SprintSummary{},
		settings:  map[string]*model.UserSettings{},
	}
}

func (m *memoryStore) Replace(ctx context.Context, scope string, summaries []*model.SprintSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[scope] = summaries
	m.replaced++
	return nil
}

func (m *memoryStore) Get(ctx context.Context, scope string) (*model.UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.settings[scope]; ok {
		return s, nil
	}
	return &model.UserSettings{}, nil
}

func (m *memoryStore) Save(ctx context.Context, scope string, settings *model.UserSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[scope] = settings
	return nil
}

func newTestRefresh(store *memoryStore) *Refresh {
	conf := testConfig()
	return &Refresh{
		conf:      conf,
		Gatherer:  NewGatherer(conf, phoenixTracker()),
		Summaries: store,
		Settings:  store,
	}
}

func TestRefreshRunUsesSelectedProjects(t *testing.T) {
	store := newMemoryStore()
	store.settings["user:alice"] = &model.UserSettings{SelectedProjects: []string{"Phoenix"}}
	s := newTestRefresh(store)

	ran, err := s.Run(testCtx(t), &types.RefreshTask{TaskID: "t1", Scope: "user:alice"})
	require.NoError(t, err)
	assert.True(t, ran)

	stored := store.summaries["user:alice"]
	require.Len(t, stored, 1)
	assert.Equal(t, 1, stored[0].SprintNumber)
	assert.Equal(t, &model.TeamCounters{Team: "Core", Committed: 2, Completed: 1, AllCompleted: 1, PercentCompleted: 50}, stored[0].Team("Core"))

	status, ok := s.Status("user:alice")
	require.True(t, ok)
	assert.False(t, status.Running)
	assert.Equal(t, "t1", status.TaskID)
	assert.Equal(t, []string{"Phoenix"}, status.Projects)
	assert.Equal(t, 1, status.Sprints)
	assert.Equal(t, []string{"Core", "Web"}, status.Teams)
	assert.True(t, status.FinishedAt.Valid)
	assert.Empty(t, status.Error)
}

func TestRefreshRunSkipsWhileInFlight(t *testing.T) {
	store := newMemoryStore()
	s := newTestRefresh(store)

	release, ok := s.guard.TryAcquire("user:bob")
	require.True(t, ok)

	ran, err := s.Run(testCtx(t), &types.RefreshTask{Scope: "user:bob", Projects: []string{"Phoenix"}})
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Zero(t, store.replaced)

	_, ok = s.Status("user:bob")
	assert.False(t, ok)

	release()
	ran, err = s.Run(testCtx(t), &types.RefreshTask{Scope: "user:bob", Projects: []string{"Phoenix"}})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, store.replaced)
}

func TestRefreshRunCanceled(t *testing.T) {
	store := newMemoryStore()
	s := newTestRefresh(store)

	ctx, cancel := context.WithCancel(testCtx(t))
	cancel()

	ran, err := s.Run(ctx, &types.RefreshTask{Scope: "user:carol", Projects: []string{"Phoenix"}})
	assert.True(t, ran)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.replaced)

	status, ok := s.Status("user:carol")
	require.True(t, ok)
	assert.NotEmpty(t, status.Error)
	assert.False(t, status.AggregatedAt.Valid)
}

type failingStore struct {
	*memoryStore
}

func (f failingStore) Replace(ctx context.Context, scope string, summaries []*model.SprintSummary) error {
	return errors.New("database unavailable")
}

func TestRefreshRunRecordsResultWhenPersistFails(t *testing.T) {
	store := newMemoryStore()
	s := newTestRefresh(store)
	s.Summaries = failingStore{store}

	ran, err := s.Run(testCtx(t), &types.RefreshTask{Scope: "user:dave", Projects: []string{"Phoenix"}})
	assert.True(t, ran)
	require.Error(t, err)

	status, ok := s.Status("user:dave")
	require.True(t, ok)
	assert.Equal(t, "database unavailable", status.Error)
	assert.Equal(t, 1, status.Sprints)
	assert.True(t, status.AggregatedAt.Valid)
}
