package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"exusiai.dev/sprintsummary/internal/app/appconfig"
	"exusiai.dev/sprintsummary/internal/pkg/worktracker"
)

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func testConfig() *appconfig.Config {
	return &appconfig.Config{ConfigSpec: appconfig.ConfigSpec{
		TrackerBlockSize:          2,
		TrackerWorkItemTypes:      []string{"Bug", "User Story"},
		TrackerCompletedStates:    []string{"Closed", "Resolved", "Removed"},
		TrackerAllCompletedStates: []string{"Closed", "Resolved"},
		TrackerTeamSuffix:         " Team",
		GatherConcurrency:         2,
	}}
}

var errTrackerDown = errors.New("tracker down")

// fakeTracker serves canned iterations and work items. Items are looked up
// in current when asOf is nil and in atFinish otherwise.
type fakeTracker struct {
	mu sync.Mutex

	projects   []string
	iterations map[string][]*worktracker.Iteration // by "project/team"
	committed  map[string][]int                    // by iteration path
	completed  map[string][]int                    // by iteration path
	current    map[int]*worktracker.WorkItem
	atFinish   map[int]*worktracker.WorkItem

	queries    []string
	batchSizes []int
}

var _ worktracker.Tracker = (*fakeTracker)(nil)

func (f *fakeTracker) ListProjectNames(ctx context.Context) ([]string, error) {
	return f.projects, nil
}

func (f *fakeTracker) ListIterations(ctx context.Context, project, team string) ([]*worktracker.Iteration, error) {
	its, ok := f.iterations[project+"/"+team]
	if !ok {
		return nil, errTrackerDown
	}
	return its, nil
}

func (f *fakeTracker) QueryWorkItemIDs(ctx context.Context, query string) ([]int, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	source := f.committed
	if strings.Contains(query, "[State]") {
		source = f.completed
	}
	for path, ids := range source {
		if strings.Contains(query, "UNDER '"+path+"'") {
			return ids, nil
		}
	}
	return nil, errTrackerDown
}

func (f *fakeTracker) GetWorkItems(ctx context.Context, ids []int, fields []string, asOf *time.Time) ([]*worktracker.WorkItem, error) {
	f.mu.Lock()
	f.batchSizes = append(f.batchSizes, len(ids))
	f.mu.Unlock()

	source := f.current
	if asOf != nil {
		source = f.atFinish
	}
	var items []*worktracker.WorkItem
	for _, id := range ids {
		if item, ok := source[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func item(id int, areaPath, state string) *worktracker.WorkItem {
	return &worktracker.WorkItem{
		ID: id,
		Fields: map[string]string{
			worktracker.FieldAreaPath: areaPath,
			worktracker.FieldState:    state,
		},
	}
}
