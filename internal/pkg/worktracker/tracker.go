// Package worktracker talks to the remote work item tracking service.
package worktracker

import (
	"context"
	"strings"
	"time"
)

const (
	FieldID       = "System.Id"
	FieldAreaPath = "System.AreaPath"
	FieldState    = "System.State"
)

// BriefFields are the fields needed to attribute a work item to a team.
var BriefFields = []string{FieldID, FieldAreaPath, FieldState}

// Tracker is the subset of the work tracking API the gatherer relies on.
type Tracker interface {
	ListProjectNames(ctx context.Context) ([]string, error)
	ListIterations(ctx context.Context, project, team string) ([]*Iteration, error)
	QueryWorkItemIDs(ctx context.Context, query string) ([]int, error)
	// GetWorkItems fetches ids with the given fields; a nil asOf reads the
	// current revision.
	GetWorkItems(ctx context.Context, ids []int, fields []string, asOf *time.Time) ([]*WorkItem, error)
}

type Iteration struct {
	ID         string
	Name       string
	Path       string
	StartDate  time.Time
	FinishDate time.Time
}

// Scheduled reports whether the iteration has both start and finish dates.
func (i *Iteration) Scheduled() bool {
	return !i.StartDate.IsZero() && !i.FinishDate.IsZero()
}

type WorkItem struct {
	ID     int
	Fields map[string]string
}

func (w *WorkItem) State() string {
	return w.Fields[FieldState]
}

// Team is the second segment of the area path, or the only segment when the
// path has no parent.
func (w *WorkItem) Team() string {
	parts := strings.Split(w.Fields[FieldAreaPath], `\`)
	if len(parts) < 2 {
		return parts[0]
	}
	return parts[1]
}
