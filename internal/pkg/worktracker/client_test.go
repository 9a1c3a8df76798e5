package worktracker

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		OrganizationURL: srv.URL + "/contoso",
		Token:           "pat",
		Timeout:         5 * time.Second,
		RetryAttempts:   3,
		QueryLimit:      20000,
	})
	require.NoError(t, err)
	return c
}

func TestClientListProjectNames(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "", user)
		assert.Equal(t, "pat", pass)
		assert.Equal(t, "/contoso/_apis/projects", r.URL.Path)
		assert.Equal(t, "5.0", r.URL.Query().Get("api-version"))

		_, _ = io.WriteString(w, `{"count":2,"value":[{"name":"Phoenix"},{"name":"Unicorn"}]}`)
	})

	names, err := c.ListProjectNames(testCtx(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Phoenix", "Unicorn"}, names)
}

func TestClientListIterations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contoso/Phoenix/Phoenix Team/_apis/work/teamsettings/iterations", r.URL.Path)

		_, _ = io.WriteString(w, `{"value":[
			{"id":"1","name":"Sprint 12","path":"Phoenix\\Sprint 12","attributes":{"startDate":"2019-01-07T00:00:00Z","finishDate":"2019-01-18T00:00:00Z"}},
			{"id":"2","name":"Backlog","path":"Phoenix\\Backlog","attributes":{"startDate":null,"finishDate":null}}
		]}`)
	})

	iterations, err := c.ListIterations(testCtx(t), "Phoenix", "Phoenix Team")
	require.NoError(t, err)
	require.Len(t, iterations, 2)

	assert.Equal(t, "Sprint 12", iterations[0].Name)
	assert.Equal(t, `Phoenix\Sprint 12`, iterations[0].Path)
	assert.Equal(t, time.Date(2019, 1, 7, 0, 0, 0, 0, time.UTC), iterations[0].StartDate)
	assert.True(t, iterations[0].Scheduled())
	assert.False(t, iterations[1].Scheduled())
}

func TestClientQueryWorkItemIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contoso/_apis/wit/wiql", r.URL.Path)
		assert.Equal(t, "20000", r.URL.Query().Get("$top"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "Select [Id] From WorkItems", gjson.GetBytes(body, "query").String())

		_, _ = io.WriteString(w, `{"workItems":[{"id":3,"url":""},{"id":5,"url":""}]}`)
	})

	ids, err := c.QueryWorkItemIDs(testCtx(t), "Select [Id] From WorkItems")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, ids)
}

func TestClientGetWorkItems(t *testing.T) {
	asOf := time.Date(2019, 1, 18, 23, 59, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contoso/_apis/wit/workitemsbatch", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		req := gjson.ParseBytes(body)
		assert.Equal(t, "[3,5]", req.Get("ids").Raw)
		assert.Equal(t, "2019-01-18T23:59:00Z", req.Get("asOf").String())
		assert.Equal(t, "omit", req.Get("errorPolicy").String())

		_, _ = io.WriteString(w, `{"count":2,"value":[
			{"id":3,"fields":{"System.Id":3,"System.AreaPath":"Phoenix\\Core\\Api","System.State":"Closed"}},
			null,
			{"id":5,"fields":{"System.Id":5,"System.AreaPath":"Phoenix","System.State":"Active"}}
		]}`)
	})

	items, err := c.GetWorkItems(testCtx(t), []int{3, 5}, BriefFields, &asOf)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 3, items[0].ID)
	assert.Equal(t, "Core", items[0].Team())
	assert.Equal(t, "Closed", items[0].State())
	assert.Equal(t, "Phoenix", items[1].Team())
	assert.Equal(t, "Active", items[1].State())
}

func TestClientGetWorkItemsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty id list")
	})

	items, err := c.GetWorkItems(testCtx(t), nil, BriefFields, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"value":[{"name":"Phoenix"}]}`)
	})

	names, err := c.ListProjectNames(testCtx(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Phoenix"}, names)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"TF400813: not authorized"}`)
	})

	_, err := c.ListProjectNames(testCtx(t))
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "TF400813")
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewRejectsInvalidURL(t *testing.T) {
	_, err := New(Config{OrganizationURL: "contoso"})
	assert.Error(t, err)
}
