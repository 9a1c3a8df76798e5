package v1

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redsync/redsync/v4"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/fx/fxtest"

	"exusiai.dev/sprintsummary/internal/app/appconfig"
	"exusiai.dev/sprintsummary/internal/infra"
	"exusiai.dev/sprintsummary/internal/model/cache"
	"exusiai.dev/sprintsummary/internal/pkg/middlewares"
	"exusiai.dev/sprintsummary/internal/pkg/worktracker"
	"exusiai.dev/sprintsummary/internal/repo"
	"exusiai.dev/sprintsummary/internal/server/httpserver"
	"exusiai.dev/sprintsummary/internal/server/svr"
	"exusiai.dev/sprintsummary/internal/service"
)

const testUser = "alice"

type testServer struct {
	app       *fiber.App
	publisher *publisher

	Summaries *service.SprintSummary
	Refresh   *service.Refresh
}

// newTestServer wires the v1 controllers to in-memory sqlite and redis, a
// stub tracker and a recording publisher in place of JetStream.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache.Initialize(client)

	db, err := infra.OpenDatabase(fmt.Sprintf("file:v1_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conf := &appconfig.Config{ConfigSpec: appconfig.ConfigSpec{
		DefaultUser:       "default",
		TableCacheTTL:     time.Minute,
		SummaryCacheTTL:   time.Minute,
		GatherConcurrency: 2,
	}}

	s := &testServer{publisher: &publisher{}}
	fxApp := fxtest.New(t,
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
		fx.Supply(conf, db, client),
		fx.Provide(
			func() worktracker.Tracker { return &tracker{projects: []string{"Phoenix", "Unicorn"}} },
			func() nats.JetStreamContext { return s.publisher },
			func() *redsync.Redsync { return nil },
			func() *fiber.App {
				app := fiber.New(fiber.Config{ErrorHandler: httpserver.ErrorHandler})
				app.Use(middlewares.InjectUser(conf.DefaultUser))
				return app
			},
			svr.CreateEndpointGroups,
		),
		repo.Module(),
		service.Module(),
		Module(),
		fx.Invoke(func(schema *repo.Schema) error {
			return schema.Create(context.Background())
		}),
		fx.Populate(&s.app, &s.Summaries, &s.Refresh),
	)
	fxApp.RequireStart()
	t.Cleanup(fxApp.RequireStop)

	return s
}

func (s *testServer) request(t *testing.T, method, target string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(middlewares.HeaderUser, testUser)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// tracker knows project names but no iterations.
type tracker struct {
	projects []string
}

func (f *tracker) ListProjectNames(ctx context.Context) ([]string, error) {
	return f.projects, nil
}

func (f *tracker) ListIterations(ctx context.Context, project, team string) ([]*worktracker.Iteration, error) {
	return nil, nil
}

func (f *tracker) QueryWorkItemIDs(ctx context.Context, query string) ([]int, error) {
	return nil, nil
}

func (f *tracker) GetWorkItems(ctx context.Context, ids []int, fields []string, asOf *time.Time) ([]*worktracker.WorkItem, error) {
	return nil, nil
}

// publisher acknowledges every async publish immediately and keeps the
// published messages.
type publisher struct {
	nats.JetStreamContext

	mu   sync.Mutex
	msgs []*nats.Msg
}

func (p *publisher) PublishAsync(subj string, data []byte, opts ...nats.PubOpt) (nats.PubAckFuture, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	msg := &nats.Msg{Subject: subj, Data: data}
	p.msgs = append(p.msgs, msg)

	ok := make(chan *nats.PubAck, 1)
	ok <- &nats.PubAck{Stream: "SUMMARY", Sequence: uint64(len(p.msgs))}
	return &pubAck{ok: ok, msg: msg}, nil
}

func (p *publisher) published() []*nats.Msg {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*nats.Msg(nil), p.msgs...)
}

type pubAck struct {
	ok  chan *nats.PubAck
	msg *nats.Msg
}

func (f *pubAck) Ok() <-chan *nats.PubAck { return f.ok }

// Err never yields; the publish always succeeds.
func (f *pubAck) Err() <-chan error { return nil }

func (f *pubAck) Msg() *nats.Msg { return f.msg }
