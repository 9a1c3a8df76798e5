package worktracker

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const apiVersion = "5.0"

var (
	ErrUnexpectedStatus = errors.New("unexpected status from work tracker")
	ErrMalformedBody    = errors.New("malformed response body from work tracker")
)

type Config struct {
	// OrganizationURL is the collection root, e.g. https://dev.azure.com/contoso
	OrganizationURL string
	// Token is a personal access token sent with basic auth.
	Token         string
	Timeout       time.Duration
	RetryAttempts uint
	// QueryLimit caps the number of ids a single WIQL query returns.
	QueryLimit int
}

// Client is a Tracker backed by the Azure DevOps REST API.
type Client struct {
	conf   Config
	base   *url.URL
	client *http.Client
}

var _ Tracker = (*Client)(nil)

func New(conf Config) (*Client, error) {
	base, err := url.Parse(conf.OrganizationURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid organization url")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("invalid organization url %q: scheme and host are required", conf.OrganizationURL)
	}
	if conf.RetryAttempts == 0 {
		conf.RetryAttempts = 1
	}

	return &Client{
		conf: conf,
		base: base,
		client: &http.Client{
			Timeout: conf.Timeout,
		},
	}, nil
}

func (c *Client) ListProjectNames(ctx context.Context) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, []string{"_apis", "projects"}, url.Values{"$top": {"1000"}}, nil)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, name := range body.Get("value.#.name").Array() {
		names = append(names, name.String())
	}
	return names, nil
}

func (c *Client) ListIterations(ctx context.Context, project, team string) ([]*Iteration, error) {
	body, err := c.do(ctx, http.MethodGet, []string{project, team, "_apis", "work", "teamsettings", "iterations"}, nil, nil)
	if err != nil {
		return nil, err
	}

	var iterations []*Iteration
	body.Get("value").ForEach(func(_, v gjson.Result) bool {
		iterations = append(iterations, &Iteration{
			ID:         v.Get("id").String(),
			Name:       v.Get("name").String(),
			Path:       v.Get("path").String(),
			StartDate:  parseTime(v.Get("attributes.startDate")),
			FinishDate: parseTime(v.Get("attributes.finishDate")),
		})
		return true
	})
	return iterations, nil
}

type wiqlRequest struct {
	Query string `json:"query"`
}

func (c *Client) QueryWorkItemIDs(ctx context.Context, query string) ([]int, error) {
	q := url.Values{}
	if c.conf.QueryLimit > 0 {
		q.Set("$top", strconv.Itoa(c.conf.QueryLimit))
	}
	body, err := c.do(ctx, http.MethodPost, []string{"_apis", "wit", "wiql"}, q, wiqlRequest{Query: query})
	if err != nil {
		return nil, err
	}

	var ids []int
	for _, id := range body.Get("workItems.#.id").Array() {
		ids = append(ids, int(id.Int()))
	}
	return ids, nil
}

type workItemsBatchRequest struct {
	IDs         []int    `json:"ids"`
	Fields      []string `json:"fields"`
	AsOf        string   `json:"asOf,omitempty"`
	ErrorPolicy string   `json:"errorPolicy"`
}

func (c *Client) GetWorkItems(ctx context.Context, ids []int, fields []string, asOf *time.Time) ([]*WorkItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	req := workItemsBatchRequest{
		IDs:    ids,
		Fields: fields,
		// deleted or inaccessible ids come back as null instead of failing the batch
		ErrorPolicy: "omit",
	}
	if asOf != nil {
		req.AsOf = asOf.UTC().Format(time.RFC3339)
	}

	body, err := c.do(ctx, http.MethodPost, []string{"_apis", "wit", "workitemsbatch"}, nil, req)
	if err != nil {
		return nil, err
	}

	var items []*WorkItem
	body.Get("value").ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		item := &WorkItem{
			ID:     int(v.Get("id").Int()),
			Fields: make(map[string]string),
		}
		v.Get("fields").ForEach(func(k, f gjson.Result) bool {
			item.Fields[k.String()] = f.String()
			return true
		})
		items = append(items, item)
		return true
	})
	return items, nil
}

func (c *Client) do(ctx context.Context, method string, segments []string, query url.Values, payload any) (gjson.Result, error) {
	var encoded []byte
	if payload != nil {
		var err error
		encoded, err = json.Marshal(payload)
		if err != nil {
			return gjson.Result{}, errors.Wrap(err, "failed to encode request body")
		}
	}

	u := c.base.JoinPath(segments...)
	if query == nil {
		query = url.Values{}
	}
	query.Set("api-version", apiVersion)
	u.RawQuery = query.Encode()

	var result gjson.Result
	err := retry.Do(
		func() error {
			body, err := c.roundTrip(ctx, method, u.String(), encoded)
			if err != nil {
				return err
			}
			if !gjson.ValidBytes(body) {
				return retry.Unrecoverable(errors.Wrapf(ErrMalformedBody, "%s %s", method, u.Path))
			}
			result = gjson.ParseBytes(body)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.conf.RetryAttempts),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().
				Str("evt.name", "worktracker.retry").
				Err(err).
				Uint("attempt", n+1).
				Str("path", u.Path).
				Msg("retrying work tracker request")
		}),
	)
	return result, err
}

func (c *Client) roundTrip(ctx context.Context, method, u string, payload []byte) ([]byte, error) {
	var reqBody io.Reader = http.NoBody
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	req.SetBasicAuth("", c.conf.Token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		err := errors.Wrapf(ErrUnexpectedStatus, "%s %s: %d %s", method, req.URL.Path, res.StatusCode, gjson.GetBytes(body, "message").String())
		if res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, retry.Unrecoverable(err)
	}

	return body, nil
}

func parseTime(r gjson.Result) time.Time {
	if !r.Exists() || r.Type == gjson.Null {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, r.String())
	if err != nil {
		return time.Time{}
	}
	return t
}
