package appconfig

import (
	"time"

	"exusiai.dev/sprintsummary/internal/app/appcontext"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address would listen on for serving API requests.
	ServiceAddress string `required:"true" split_words:"true" default:"localhost:9010"`

	// DevMode to indicate development mode. When true, the program would spin up utilities for debugging and
	// provide a more contextual message when encountered a panic. See internal/server/httpserver/http.go for the
	// actual implementation details.
	DevMode bool `split_words:"true"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// LogFile is the path of the rotated log file. Leaving this empty logs to stdout only.
	LogFile string `split_words:"true" default:"logs/app.log"`

	// TrustedProxies is a list of trusted proxies that are trusted to report a real IP via the X-Forwarded-For header.
	TrustedProxies []string `required:"true" split_words:"true" default:"::1,127.0.0.1,10.0.0.0/8"`

	// TracingEnabled to indicate whether to enable OpenTelemetry tracing.
	TracingEnabled bool `split_words:"true"`

	// TracingExporters to indicate which exporters to use for tracing.
	// Valid values are: otlp, stdout (for debug).
	TracingExporters []string `split_words:"true" default:"otlp"`

	// TracingSampleRate to indicate the sampling rate for tracing.
	// Valid values are: 0.0 (disabled), 1.0 (all traces), or a value between 0.0 and 1.0 (sampling rate).
	TracingSampleRate float64 `split_words:"true" default:"1.0"`

	// infrastructure components connection instructions

	// DatabaseDSN is the data source name of the document store. postgres:// and postgresql:// DSNs are
	// opened with pgdriver (see https://bun.uptrace.dev/postgres/#pgdriver), while file: DSNs are opened
	// with SQLite for single node deployments.
	DatabaseDSN string `required:"true" split_words:"true"`

	DatabaseMaxOpenConns    int           `split_words:"true" default:"10"`
	DatabaseMaxIdleConns    int           `split_words:"true" default:"2"`
	DatabaseConnMaxLifeTime time.Duration `split_words:"true" default:"5m"`

	BunDebugVerbose bool `split_words:"true"`

	// NatsURL is the URL of the NATS server. See https://pkg.go.dev/github.com/nats-io/nats.go#Connect
	// for more information on how to construct a NATS URL.
	NatsURL string `required:"true" split_words:"true" default:"nats://127.0.0.1:4222"`

	// RedisURL is the URL of the Redis server. See https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL
	// for more information on how to construct a Redis URL.
	RedisURL string `required:"true" split_words:"true" default:"redis://127.0.0.1:6379/2"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// work tracker

	// TrackerOrganizationURL is the collection root of the work tracker, e.g. https://dev.azure.com/contoso
	TrackerOrganizationURL string `required:"true" split_words:"true"`

	// TrackerToken is the personal access token used to authenticate against the work tracker.
	TrackerToken string `split_words:"true"`

	TrackerTimeout       time.Duration `split_words:"true" default:"30s"`
	TrackerRetryAttempts uint          `split_words:"true" default:"3"`

	// TrackerBlockSize is the number of work items fetched per batch request.
	TrackerBlockSize int `split_words:"true" default:"200"`

	// TrackerQueryLimit caps the number of ids a single WIQL query may return.
	TrackerQueryLimit int `split_words:"true" default:"20000"`

	// TrackerWorkItemTypes are the work item types counted as committed work.
	TrackerWorkItemTypes []string `split_words:"true" default:"Bug,User Story"`

	// TrackerCompletedStates are the states that count a committed item as completed at sprint end.
	TrackerCompletedStates []string `split_words:"true" default:"Closed,Resolved,Removed"`

	// TrackerAllCompletedStates are the states queried for every item completed in the sprint,
	// committed or not.
	TrackerAllCompletedStates []string `split_words:"true" default:"Closed,Resolved"`

	// TrackerTeamSuffix is appended to a project name to obtain the team whose iterations are read.
	TrackerTeamSuffix string `split_words:"true" default:" Team"`

	// refresh pipeline

	// GatherConcurrency is the number of projects gathered in parallel.
	GatherConcurrency int `split_words:"true" default:"4"`

	// RefreshTimeout bounds a single refresh run, and also the expiry of its distributed lock.
	RefreshTimeout time.Duration `required:"true" split_words:"true" default:"10m"`

	// RefreshSchedule is a standard 5-field cron expression for refreshing every user with saved settings.
	// Leaving this empty disables scheduled refreshes.
	RefreshSchedule Schedule `split_words:"true"`

	// WorkerEnabled is a flag to indicate whether to consume queued refresh requests in this process.
	WorkerEnabled bool `split_words:"true" default:"true"`

	TableCacheTTL   time.Duration `split_words:"true" default:"10m"`
	SummaryCacheTTL time.Duration `split_words:"true" default:"1h"`

	// DefaultUser is the user scope applied to requests without an X-Sprint-User header.
	DefaultUser string `required:"true" split_words:"true" default:"default"`

	// HTTPServerShutdownTimeout is the timeout for the HTTP server to shut down gracefully.
	HTTPServerShutdownTimeout time.Duration `required:"true" split_words:"true" default:"60s"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}
