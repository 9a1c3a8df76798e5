package infra

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/extra/bunotel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"

	"exusiai.dev/sprintsummary/internal/app/appconfig"
)

func Database(lc fx.Lifecycle, conf *appconfig.Config, tp *trace.TracerProvider) (*bun.DB, error) {
	db, err := OpenDatabase(conf.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if db.Dialect().Name() == dialect.PG {
		db.SetMaxOpenConns(conf.DatabaseMaxOpenConns)
		db.SetMaxIdleConns(conf.DatabaseMaxIdleConns)
		db.SetConnMaxLifetime(conf.DatabaseConnMaxLifeTime)
	}

	if conf.DevMode {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(conf.BunDebugVerbose),
		))
	}

	if tp != nil {
		db.AddQueryHook(bunotel.NewQueryHook(
			bunotel.WithDBName("sprintsummary"),
		))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("infra: database: failed to ping database")
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return db, nil
}

// OpenDatabase picks the dialect from the DSN scheme: postgres:// and
// postgresql:// use pgdriver, file: and :memory: use SQLite.
func OpenDatabase(dsn string) (*bun.DB, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		return bun.NewDB(sqldb, pgdialect.New()), nil
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, errors.Wrap(err, "infra: database: failed to open sqlite database")
		}
		// sqlite serializes writers; a single connection avoids SQLITE_BUSY
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	default:
		return nil, errors.Errorf("infra: database: unsupported dsn scheme in %q", redactDSN(dsn))
	}
}

func redactDSN(dsn string) string {
	scheme, _, ok := strings.Cut(dsn, "://")
	if !ok {
		return "<opaque>"
	}
	return scheme + "://..."
}
