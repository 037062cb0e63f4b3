package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/booknotes/pkg/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type logQueryHook struct {
	log logger.Logger
}

func (*logQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (qh *logQueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	data := logger.Data{"duration_ms": time.Since(event.StartTime).Milliseconds()}
	if event.Err != nil {
		data["error"] = event.Err.Error()
	}
	qh.log.Debug(event.Query, data)
}

// connectionPragmas are run on every new connection. foreign_keys is a
// per-connection setting in SQLite, so it can't be set once after opening.
func connectionPragmas(cfg *config.Config) []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.DatabaseBusyTimeout.Milliseconds()),
	}
}

func New(cfg *config.Config) (*bun.DB, error) {
	connector, err := openConnector(cfg.DatabaseFilePath)
	if err != nil {
		return nil, err
	}
	sqldb := sql.OpenDB(newPragmaConnector(connector, cfg.DatabaseMaxRetries, connectionPragmas(cfg)...))

	// Every request shares one connection. This also keeps an in-memory
	// database alive for the life of the pool.
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if cfg.DatabaseDebug {
		db.AddQueryHook(&logQueryHook{logger.NewWithLevel("debug")})
	}

	if err := waitUntilReady(db, cfg.DatabaseConnectRetryCount, cfg.DatabaseConnectRetryDelay); err != nil {
		return nil, err
	}

	// WAL lets the migrations CLI read while the server writes. In-memory
	// databases answer "memory" here, which is fine.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, errors.Wrap(err, "failed to enable WAL mode")
	}

	return db, nil
}

func openConnector(dsn string) (driver.Connector, error) {
	drv := sqliteshim.Driver()
	dc, ok := drv.(driver.DriverContext)
	if !ok {
		return &driverConnector{drv, dsn}, nil
	}
	c, err := dc.OpenConnector(dsn)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return c, nil
}

// waitUntilReady pings the database up to attempts times, sleeping delay
// between failures.
func waitUntilReady(db *bun.DB, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < max(attempts, 1); i++ {
		if i > 0 {
			time.Sleep(delay)
		}
		if _, err = db.Exec("SELECT 1"); err == nil {
			return nil
		}
	}
	return errors.Wrap(err, "database not ready")
}

// ForeignKeysEnabled reports whether the current connection enforces foreign
// keys.
func ForeignKeysEnabled(ctx context.Context, db *bun.DB) (bool, error) {
	var enabled int
	err := db.NewRaw("PRAGMA foreign_keys").Scan(ctx, &enabled)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return enabled == 1, nil
}
