package database

import (
	"context"
	"database/sql/driver"
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	baseRetryDelay = 50 * time.Millisecond
	maxRetryDelay  = 2 * time.Second
)

// driverConnector adapts a driver.Driver without OpenConnector to
// driver.Connector so it can be passed to sql.OpenDB.
type driverConnector struct {
	driver driver.Driver
	dsn    string
}

func (dc *driverConnector) Connect(_ context.Context) (driver.Conn, error) {
	return dc.driver.Open(dc.dsn)
}

func (dc *driverConnector) Driver() driver.Driver {
	return dc.driver
}

// pragmaConnector runs a fixed list of statements on every new connection
// before handing it to database/sql. Statements that hit a lock held by
// another process (the migrations CLI, say) are retried with backoff. Once
// busy_timeout is set, SQLite waits on locks by itself.
type pragmaConnector struct {
	connector  driver.Connector
	pragmas    []string
	maxRetries int
}

func newPragmaConnector(connector driver.Connector, maxRetries int, pragmas ...string) *pragmaConnector {
	return &pragmaConnector{
		connector:  connector,
		pragmas:    pragmas,
		maxRetries: maxRetries,
	}
}

func (pc *pragmaConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := pc.connector.Connect(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for _, pragma := range pc.pragmas {
		err := retryWithBackoff(ctx, pc.maxRetries, func() error {
			return execNoArgs(ctx, conn, pragma)
		})
		if err != nil {
			_ = conn.Close()
			return nil, errors.Wrapf(err, "running %q", pragma)
		}
	}

	return conn, nil
}

func (pc *pragmaConnector) Driver() driver.Driver {
	return pc.connector.Driver()
}

// execNoArgs runs a statement without arguments directly on a driver
// connection.
func execNoArgs(ctx context.Context, conn driver.Conn, query string) error {
	if execer, ok := conn.(driver.ExecerContext); ok {
		_, err := execer.ExecContext(ctx, query, nil)
		if !errors.Is(err, driver.ErrSkip) {
			return err
		}
	}

	stmt, err := conn.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.Exec(nil) //nolint:staticcheck // only reached for drivers without ExecerContext
	return err
}

// busyMessages are SQLite's own descriptions of SQLITE_BUSY and
// SQLITE_LOCKED, which is all mattn/go-sqlite3 errors expose without cgo
// types.
var busyMessages = []string{
	"database is locked",
	"database table is locked",
}

// isBusyError reports whether err is SQLite's BUSY or LOCKED. modernc errors
// are matched on their primary result code and anything else on SQLite's
// message for those codes.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		default:
			return false
		}
	}

	msg := err.Error()
	for _, m := range busyMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// retryWithBackoff calls fn until it succeeds, fails with something other
// than a busy error, or has been retried maxRetries times. Delays double from
// baseRetryDelay with up to 25% jitter and are capped at maxRetryDelay.
func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !isBusyError(err) || attempt >= maxRetries {
			return err
		}

		delay := baseRetryDelay << attempt
		delay += time.Duration(rand.Int63n(int64(delay/4) + 1))
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
