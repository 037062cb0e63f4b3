package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/shishobooks/booknotes/pkg/config"
	"github.com/shishobooks/booknotes/pkg/database"
	"github.com/shishobooks/booknotes/pkg/migrations"
	"github.com/shishobooks/booknotes/pkg/server"
	"github.com/shishobooks/booknotes/pkg/version"
	"github.com/uptrace/bun"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.New()
	log.Info("starting booknotes", logger.Data{"version": version.Version})

	if err := run(context.Background(), log); err != nil {
		log.Err(err).Fatal("booknotes exited")
	}
}

func run(ctx context.Context, log logger.Logger) error {
	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "config")
	}
	log.Info("config loaded", logger.Data{
		"hostname":      cfg.Hostname,
		"database_path": cfg.DatabaseFilePath,
		"catalog_url":   cfg.CatalogBaseURL,
	})

	db, err := database.New(cfg)
	if err != nil {
		return errors.Wrap(err, "database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Err(err).Error("database close error")
			return
		}
		log.Info("database closed")
	}()

	if err := prepareSchema(ctx, log, db); err != nil {
		return err
	}

	srv, err := server.New(cfg, db)
	if err != nil {
		return errors.Wrap(err, "server")
	}

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", srv.Addr)
	if err != nil {
		return errors.Wrap(err, "failed to bind port")
	}
	log.Info("server started", logger.Data{"addr": listener.Addr().String()})

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server stopped")
		}
		return nil
	case <-signals.Setup():
	}

	log.Info("starting graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")
	return nil
}

// prepareSchema refuses to start without foreign key enforcement, since
// deleting a book relies on it, and then applies pending migrations.
func prepareSchema(ctx context.Context, log logger.Logger, db *bun.DB) error {
	enabled, err := database.ForeignKeysEnabled(ctx, db)
	if err != nil {
		return errors.Wrap(err, "foreign key check failed")
	}
	if !enabled {
		return errors.New("foreign keys are not enforced by the sqlite driver")
	}

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		return errors.Wrap(err, "migrations")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
		return nil
	}
	log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	return nil
}
