// AngelaMos | 2026
// stores.go

package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/borka-sandviken/borka-api/internal/auth"
	"github.com/borka-sandviken/borka-api/internal/category"
	"github.com/borka-sandviken/borka-api/internal/config"
	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/event"
	"github.com/borka-sandviken/borka-api/internal/health"
	"github.com/borka-sandviken/borka-api/internal/news"
	"github.com/borka-sandviken/borka-api/internal/user"
)

// stores holds the repositories for the configured database driver.
type stores struct {
	users      user.Repository
	sessions   auth.Repository
	categories category.Repository
	events     event.Repository
	news       news.Repository

	checker health.Checker
	dbStats func() sql.DBStats
	close   func(ctx context.Context) error
}

func openStores(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (*stores, error) {
	if cfg.Driver == config.DriverMongo {
		return openMongo(ctx, cfg, logger)
	}
	return openPostgres(ctx, cfg, logger)
}

func openPostgres(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (*stores, error) {
	if cfg.AutoMigrate {
		if err := core.RunMigrations(cfg.URL); err != nil {
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	db, err := core.NewDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected",
		"driver", config.DriverPostgres,
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	return &stores{
		users:      user.NewRepository(db.DB),
		sessions:   auth.NewRepository(db.DB),
		categories: category.NewRepository(db.DB),
		events:     event.NewRepository(db.DB),
		news:       news.NewRepository(db.DB),
		checker:    db,
		dbStats:    db.Stats,
		close:      func(context.Context) error { return db.Close() },
	}, nil
}

func openMongo(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (*stores, error) {
	m, err := core.NewMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected",
		"driver", config.DriverMongo,
		"database", cfg.Name,
	)

	st := &stores{checker: m, close: m.Close}

	if st.users, err = user.NewMongoRepository(ctx, m.DB); err != nil {
		return nil, closeOnError(ctx, m, err)
	}
	if st.sessions, err = auth.NewMongoRepository(ctx, m.DB); err != nil {
		return nil, closeOnError(ctx, m, err)
	}
	if st.categories, err = category.NewMongoRepository(ctx, m.DB); err != nil {
		return nil, closeOnError(ctx, m, err)
	}
	if st.events, err = event.NewMongoRepository(ctx, m.DB); err != nil {
		return nil, closeOnError(ctx, m, err)
	}
	if st.news, err = news.NewMongoRepository(ctx, m.DB); err != nil {
		return nil, closeOnError(ctx, m, err)
	}

	return st, nil
}

func closeOnError(ctx context.Context, m *core.Mongo, err error) error {
	_ = m.Close(ctx) //nolint:errcheck // cleanup on startup failure
	return err
}
