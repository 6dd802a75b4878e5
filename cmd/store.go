package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/task-tracker/internal/core/ports"
	"github.com/99minutos/task-tracker/internal/infrastructure/config"
	mongostore "github.com/99minutos/task-tracker/internal/infrastructure/db/mongo"
	"github.com/99minutos/task-tracker/internal/infrastructure/db/sqlstore"
	"github.com/99minutos/task-tracker/internal/infrastructure/http/handlers"
)

// stores bundles the repositories of the configured backend.
type stores struct {
	users    ports.UserRepository
	members  ports.MemberRepository
	tasks    ports.TaskRepository
	activity ports.ActivityRepository
	checker  handlers.Checker
	close    func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.Store.Driver == config.DriverMongo {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &stores{
			users:    mongostore.NewUserRepository(db),
			members:  mongostore.NewMemberRepository(db),
			tasks:    mongostore.NewTaskRepository(db),
			activity: mongostore.NewActivityRepository(db),
			checker:  mongostore.NewPinger(client),
			close:    client.Disconnect,
		}, nil
	}

	db, err := sqlstore.Open(ctx, sqlstore.Config{Driver: cfg.Store.Driver, DSN: cfg.Store.DSN}, log)
	if err != nil {
		return nil, err
	}
	if err := sqlstore.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("connected to database")

	return &stores{
		users:    sqlstore.NewUserRepository(db),
		members:  sqlstore.NewMemberRepository(db),
		tasks:    sqlstore.NewTaskRepository(db),
		activity: sqlstore.NewActivityRepository(db),
		checker:  sqlstore.NewPinger(db),
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}
