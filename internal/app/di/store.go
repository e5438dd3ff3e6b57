package di

import (
	"context"
	"fmt"
	"log/slog"

	"taskmanager/internal/feature/tasks/adapters"
	taskusecase "taskmanager/internal/feature/tasks/usecase"
	useradapters "taskmanager/internal/feature/users/adapters"
	userusecase "taskmanager/internal/feature/users/usecase"
	"taskmanager/internal/platform/config"
	"taskmanager/internal/platform/db"
	"taskmanager/internal/platform/mongo"
)

// Store bundles the repositories of the selected backend.
type Store struct {
	Users    userusecase.UserRepository
	Sessions userusecase.SessionRepository
	Tasks    taskusecase.TaskRepository

	Ping  func(ctx context.Context) error
	Close func(ctx context.Context) error
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// OpenStore connects to the backend named by cfg.StoreDriver and prepares its schema
// when cfg.RunMigrations is set.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.StoreDriver == config.DriverMongo {
		return openMongoStore(ctx, cfg)
	}
	return openGormStore(cfg)
}

func openGormStore(cfg *config.Config) (*Store, error) {
	gdb, err := db.Open(cfg.StoreDriver, cfg.DB, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		models := append(useradapters.Models(), adapters.Models()...)
		if err := db.Migrate(gdb, models...); err != nil {
			_ = db.Close(gdb)
			return nil, err
		}
		slog.Info("database migrated", "driver", cfg.StoreDriver)
	}

	return &Store{
		Users:    useradapters.NewUserGorm(gdb),
		Sessions: useradapters.NewSessionGorm(gdb),
		Tasks:    adapters.NewTaskGorm(gdb),
		Ping:     func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Close:    func(context.Context) error { return db.Close(gdb) },
	}, nil
}

func openMongoStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}

	database := client.Database()
	users := useradapters.NewUserMongo(database)
	sessions := useradapters.NewSessionMongo(database)
	tasks := adapters.NewTaskMongo(database)

	if cfg.RunMigrations {
		for name, ix := range map[string]indexer{"users": users, "sessions": sessions, "tasks": tasks} {
			if err := ix.EnsureIndexes(ctx); err != nil {
				_ = client.Close(context.Background())
				return nil, fmt.Errorf("ensure %s indexes: %w", name, err)
			}
		}
		slog.Info("mongo indexes ensured", "database", cfg.MongoDatabase)
	}

	return &Store{
		Users:    users,
		Sessions: sessions,
		Tasks:    tasks,
		Ping:     client.Ping,
		Close:    client.Close,
	}, nil
}
