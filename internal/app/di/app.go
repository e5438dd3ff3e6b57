// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"taskmanager/internal/app/router"
	taskhandler "taskmanager/internal/feature/tasks/transport/handler"
	taskusecase "taskmanager/internal/feature/tasks/usecase"
	"taskmanager/internal/feature/users/adapters/imaging"
	userhandler "taskmanager/internal/feature/users/transport/handler"
	userusecase "taskmanager/internal/feature/users/usecase"
	"taskmanager/internal/platform/cache"
	"taskmanager/internal/platform/config"
	platformhandler "taskmanager/internal/platform/http/handler"
	jwtmw "taskmanager/internal/platform/jwt"
	"taskmanager/internal/platform/mail"
	"taskmanager/internal/platform/password"
	"taskmanager/internal/platform/ratelimit"
	platformredis "taskmanager/internal/platform/redis"
)

// SessionPurger deletes expired sessions.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// App is the assembled server.
type App struct {
	Router   *gin.Engine
	Mail     *mail.Queue
	Sessions SessionPurger

	closers []func(ctx context.Context) error
}

// Build connects every backend and wires the handlers.
// Redis is optional: when it is missing or unreachable the server runs without
// the task cache and login throttling, and keeps sessions in the store.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, store.Close)
	readyChecks := map[string]platformhandler.Pinger{"store": store.Ping}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		if client, err := platformredis.NewRedisClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password); err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = client
			app.closers = append(app.closers, func(context.Context) error { return rdb.Close() })
			readyChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	moderator, closeModerator, err := NewModerator(ctx, cfg.AvatarModeration)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	app.closers = append(app.closers, func(context.Context) error { return closeModerator() })

	// Repositories
	sessions := NewSessionRepository(rdb, store)
	var tasks taskusecase.TaskRepository = store.Tasks
	if rdb != nil {
		tasks = cache.NewCachingTaskRepository(rdb, cfg.TaskCacheTTL, store.Tasks, "tasks")
	}

	app.Mail = NewMailQueue(cfg.Mail)

	// Usecases
	taskUC := taskusecase.NewTaskUsecase(tasks)
	accountUC := userusecase.NewAccountUsecase(
		store.Users,
		sessions,
		taskUC,
		password.NewHasher(cfg.Auth.BcryptCost),
		jwtmw.NewGenerator(cfg.Auth.JWTSecret),
		jwtmw.NewParser(cfg.Auth.JWTSecret),
		app.Mail,
		userusecase.AccountConfig{
			TokenTTL:           cfg.Auth.TokenTTL,
			MaxSessionsPerUser: cfg.Auth.MaxSessionsPerUser,
		},
	)
	avatarUC := userusecase.NewAvatarUsecase(store.Users, imaging.NewProcessor(), moderator)
	app.Sessions = accountUC

	opts := router.Options{
		Auth:             accountUC,
		LoginRateLimit:   cfg.LoginRateLimit,
		LoginRateWindow:  cfg.LoginRateWindow,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		ReadyChecks:      readyChecks,
	}
	if rdb != nil {
		opts.LoginLimiter = ratelimit.NewLimiter(rdb, "ratelimit:")
	}

	app.Router = router.NewRouter(router.Handlers{
		Users:   userhandler.NewUserHandler(accountUC),
		Avatars: userhandler.NewAvatarHandler(avatarUC),
		Tasks:   taskhandler.NewTaskHandler(taskUC),
	}, opts)

	return app, nil
}

// Close releases backends in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
