package router

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	taskhandler "taskmanager/internal/feature/tasks/transport/handler"
	userhandler "taskmanager/internal/feature/users/transport/handler"
	platformhandler "taskmanager/internal/platform/http/handler"
	"taskmanager/internal/platform/http/middleware"
	jwtmw "taskmanager/internal/platform/jwt"
	"taskmanager/internal/platform/ratelimit"
)

// Handlers are the feature handlers mounted by NewRouter.
type Handlers struct {
	Users   *userhandler.UserHandler
	Avatars *userhandler.AvatarHandler
	Tasks   *taskhandler.TaskHandler
}

// Options configure the cross-cutting middleware.
type Options struct {
	Auth jwtmw.Authenticator

	// LoginLimiter may be nil to disable login throttling.
	LoginLimiter    ratelimit.Allower
	LoginRateLimit  int
	LoginRateWindow time.Duration

	CORSAllowOrigins []string
	ReadyChecks      map[string]platformhandler.Pinger
}

func NewRouter(h Handlers, opt Options) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(corsConfig(opt.CORSAllowOrigins)))

	// No authentication
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.OPTIONS("/healthz", platformhandler.Health)
	r.GET("/readyz", platformhandler.Ready(opt.ReadyChecks))

	r.POST("/users", h.Users.Register)
	r.POST("/users/login",
		ratelimit.PerClientIP(opt.LoginLimiter, "login", opt.LoginRateLimit, opt.LoginRateWindow),
		h.Users.Login)
	r.GET("/users/:id/avatar", h.Avatars.Get)

	// Bearer token required
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(opt.Auth))
	{
		auth.POST("/users/logout", h.Users.Logout)
		auth.POST("/users/logoutAll", h.Users.LogoutAll)
		auth.GET("/users/me", h.Users.Me)
		auth.PATCH("/users/me", h.Users.UpdateMe)
		auth.DELETE("/users/me", h.Users.DeleteMe)
		auth.POST("/users/me/avatar", h.Avatars.Upload)
		auth.DELETE("/users/me/avatar", h.Avatars.Delete)

		auth.POST("/tasks", h.Tasks.Create)
		auth.GET("/tasks", h.Tasks.List)
		auth.GET("/tasks/:id", h.Tasks.Get)
		auth.PATCH("/tasks/:id", h.Tasks.Update)
		auth.DELETE("/tasks/:id", h.Tasks.Delete)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
