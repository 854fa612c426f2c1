// Package server contains the HTTP handlers and page rendering for the web application.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"friendsapp/internal/cache"
	"friendsapp/internal/config"
	"friendsapp/internal/credential"
	"friendsapp/internal/database"
	"friendsapp/internal/middleware"
	"friendsapp/internal/observability"
	"friendsapp/internal/repository"
	"friendsapp/internal/service"
	"friendsapp/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	flashKey       string
	sessions       *session.Manager
	userService    *service.UserService
	postService    *service.PostService
	followService  *service.FollowService
}

// NewServer connects to the database and Redis and wires the server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// A nil client means Redis is unreachable; sessions then live in memory.
	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	followRepo := repository.NewFollowRepository(db)

	var store session.Store
	if redisClient != nil {
		store = session.NewRedisStore(redisClient)
	} else {
		middleware.Logger.Warn("Redis unavailable, sessions are kept in memory")
		store = session.NewMemoryStore()
	}

	prom, _ := middleware.InitMetrics("friends-web", observability.Collectors()...)

	flashKey, err := flashCookieKey(cfg.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("derive flash cookie key: %w", err)
	}

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		flashKey:       flashKey,
		sessions:       session.NewManager(store, cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour),
		userService:    service.NewUserService(userRepo, credential.NewBcrypt(cfg.BcryptCost)),
		postService:    service.NewPostService(postRepo, userRepo),
		followService:  service.NewFollowService(followRepo, userRepo),
	}, nil
}

// NewApp builds the Fiber app with views, middleware and routes.
func (s *Server) NewApp() (*fiber.App, error) {
	engine, err := newViewEngine()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:      "Friends",
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests, please try again later.")
		},
	}))

	app.Use(sealCookies(s.flashKey))
	app.Use(s.LoadSession())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Get("/register", s.RegisterForm)
	app.Post("/register", middleware.RateLimit(s.redis, s.config.Env, 3, 10*time.Minute, "register"), s.Register)
	app.Get("/login", s.LoginForm)
	app.Post("/login", middleware.RateLimit(s.redis, s.config.Env, 10, 5*time.Minute, "login"), s.Login)

	auth := middleware.AuthRequired(s.redirectToLogin)

	app.Get("/", auth, s.Index)
	app.Get("/logout", auth, s.Logout)
	app.Get("/posts", auth, s.ListPosts)
	app.Get("/post/new", auth, s.NewPostForm)
	app.Post("/post/new", auth, s.CreatePost)
	app.Get("/post/delete/:id", auth, s.DeletePost)
	app.Get("/user", auth, s.UserPage)
	app.Get("/friends", auth, s.Friends)
	app.Get("/follow/:username", auth, s.Follow)
	app.Get("/unfollow/:username", auth, s.Unfollow)
}

// LoadSession resolves the session cookie into the current user. Requests
// without a valid session continue anonymously.
func (s *Server) LoadSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/metrics" || strings.HasPrefix(path, "/health") {
			return c.Next()
		}

		cookie := c.Cookies(sessionCookie)
		if cookie == "" {
			return c.Next()
		}

		ctx := c.UserContext()
		userID, err := s.sessions.Resolve(ctx, cookie)
		if err != nil {
			expireCookie(c, sessionCookie)
			return c.Next()
		}

		user, err := s.userService.Get(ctx, userID)
		if err != nil {
			if !isNotFound(err) {
				return err
			}
			// The account behind a live session is gone.
			_ = s.sessions.Revoke(ctx, cookie)
			expireCookie(c, sessionCookie)
			return c.Next()
		}

		c.Locals(currentUserLocal, user)
		middleware.SetUserID(c, user.ID)
		return c.Next()
	}
}

func (s *Server) redirectToLogin(c *fiber.Ctx) error {
	addFlash(c, flashInfo, "Please log in to access this page.")
	return c.Redirect("/login")
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional, so a
// missing client does not fail readiness but an unreachable one does.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "disabled"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// errorHandler renders a generic page for errors no handler dealt with.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong."
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	if renderErr := s.render(c, code, "error", "Error", fiber.Map{"Code": code, "Message": message}); renderErr != nil {
		return c.Status(code).SendString(message)
	}
	return nil
}

// Start starts the server
func (s *Server) Start() error {
	app, err := s.NewApp()
	if err != nil {
		return err
	}
	s.app = app

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown stops the HTTP server and closes the database and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
