// Package server contains the HTTP and WebSocket handlers of the Gymvy API.
package server

import (
	"context"
	"errors"
	"time"

	_ "gymvy/docs" // swagger docs
	"gymvy/internal/bootstrap"
	"gymvy/internal/cache"
	"gymvy/internal/config"
	"gymvy/internal/featureflags"
	"gymvy/internal/middleware"
	"gymvy/internal/models"
	"gymvy/internal/notifications"
	"gymvy/internal/push"
	"gymvy/internal/repository"
	"gymvy/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// webhookDispatcher runs notification-created events to completion.
type webhookDispatcher interface {
	Authorized(providedSecret string) bool
	Handle(ctx context.Context, providedSecret string, ev *notifications.Event) notifications.Result
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	notifier *notifications.Notifier
	hub      *notifications.Hub
	flags    *featureflags.Flags

	users      *service.UserService
	profiles   *service.ProfileService
	graph      *service.GraphService
	engagement *service.EngagementService
	feed       *service.FeedService
	posts      *service.PostService
	pushTokens *service.PushTokenService
	dispatcher webhookDispatcher
}

// Option customizes a Server built by NewServerWithDeps.
type Option func(*serverOptions)

type serverOptions struct {
	sender push.Sender
	images service.ImageStore
}

// WithPushSender replaces the Expo transport.
func WithPushSender(sender push.Sender) Option {
	return func(o *serverOptions) { o.sender = sender }
}

// WithImageStore attaches the store used to remove post images.
func WithImageStore(images service.ImageStore) Option {
	return func(o *serverOptions) { o.images = images }
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, rdb, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching, rate limiting and the in-app stream then
// degrade to no-ops.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts ...Option) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server: config and database are required")
	}
	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	commentLikeRepo := repository.NewCommentLikeRepository(db)
	targetRepo := repository.NewTargetRepository(db)
	pushTokenRepo := repository.NewPushTokenRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("gymvy-api"),
		notifier:       notifications.NewNotifier(redisClient),
		hub:            notifications.NewHub(),
		flags:          featureflags.Parse(cfg.FeatureFlags),
	}

	s.users = service.NewUserService(userRepo, profileRepo, followRepo, cache.NewStore(redisClient))
	s.profiles = service.NewProfileService(profileRepo, userRepo)
	s.graph = service.NewGraphService(followRepo, userRepo, s.users.ResolveUsername)
	s.engagement = service.NewEngagementService(likeRepo, commentLikeRepo, commentRepo, targetRepo,
		followRepo, userRepo, service.PolicyByName(cfg.CommentAuthzPolicy))
	s.feed = service.NewFeedService(followRepo, postRepo, userRepo)
	s.posts = service.NewPostService(postRepo, userRepo, o.images)
	s.pushTokens = service.NewPushTokenService(pushTokenRepo, userRepo)

	sender := o.sender
	if sender == nil {
		sender = push.NewExpoClient(push.ExpoConfig{
			URL:               cfg.ExpoPushURL,
			AccessToken:       cfg.ExpoAccessToken,
			Timeout:           time.Duration(cfg.PushTimeoutSeconds) * time.Second,
			RequestsPerSecond: cfg.PushRatePerSecond,
		})
	}
	s.dispatcher = notifications.NewDispatcher(notifications.DispatcherConfig{
		Secret:    cfg.WebhookSecret,
		Tokens:    pushTokenRepo,
		Users:     userRepo,
		Follows:   followRepo,
		Sender:    sender,
		Publisher: s.notifier,
		Flags:     s.flags,
	})

	return s, nil
}

// App builds the Fiber application on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:     "Gymvy API",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit so error responses keep their headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8081,http://localhost:19006"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Webhook-Secret, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || !s.config.IsProduction()
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))

	app.Use(middleware.OptionalAuth(s.config.JWTSecret, s.config.JWTAudience, s.users.ResolveSubject))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Users. Fixed segments go before /:username.
	users := api.Group("/users")
	users.Post("/auth/:supabaseId", s.AuthenticateUser)
	users.Get("/search", s.SearchUsers)
	users.Get("/check-username/:username", s.CheckUsername)
	users.Put("/create-profile/:supabaseId", s.CreateUserProfile)
	users.Put("/complete-onboarding/:supabaseId", s.CompleteOnboarding)
	users.Get("/:username/followers", s.GetFollowers)
	users.Get("/:username/following", s.GetFollowing)
	users.Post("/:username/follow", middleware.RateLimit(s.redis, 60, time.Minute, "follow"), s.FollowUser)
	users.Delete("/:username/unfollow", middleware.RateLimit(s.redis, 60, time.Minute, "follow"), s.UnfollowUser)
	users.Get("/:username", s.GetUserByUsername)

	api.Post("/follow/:username", middleware.RateLimit(s.redis, 60, time.Minute, "follow"), s.FollowUser)
	api.Delete("/unfollow/:username", middleware.RateLimit(s.redis, 60, time.Minute, "follow"), s.UnfollowUser)

	profiles := api.Group("/profiles")
	profiles.Get("/public", s.ListPublicProfiles)
	profiles.Get("/username/:username", s.GetProfileByUsername)
	profiles.Get("/user/:userId", s.GetProfileByUserID)
	profiles.Post("/", s.CreateProfile)
	profiles.Put("/user/:userId", s.UpdateProfile)
	profiles.Delete("/user/:userId", s.DeleteProfile)

	api.Get("/feed/following/:userId", s.GetFollowingFeed)

	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", s.CreatePost)
	posts.Post("/multiple", s.GetPostsByUsers)
	posts.Get("/following/:userId", s.GetFollowingFeed)
	posts.Get("/user/:userId", s.GetUserPosts)
	posts.Post("/:postId/like", s.LikePost)
	posts.Delete("/:postId/like/:userId", s.UnlikePost)
	posts.Post("/:postId/comments", s.CreatePostComment)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	likes := api.Group("/likes")
	likes.Post("/toggle", middleware.RateLimit(s.redis, 120, time.Minute, "toggle_like"), s.ToggleLike)
	likes.Get("/post/:postId", s.GetPostLikes)
	likes.Get("/split/:splitId", s.GetSplitLikes)
	likes.Get("/user/:userId", s.GetUserLikes)
	likes.Post("/", s.CreateLike)
	likes.Delete("/:id", s.DeleteLike)

	comments := api.Group("/comments")
	comments.Get("/post/:postId", s.GetPostComments)
	comments.Get("/split/:splitId", s.GetSplitComments)
	comments.Get("/user/:userId", s.GetUserComments)
	comments.Get("/:id", s.GetComment)
	comments.Post("/", s.CreateComment)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	api.Post("/comment-likes/toggle",
		middleware.RateLimit(s.redis, 120, time.Minute, "toggle_comment_like"), s.ToggleCommentLike)

	tokens := api.Group("/push-tokens")
	tokens.Post("/register/:supabaseId", s.RegisterPushToken)
	tokens.Delete("/remove", s.RemovePushToken)
	tokens.Get("/user/:supabaseId", s.GetUserPushTokens)

	api.Post("/webhooks/notification-created",
		middleware.RateLimit(s.redis, 600, time.Minute, "webhook"), s.NotificationCreated)

	api.Get("/feature-flags", s.GetFeatureFlags)

	api.Get("/ws", middleware.AuthRequired, s.WebsocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	// Redis is optional; only an unreachable configured Redis fails readiness.
	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start wires the in-app stream and listens on the configured port.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.App()

	if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
		middleware.Logger.Error("failed to start notification stream wiring", "error", err)
	}

	middleware.Logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down notification hub", "error", err)
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
