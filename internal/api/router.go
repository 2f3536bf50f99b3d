package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/socialnet/social-api/docs"
	"github.com/socialnet/social-api/internal/api/handler"
	"github.com/socialnet/social-api/internal/api/metrics"
	"github.com/socialnet/social-api/internal/api/middleware"
	"github.com/socialnet/social-api/internal/core/ports"
	"github.com/socialnet/social-api/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Auth     ports.AuthService
	Profiles ports.ProfileService
	Follows  ports.FollowService
	Posts    ports.PostService

	Limiter   middleware.Limiter
	JWTSecret string
	// Ready backs /health/ready; nil always reports ready.
	Ready *handlers.HealthDependenciesHandler

	Log zerolog.Logger
	// Redact hides internal error causes from clients.
	Redact bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Redact)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(metrics.HTTPMiddleware())
	e.Use(requestLogger(d.Log))

	// --- Public routes ---
	healthHandler := handlers.NewHealthHandler()
	ready := d.Ready
	if ready == nil {
		ready = handlers.NewHealthDependenciesHandler(nil)
	}

	e.GET("/", handler.Home)
	e.GET("/health", healthHandler.Liveness) // liveness  – is the process alive?
	e.GET("/health/ready", ready.Readiness)  // readiness – are dependencies up?
	e.GET("/metrics", metrics.Handler())
	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	// --- API routes ---
	limit := middleware.RateLimit(d.Limiter, d.Log)
	auth := middleware.Auth(d.JWTSecret)

	authHandler := handler.NewAuthHandler(d.Auth)
	user := e.Group("/user", limit)
	user.POST("/sign-up", authHandler.SignUp)
	user.POST("/sign-in", authHandler.SignIn)

	profileHandler := handler.NewProfileHandler(d.Profiles)
	profile := e.Group("/user-profile", limit, auth)
	profile.POST("/create/:id", profileHandler.Create)
	profile.PUT("/update/:userId", profileHandler.Update)
	profile.DELETE("/delete/:userId", profileHandler.Delete)
	profile.GET("/view/:userId", profileHandler.View)

	followHandler := handler.NewFollowHandler(d.Follows)
	following := e.Group("/following", limit, auth)
	following.POST("/follow/:userId", followHandler.Follow)
	following.POST("/unfollow/:userId", followHandler.Unfollow)
	following.GET("/get-followers/:userId", followHandler.Followers)
	following.GET("/get-following/:userId", followHandler.Following)

	postHandler := handler.NewPostHandler(d.Posts)
	post := e.Group("/post", limit, auth)
	post.POST("/create/:id", postHandler.Create)
	post.PUT("/update/:id", postHandler.Update)
	post.DELETE("/delete/:id", postHandler.Delete)
	post.GET("/view/:id", postHandler.View)
	post.GET("/latest-post/:id", postHandler.Latest)
	post.GET("/social-feed/:id", postHandler.SocialFeed)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
