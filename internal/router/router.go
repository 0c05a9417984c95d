package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"swarmfeedback/internal/auth"
	apperrors "swarmfeedback/internal/errors"
	"swarmfeedback/internal/handler"
	"swarmfeedback/internal/metrics"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Submissions *handler.SubmissionHandler
	Feedback    *handler.FeedbackHandler
	Users       *handler.UserHandler
	Activity    *handler.ActivityHandler
	Messages    *handler.MessageHandler
	Files       *handler.FileHandler
	Health      *handler.HealthHandler
}

// Options configures middleware.
type Options struct {
	JWT            *auth.JWTService
	Tokens         auth.TokenStoreInterface
	Metrics        *metrics.Metrics
	CORSOrigins    string
	MaxUploadBytes int64
	// Sentry enables the Sentry request middleware; the client must already be initialized.
	Sentry bool
}

// Register wires routes and middleware.
func Register(e *echo.Echo, opts Options, h Handlers) {
	e.HTTPErrorHandler = errorHandler(e)
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	if opts.Sentry {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: splitOrigins(opts.CORSOrigins)}))
	if opts.MaxUploadBytes > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%dK", (opts.MaxUploadBytes+1023)/1024)))
	}
	if opts.Metrics != nil {
		e.Use(opts.Metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}

	e.GET("/healthz", h.Health.Healthz)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/uploads/:name", h.Files.Serve)

	requireAuth := jwtMiddleware(opts, false)
	optionalAuth := jwtMiddleware(opts, true)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/signin", h.Auth.Signin)
	api.POST("/auth/forgot-password", h.Auth.ForgotPassword)
	api.POST("/auth/reset-password", h.Auth.ResetPassword)
	api.POST("/feedback", h.Feedback.Create, optionalAuth)

	// Secured routes (require JWT authentication)
	secured := api.Group("", requireAuth)
	secured.POST("/auth/signout", h.Auth.Signout)

	secured.POST("/submissions", h.Submissions.Create)
	secured.GET("/submissions", h.Submissions.List)
	secured.GET("/submissions/my", h.Submissions.ListMine)
	secured.GET("/submissions/:id", h.Submissions.Get)
	secured.PUT("/submissions/:id/status", h.Submissions.UpdateStatus)

	secured.GET("/feedback", h.Feedback.List)
	secured.GET("/feedback/my", h.Feedback.ListMine)
	secured.GET("/feedback/submission/:id", h.Feedback.ListForSubmission)
	secured.PUT("/feedback/:id", h.Feedback.Update)
	secured.PUT("/feedback/:id/status", h.Feedback.UpdateStatus)
	secured.PUT("/feedback/:id/reply", h.Feedback.Reply)

	secured.GET("/users", h.Users.List)
	secured.GET("/users/me", h.Users.GetMe)
	secured.PUT("/users/me", h.Users.UpdateMe)
	secured.POST("/users/me/picture", h.Users.UploadPicture)
	secured.GET("/users/leaderboard", h.Users.Leaderboard)
	secured.DELETE("/users/:id", h.Users.Delete)

	secured.GET("/activity/my", h.Activity.ListMine)
	secured.GET("/activity/user/:id", h.Activity.ListForUser)

	secured.POST("/messages", h.Messages.Send)
	secured.GET("/messages", h.Messages.List)
	secured.PUT("/messages/:id/read", h.Messages.MarkRead)

	secured.POST("/files/upload", h.Files.Upload)
}

// jwtMiddleware validates "Authorization: Bearer <token>", rejects tokens that
// were signed out or belong to a deleted user, and stores the caller's Principal under auth.PrincipalKey.
// With optional set, requests without an Authorization header pass as anonymous.
func jwtMiddleware(opts Options, optional bool) echo.MiddlewareFunc {
	cfg := echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			claims, err := opts.JWT.ValidateToken(raw)
			if err != nil {
				return nil, err
			}
			if opts.Tokens != nil {
				revoked, err := opts.Tokens.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil {
					return nil, err
				}
				if revoked {
					return nil, auth.ErrTokenRevoked
				}
				revoked, err = opts.Tokens.IsUserRevoked(c.Request().Context(), claims.UserID)
				if err != nil {
					return nil, err
				}
				if revoked {
					return nil, auth.ErrTokenRevoked
				}
			}
			c.Set(auth.PrincipalKey, claims.Principal())
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			slog.DebugContext(c.Request().Context(), "bearer token rejected", "error", err)
			target := apperrors.ErrInvalidToken
			if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ") {
				target = apperrors.ErrUnauthorized
			}
			httpErr := apperrors.MapErrorToHTTP(target)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	}
	if optional {
		cfg.Skipper = func(c echo.Context) bool {
			return c.Request().Header.Get(echo.HeaderAuthorization) == ""
		}
	}
	return echojwt.WithConfig(cfg)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error.Error())
			}
			slog.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}

// errorHandler renders every error as errors.ErrorResponse, including the
// plain-string errors echo produces for unknown routes and oversized bodies.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			mapped := apperrors.MapErrorToHTTP(err)
			he = echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
		}
		body, ok := he.Message.(apperrors.ErrorResponse)
		if !ok {
			body = apperrors.ErrorResponse{
				Error: fmt.Sprint(he.Message),
				Code:  strings.ToUpper(strings.ReplaceAll(http.StatusText(he.Code), " ", "_")),
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, body)
		}
		if err != nil {
			e.Logger.Error(err)
		}
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
