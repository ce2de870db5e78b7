package bootstrap

import (
	"log/slog"
	"os"

	"github.com/eleven-am/accounts-backend/internal/auth"
	"github.com/eleven-am/accounts-backend/internal/scim"
	"github.com/eleven-am/accounts-backend/internal/session"
	"github.com/eleven-am/accounts-backend/internal/user"
	"github.com/eleven-am/accounts-backend/internal/welcome"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
)

const scimPrefix = "/v1/scim/v2"

type HandlerParams struct {
	fx.In

	UserHandler    *user.Handler
	AuthHandler    *user.AuthHandler
	ScimHandler    *scim.Handler
	WelcomeHandler *welcome.Handler
	Middleware     *auth.Middleware
	Config         *Config
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/v1")
	mw := params.Middleware

	usersGroup := api.Group("/users")
	usersGroup.Use(mw.OptionalAuthenticate, mw.RequireAdmin)
	params.UserHandler.RegisterRoutes(usersGroup)

	params.AuthHandler.RegisterRoutes(api.Group("/auth"), mw.Authenticate)

	if params.Config.ScimEnabled {
		scimGroup := e.Group(scimPrefix)
		scimGroup.Use(mw.OptionalAuthenticate, scim.Gate(mw.Access(), scimPrefix))
		params.ScimHandler.RegisterRoutes(scimGroup)
	}

	welcomeGroup := api.Group("/welcome")
	welcomeGroup.Use(mw.Authenticate)
	params.WelcomeHandler.RegisterRoutes(welcomeGroup)

	e.GET("/swagger/*", echoSwagger.WrapHandler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideAccessConfig(cfg *Config) auth.AccessConfig {
	return auth.AccessConfig{
		AdminEmail: cfg.AdminEmail,
		ScimEmail:  cfg.ScimEmail,
	}
}

func ProvideTokenService(cfg *Config) *auth.TokenService {
	return auth.NewTokenService(cfg.HMACKey, cfg.TokenTTL)
}

func ProvideMiddleware(tokens *auth.TokenService, userStore *user.Store, sessions *session.Store, access auth.AccessConfig, logger *slog.Logger) *auth.Middleware {
	return auth.NewMiddleware(tokens, userStore, sessions, access, logger)
}

func ProvideSessionManager(cfg *Config) *user.SessionManager {
	return user.NewSessionManager(cfg.HMACKey, cfg.CookieSecure, cfg.CookieDomain)
}

func ProvideUserHandler(store *user.Store, sessions *session.Store, logger *slog.Logger) *user.Handler {
	return user.NewHandler(store, sessions, logger.With("handler", "user"))
}

func ProvideAuthHandler(
	store *user.Store,
	tokens *auth.TokenService,
	sessions *session.Store,
	cookies *user.SessionManager,
	cfg *Config,
	logger *slog.Logger,
) *user.AuthHandler {
	return user.NewAuthHandler(user.AuthHandlerParams{
		Store:          store,
		Tokens:         tokens,
		Sessions:       sessions,
		Cookies:        cookies,
		Google:         user.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL),
		GitHub:         user.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubRedirectURL),
		AllowedSchemes: cfg.AllowedSchemes,
		Logger:         logger.With("handler", "auth"),
	})
}

func ProvideScimHandler(store *user.Store, sessions *session.Store, logger *slog.Logger) (*scim.Handler, error) {
	logger = logger.With("handler", "scim")
	return scim.NewHandler(scim.NewUserProvider(store, sessions, logger), scimPrefix, logger)
}

func ProvideWelcomeHandler(store *welcome.Store, userStore *user.Store, logger *slog.Logger) *welcome.Handler {
	return welcome.NewHandler(store, userStore, logger.With("handler", "welcome"))
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideAccessConfig,
		ProvideTokenService,
		ProvideMiddleware,
		ProvideSessionManager,
		ProvideUserHandler,
		ProvideAuthHandler,
		ProvideScimHandler,
		ProvideWelcomeHandler,
	),
	fx.Invoke(RegisterRoutes),
)
