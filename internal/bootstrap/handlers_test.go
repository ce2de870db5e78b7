package bootstrap

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T, args ...string) *echo.Echo {
	t.Helper()

	cfg, err := LoadConfigFrom(append([]string{"--admin-email", "chimpy@getgrist.com"}, args...))
	require.NoError(t, err)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	userStore := ProvideUserStore(db)
	sessionStore := ProvideSessionStore(rdb)
	welcomeStore := ProvideWelcomeStore(db, rdb, cfg)
	require.NoError(t, RunMigrations(userStore, welcomeStore))

	tokens := ProvideTokenService(cfg)
	mw := ProvideMiddleware(tokens, userStore, sessionStore, ProvideAccessConfig(cfg), log)
	scimHandler, err := ProvideScimHandler(userStore, sessionStore, log)
	require.NoError(t, err)

	e := echo.New()
	RegisterRoutes(e, HandlerParams{
		UserHandler:    ProvideUserHandler(userStore, sessionStore, log),
		AuthHandler:    ProvideAuthHandler(userStore, tokens, sessionStore, ProvideSessionManager(cfg), cfg, log),
		ScimHandler:    scimHandler,
		WelcomeHandler: ProvideWelcomeHandler(welcomeStore, userStore, log),
		Middleware:     mw,
		Config:         cfg,
	})
	return e
}

func status(e *echo.Echo, method, path string) int {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec.Code
}

func TestRegisterRoutes_Anonymous(t *testing.T) {
	e := newTestServer(t, "--scim-enabled")

	assert.Equal(t, http.StatusForbidden, status(e, http.MethodGet, "/v1/users"))
	assert.Equal(t, http.StatusForbidden, status(e, http.MethodPost, "/v1/users"))
	assert.Equal(t, http.StatusUnauthorized, status(e, http.MethodGet, "/v1/auth/me"))
	assert.Equal(t, http.StatusUnauthorized, status(e, http.MethodGet, "/v1/welcome/questions"))
	assert.Equal(t, http.StatusForbidden, status(e, http.MethodGet, "/v1/scim/v2/Users"))
}

func TestRegisterRoutes_ScimDisabled(t *testing.T) {
	e := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, status(e, http.MethodGet, "/v1/scim/v2/Users"))
}

func TestRegisterRoutes_Swagger(t *testing.T) {
	e := newTestServer(t)

	assert.Equal(t, http.StatusOK, status(e, http.MethodGet, "/swagger/index.html"))
}

func TestRegisterRoutes_OAuthNotConfigured(t *testing.T) {
	e := newTestServer(t)

	assert.Equal(t, http.StatusInternalServerError, status(e, http.MethodGet, "/v1/auth/google"))
	assert.Equal(t, http.StatusInternalServerError, status(e, http.MethodGet, "/v1/auth/github"))
}
