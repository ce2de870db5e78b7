package scim

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/eleven-am/accounts-backend/internal/auth"
	"github.com/eleven-am/accounts-backend/internal/user"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testPrefix     = "/v1/scim/v2"
	testAdminEmail = "chimpy@getgrist.com"
	testScimEmail  = "scim@getgrist.com"
)

type scimTestEnv struct {
	e       *echo.Echo
	store   *user.Store
	revoker *fakeRevoker
	users   map[string]*user.User
}

func newScimTestEnv(t *testing.T) *scimTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store := user.NewStore(db)
	require.NoError(t, store.Migrate())

	ctx := context.Background()
	users := map[string]*user.User{}
	for _, email := range []string{testAdminEmail, testScimEmail, "kiwi@getgrist.com"} {
		u, err := store.Create(ctx, user.UserProfile{Email: email, Name: strings.Split(email, "@")[0]})
		require.NoError(t, err)
		users[email] = u
	}

	revoker := &fakeRevoker{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := NewHandler(NewUserProvider(store, revoker, log), testPrefix, log)
	require.NoError(t, err)

	e := echo.New()
	g := e.Group(testPrefix)
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if u, ok := users[c.Request().Header.Get("X-Test-Email")]; ok {
				auth.SetIdentityForTest(c, &auth.Identity{UserID: u.ID, Email: u.LoginEmail()})
			}
			return next(c)
		}
	})
	g.Use(Gate(auth.AccessConfig{AdminEmail: testAdminEmail, ScimEmail: testScimEmail}, testPrefix))
	h.RegisterRoutes(g)

	return &scimTestEnv{e: e, store: store, revoker: revoker, users: users}
}

func (env *scimTestEnv) do(method, path, as, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, testPrefix+path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if as != "" {
		req.Header.Set("X-Test-Email", as)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func userPayload(email, name string) string {
	return `{
		"schemas": ["` + UserSchema + `"],
		"userName": "` + email + `",
		"displayName": "` + name + `",
		"emails": [{"value": "` + email + `", "primary": true}]
	}`
}

func TestHandler_CreateUser(t *testing.T) {
	env := newScimTestEnv(t)

	rec := env.do(http.MethodPost, "/Users", testScimEmail, userPayload("New.User@Example.org", "New User"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "new.user@example.org", body["userName"])
	assert.Equal(t, "New User", body["displayName"])

	u, err := env.store.GetByEmail(context.Background(), "new.user@example.org")
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(u.ID, 10), body["id"])
	assert.Equal(t, "New.User@Example.org", u.DisplayEmail())
}

func TestHandler_CreateUser_Duplicate(t *testing.T) {
	env := newScimTestEnv(t)

	rec := env.do(http.MethodPost, "/Users", testAdminEmail, userPayload("KIWI@getgrist.com", "Kiwi Again"))
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "uniqueness", body["scimType"])
	assert.Equal(t, duplicateEmailMessage, body["detail"])
}

func TestHandler_GetUser(t *testing.T) {
	env := newScimTestEnv(t)
	kiwi := env.users["kiwi@getgrist.com"]

	rec := env.do(http.MethodGet, "/Users/"+strconv.FormatInt(kiwi.ID, 10), testAdminEmail, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "kiwi@getgrist.com", decode(t, rec)["userName"])

	rec = env.do(http.MethodGet, "/Users/999999", testAdminEmail, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User with ID 999999 not found", decode(t, rec)["detail"])
}

func TestHandler_ListUsers(t *testing.T) {
	env := newScimTestEnv(t)

	rec := env.do(http.MethodGet, "/Users", testAdminEmail, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 3, decode(t, rec)["totalResults"])

	query := url.Values{"filter": {`userName eq "kiwi@getgrist.com"`}}
	rec = env.do(http.MethodGet, "/Users?"+query.Encode(), testAdminEmail, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.EqualValues(t, 1, body["totalResults"])
	resources, ok := body["Resources"].([]any)
	require.True(t, ok, "expected Resources array in %v", body)
	require.Len(t, resources, 1)
	assert.Equal(t, "kiwi@getgrist.com", resources[0].(map[string]any)["userName"])

	query = url.Values{"filter": {`emails[value eq "Chimpy@GetGrist.com"] and active eq true`}}
	rec = env.do(http.MethodGet, "/Users?"+query.Encode(), testAdminEmail, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, decode(t, rec)["totalResults"])

	query = url.Values{"filter": {`nickNam eq "kiwi"`}}
	rec = env.do(http.MethodGet, "/Users?"+query.Encode(), testAdminEmail, "")
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "invalidFilter", decode(t, rec)["scimType"])

	query = url.Values{"startIndex": {"2"}, "count": {"1"}}
	rec = env.do(http.MethodGet, "/Users?"+query.Encode(), testAdminEmail, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decode(t, rec)
	assert.EqualValues(t, 3, body["totalResults"])
	resources, _ = body["Resources"].([]any)
	require.Len(t, resources, 1)
	assert.Equal(t, testScimEmail, resources[0].(map[string]any)["userName"])
}

func TestHandler_ReplaceUser(t *testing.T) {
	env := newScimTestEnv(t)
	kiwi := env.users["kiwi@getgrist.com"]
	path := "/Users/" + strconv.FormatInt(kiwi.ID, 10)

	rec := env.do(http.MethodPut, path, testScimEmail, userPayload("Kiwi.Bird@GetGrist.com", "Kiwi Bird"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "kiwi.bird@getgrist.com", decode(t, rec)["userName"])

	got, err := env.store.GetByID(context.Background(), kiwi.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kiwi Bird", got.Name)
	assert.Equal(t, "kiwi.bird@getgrist.com", got.LoginEmail())

	rec = env.do(http.MethodPut, path, testScimEmail, userPayload(testAdminEmail, "Kiwi Bird"))
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPut, "/Users/999999", testScimEmail, userPayload("ghost@example.org", "Ghost"))
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestHandler_DeleteUser(t *testing.T) {
	env := newScimTestEnv(t)
	kiwi := env.users["kiwi@getgrist.com"]
	path := "/Users/" + strconv.FormatInt(kiwi.ID, 10)

	rec := env.do(http.MethodDelete, path, testAdminEmail, "")
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Equal(t, []int64{kiwi.ID}, env.revoker.revoked)

	rec = env.do(http.MethodGet, path, testAdminEmail, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodDelete, path, testAdminEmail, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Me(t *testing.T) {
	env := newScimTestEnv(t)
	kiwi := env.users["kiwi@getgrist.com"]

	rec := env.do(http.MethodGet, "/Me", "kiwi@getgrist.com", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, contentType, rec.Header().Get(echo.HeaderContentType))

	body := decode(t, rec)
	assert.Equal(t, strconv.FormatInt(kiwi.ID, 10), body["id"])
	assert.Equal(t, "kiwi@getgrist.com", body["userName"])
	assert.Equal(t, []any{UserSchema}, body["schemas"])
	meta, ok := body["meta"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "User", meta["resourceType"])
	assert.Equal(t, testPrefix+"/Users/"+strconv.FormatInt(kiwi.ID, 10), meta["location"])

	rec = env.do(http.MethodPut, "/Me", "kiwi@getgrist.com", "{}")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestGate(t *testing.T) {
	env := newScimTestEnv(t)

	tests := []struct {
		name       string
		as         string
		path       string
		wantStatus int
		wantDetail string
	}{
		{"admin lists users", testAdminEmail, "/Users", http.StatusOK, ""},
		{"scim service lists users", testScimEmail, "/Users", http.StatusOK, ""},
		{"regular user lists users", "kiwi@getgrist.com", "/Users", http.StatusForbidden, "Resource disallowed for non-admin users"},
		{"regular user reads schemas", "kiwi@getgrist.com", "/Schemas", http.StatusOK, ""},
		{"regular user reads service config", "kiwi@getgrist.com", "/ServiceProviderConfig", http.StatusOK, ""},
		{"regular user reads schema by id", "kiwi@getgrist.com", "/Schemas/" + UserSchema, http.StatusOK, ""},
		{"regular user on lookalike path", "kiwi@getgrist.com", "/SchemasExtra", http.StatusForbidden, "Resource disallowed for non-admin users"},
		{"anonymous reads schemas", "", "/Schemas", http.StatusForbidden, "You are not authorized to access this resource!"},
		{"anonymous lists users", "", "/Users", http.StatusForbidden, "You are not authorized to access this resource!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, tt.path, tt.as, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantDetail != "" {
				body := decode(t, rec)
				assert.Equal(t, tt.wantDetail, body["detail"])
				assert.Equal(t, "403", body["status"])
				assert.Equal(t, []any{ErrorSchema}, body["schemas"])
			}
		})
	}
}
