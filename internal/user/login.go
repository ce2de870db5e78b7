package user

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eleven-am/accounts-backend/internal/auth"
	"github.com/eleven-am/accounts-backend/internal/dto"
	"github.com/eleven-am/accounts-backend/internal/shared"
	"github.com/labstack/echo/v4"
)

// SessionTracker records issued tokens so they can be revoked before they
// expire.
type SessionTracker interface {
	Track(ctx context.Context, userID int64, tokenID string, ttl time.Duration) error
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

type AuthHandler struct {
	store    *Store
	tokens   *auth.TokenService
	sessions SessionTracker
	cookies  *SessionManager
	google   Provider
	github   Provider
	schemes  map[string]struct{}
	logger   *slog.Logger
}

type AuthHandlerParams struct {
	Store          *Store
	Tokens         *auth.TokenService
	Sessions       SessionTracker
	Cookies        *SessionManager
	Google         Provider
	GitHub         Provider
	AllowedSchemes []string
	Logger         *slog.Logger
}

func NewAuthHandler(p AuthHandlerParams) *AuthHandler {
	schemes := make(map[string]struct{}, len(p.AllowedSchemes))
	for _, s := range p.AllowedSchemes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			schemes[s] = struct{}{}
		}
	}

	return &AuthHandler{
		store:    p.Store,
		tokens:   p.Tokens,
		sessions: p.Sessions,
		cookies:  p.Cookies,
		google:   p.Google,
		github:   p.GitHub,
		schemes:  schemes,
		logger:   p.Logger,
	}
}

// RegisterRoutes mounts the login flow and the current-user endpoints.
// requireAuth guards everything except the provider redirects.
func (h *AuthHandler) RegisterRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/google", h.GoogleLogin)
	g.GET("/google/callback", h.GoogleCallback)
	g.GET("/github", h.GitHubLogin)
	g.GET("/github/callback", h.GitHubCallback)

	g.GET("/me", h.Me, requireAuth)
	g.POST("/me/profile", h.UpdateProfile, requireAuth)
	g.POST("/me/apikey", h.CreateAPIKey, requireAuth)
	g.DELETE("/me/apikey", h.DeleteAPIKey, requireAuth)
	g.POST("/logout", h.Logout, requireAuth)
}

// @Summary      Google login
// @Tags         auth
// @Param        redirect_uri  query  string  false  "Where to send the browser after login"
// @Success      307  "Redirect to Google"
// @Failure      500  {object}  shared.APIError
// @Router       /auth/google [get]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	return h.handleLogin(c, h.google)
}

// @Summary      Google login callback
// @Tags         auth
// @Success      307  "Redirect after login"
// @Failure      400  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	return h.handleCallback(c, h.google)
}

// @Summary      GitHub login
// @Tags         auth
// @Param        redirect_uri  query  string  false  "Where to send the browser after login"
// @Success      307  "Redirect to GitHub"
// @Failure      500  {object}  shared.APIError
// @Router       /auth/github [get]
func (h *AuthHandler) GitHubLogin(c echo.Context) error {
	return h.handleLogin(c, h.github)
}

// @Summary      GitHub login callback
// @Tags         auth
// @Success      307  "Redirect after login"
// @Failure      400  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /auth/github/callback [get]
func (h *AuthHandler) GitHubCallback(c echo.Context) error {
	return h.handleCallback(c, h.github)
}

func (h *AuthHandler) handleLogin(c echo.Context, provider Provider) error {
	if isNilProvider(provider) {
		return shared.InternalError("provider_not_configured", "login provider not configured")
	}

	state, err := h.cookies.GenerateOAuthState(h.sanitizeRedirectURI(c.QueryParam("redirect_uri")))
	if err != nil {
		return shared.InternalError("state_failed", "failed to start login")
	}

	h.cookies.SetState(c, state)
	return c.Redirect(http.StatusTemporaryRedirect, provider.AuthURL(state))
}

func (h *AuthHandler) handleCallback(c echo.Context, provider Provider) error {
	if isNilProvider(provider) {
		return shared.InternalError("provider_not_configured", "login provider not configured")
	}

	expected, err := h.cookies.State(c)
	if err != nil || expected == "" {
		return shared.BadRequest("invalid_state", "missing login state")
	}
	h.cookies.ClearState(c)

	state := c.QueryParam("state")
	if state != expected {
		return shared.BadRequest("invalid_state", "login state mismatch")
	}
	if _, err := h.cookies.VerifyValue(state); err != nil {
		return shared.BadRequest("invalid_state", "login state mismatch")
	}

	if oauthErr := c.QueryParam("error"); oauthErr != "" {
		return shared.BadRequest("oauth_error", oauthErr)
	}

	code := c.QueryParam("code")
	if code == "" {
		return shared.BadRequest("missing_code", "missing authorization code")
	}

	ctx := c.Request().Context()
	profile, err := provider.Exchange(ctx, code)
	if err != nil {
		h.logger.Error("oauth exchange failed", "error", err, "provider", provider.Name())
		return shared.InternalError("oauth_failed", "failed to complete login")
	}

	u, created, err := h.store.EnsureUser(ctx, *profile)
	if err != nil {
		if shared.StatusOf(err) == http.StatusInternalServerError {
			h.logger.Error("failed to ensure user", "error", err, "provider", provider.Name())
		}
		return shared.HTTPError(err, "login_failed", "failed to complete login")
	}
	if created {
		h.logger.Info("user created on first login", "user_id", u.ID, "provider", provider.Name())
	}

	token, claims, err := h.tokens.Issue(u.ID, u.LoginEmail())
	if err != nil {
		h.logger.Error("failed to issue token", "error", err, "user_id", u.ID)
		return shared.InternalError("login_failed", "failed to complete login")
	}

	if h.sessions != nil {
		if err := h.sessions.Track(ctx, u.ID, claims.ID, h.tokens.TTL()); err != nil {
			h.logger.Warn("failed to track session", "error", err, "user_id", u.ID)
		}
	}

	h.cookies.SetSession(c, token, h.tokens.TTL())

	redirect := h.cookies.ExtractRedirectURI(state)
	if redirect == "" {
		redirect = "/"
	}
	return c.Redirect(http.StatusTemporaryRedirect, redirect)
}

// sanitizeRedirectURI allows relative paths, https URLs, plain http to
// loopback hosts and the configured app schemes. Anything else becomes "".
func (h *AuthHandler) sanitizeRedirectURI(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return ""
	}

	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "https":
		return raw
	case "http":
		host := u.Hostname()
		if host == "localhost" || host == "127.0.0.1" {
			return raw
		}
		return ""
	}

	if _, ok := h.schemes[scheme]; ok {
		return raw
	}
	return ""
}

// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	u, err := h.store.GetByID(c.Request().Context(), identity.UserID)
	if err != nil {
		if shared.StatusOf(err) == http.StatusInternalServerError {
			h.logger.Error("failed to get user", "error", err, "user_id", identity.UserID)
		}
		return shared.HTTPError(err, "get_failed", "failed to get user")
	}

	return c.JSON(http.StatusOK, toMeResponse(u))
}

// @Summary      Update current user profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      dto.UpdateProfileRequest  true  "Profile fields"
// @Success      200      {object}  dto.MeResponse
// @Failure      400      {object}  shared.APIError
// @Failure      401      {object}  shared.APIError
// @Security     BearerAuth
// @Router       /auth/me/profile [post]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	identity, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_payload", "Invalid payload")
	}

	u, err := h.store.Update(c.Request().Context(), identity.UserID, Update{
		Name:    req.Name,
		Picture: req.Picture,
		Locale:  req.Locale,
	})
	if err != nil {
		if shared.StatusOf(err) == http.StatusInternalServerError {
			h.logger.Error("failed to update profile", "error", err, "user_id", identity.UserID)
		}
		return shared.HTTPError(err, "update_failed", "failed to update profile")
	}

	return c.JSON(http.StatusOK, toMeResponse(u))
}

// @Summary      Create API key
// @Description  Generates a new API key for the current user, replacing any previous key.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.APIKeyResponse
// @Failure      401  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /auth/me/apikey [post]
func (h *AuthHandler) CreateAPIKey(c echo.Context) error {
	identity, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	key, err := h.store.CreateAPIKey(c.Request().Context(), identity.UserID)
	if err != nil {
		if shared.StatusOf(err) == http.StatusInternalServerError {
			h.logger.Error("failed to create api key", "error", err, "user_id", identity.UserID)
		}
		return shared.HTTPError(err, "create_failed", "failed to create api key")
	}

	return c.JSON(http.StatusOK, dto.APIKeyResponse{Key: key})
}

// @Summary      Delete API key
// @Tags         auth
// @Success      204  "No Content"
// @Failure      401  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /auth/me/apikey [delete]
func (h *AuthHandler) DeleteAPIKey(c echo.Context) error {
	identity, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	if err := h.store.DeleteAPIKey(c.Request().Context(), identity.UserID); err != nil {
		if shared.StatusOf(err) == http.StatusInternalServerError {
			h.logger.Error("failed to delete api key", "error", err, "user_id", identity.UserID)
		}
		return shared.HTTPError(err, "delete_failed", "failed to delete api key")
	}

	return c.NoContent(http.StatusNoContent)
}

// @Summary      Log out
// @Description  Revokes the current session token and clears the session cookie.
// @Tags         auth
// @Success      204  "No Content"
// @Failure      401  {object}  shared.APIError
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	identity, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	if !identity.FromAPIKey() && h.sessions != nil {
		ttl := time.Until(identity.ExpiresAt)
		if err := h.sessions.Revoke(c.Request().Context(), identity.TokenID, ttl); err != nil {
			h.logger.Error("failed to revoke session", "error", err, "user_id", identity.UserID)
			return shared.InternalError("logout_failed", "failed to log out")
		}
	}

	h.cookies.ClearSession(c)
	return c.NoContent(http.StatusNoContent)
}

func toMeResponse(u *User) dto.MeResponse {
	profile := profileFromUser(u)
	return dto.MeResponse{
		ID:              u.ID,
		Ref:             u.Ref,
		Email:           profile.Email,
		LoginEmail:      profile.LoginEmail,
		Name:            profile.Name,
		Picture:         profile.Picture,
		Locale:          profile.Locale,
		IsFirstTimeUser: u.IsFirstTimeUser,
		HasAPIKey:       u.APIKey != nil,
	}
}

func isNilProvider(p Provider) bool {
	switch v := p.(type) {
	case nil:
		return true
	case *GoogleProvider:
		return v == nil
	case *GitHubProvider:
		return v == nil
	}
	return false
}
