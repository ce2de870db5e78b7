package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/eleven-am/accounts-backend/internal/shared"
	"github.com/labstack/echo/v4"
)

type contextKey string

const identityKey contextKey = "identity"

// SessionCookieName is the cookie carrying the session token for browser
// clients.
const SessionCookieName = "accounts_session"

var ErrRevokedToken = errors.New("token has been revoked")

type UserResolver interface {
	LookupIdentity(ctx context.Context, userID int64) (*Identity, error)
	LookupAPIKey(ctx context.Context, key string) (*Identity, error)
	RecordConnection(ctx context.Context, userID int64) error
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Middleware struct {
	tokens      *TokenService
	users       UserResolver
	revocations RevocationChecker
	access      AccessConfig
	logger      *slog.Logger
}

func NewMiddleware(tokens *TokenService, users UserResolver, revocations RevocationChecker, access AccessConfig, logger *slog.Logger) *Middleware {
	return &Middleware{
		tokens:      tokens,
		users:       users,
		revocations: revocations,
		access:      access,
		logger:      logger.With("component", "auth"),
	}
}

func (m *Middleware) Access() AccessConfig {
	return m.access
}

func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := credentials(c)
		if token == "" {
			return shared.Unauthorized("missing_token", "authorization header required")
		}

		identity, err := m.resolve(c.Request().Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, ErrExpiredToken):
				return shared.Unauthorized("token_expired", "token has expired")
			case errors.Is(err, ErrRevokedToken):
				return shared.Unauthorized("token_revoked", "token has been revoked")
			}
			return shared.Unauthorized("invalid_token", "invalid or malformed token")
		}

		setIdentity(c, identity)
		return next(c)
	}
}

// OptionalAuthenticate attaches the caller when credentials are valid and
// otherwise lets the request through as anonymous.
func (m *Middleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := credentials(c)
		if token == "" {
			return next(c)
		}

		identity, err := m.resolve(c.Request().Context(), token)
		if err != nil {
			return next(c)
		}

		setIdentity(c, identity)
		return next(c)
	}
}

// RequireAdmin only admits the configured administrator. It must run after
// one of the authenticating middlewares.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := GetIdentity(c)
		if identity == nil || !m.access.IsAdmin(identity.Email) {
			return shared.Forbidden("permission_denied", "Permission denied")
		}
		return next(c)
	}
}

func (m *Middleware) resolve(ctx context.Context, token string) (*Identity, error) {
	var identity *Identity

	if looksLikeJWT(token) {
		claims, err := m.tokens.Validate(token)
		if err != nil {
			return nil, err
		}

		if m.revocations != nil {
			revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
			if err != nil {
				return nil, err
			}
			if revoked {
				return nil, ErrRevokedToken
			}
		}

		userID, err := claims.UserID()
		if err != nil {
			return nil, err
		}

		identity, err = m.users.LookupIdentity(ctx, userID)
		if err != nil {
			return nil, err
		}
		identity.TokenID = claims.ID
		if claims.ExpiresAt != nil {
			identity.ExpiresAt = claims.ExpiresAt.Time
		}
	} else {
		var err error
		identity, err = m.users.LookupAPIKey(ctx, token)
		if err != nil {
			return nil, err
		}
	}

	if err := m.users.RecordConnection(ctx, identity.UserID); err != nil {
		m.logger.Warn("failed to record connection", "user_id", identity.UserID, "error", err)
	}

	return identity, nil
}

func credentials(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setIdentity(c echo.Context, identity *Identity) {
	ctx := context.WithValue(c.Request().Context(), identityKey, identity)
	c.SetRequest(c.Request().WithContext(ctx))
}

func GetIdentity(c echo.Context) *Identity {
	return IdentityFromContext(c.Request().Context())
}

func IdentityFromContext(ctx context.Context) *Identity {
	identity, ok := ctx.Value(identityKey).(*Identity)
	if !ok {
		return nil
	}
	return identity
}

func RequireAuth(c echo.Context) (*Identity, error) {
	identity := GetIdentity(c)
	if identity == nil {
		return nil, shared.Unauthorized("auth_required", "authentication required")
	}
	return identity, nil
}

func SetIdentityForTest(c echo.Context, identity *Identity) {
	setIdentity(c, identity)
}
