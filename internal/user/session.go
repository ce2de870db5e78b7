package user

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/eleven-am/accounts-backend/internal/auth"
	"github.com/labstack/echo/v4"
)

const (
	oauthStateCookieName = "oauth_state"
	oauthStateMaxAge     = 10 * 60
)

var ErrInvalidSignature = errors.New("invalid signature")

// SessionManager owns the browser cookies: the session cookie carrying the
// issued token and the signed OAuth state cookie.
type SessionManager struct {
	hmacKey []byte
	secure  bool
	domain  string
}

func NewSessionManager(hmacKey []byte, secure bool, domain string) *SessionManager {
	return &SessionManager{
		hmacKey: hmacKey,
		secure:  secure,
		domain:  domain,
	}
}

func (s *SessionManager) SetSession(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(s.cookie(auth.SessionCookieName, token, int(ttl.Seconds())))
}

func (s *SessionManager) ClearSession(c echo.Context) {
	c.SetCookie(s.cookie(auth.SessionCookieName, "", -1))
}

func (s *SessionManager) SetState(c echo.Context, state string) {
	c.SetCookie(s.cookie(oauthStateCookieName, state, oauthStateMaxAge))
}

func (s *SessionManager) ClearState(c echo.Context) {
	c.SetCookie(s.cookie(oauthStateCookieName, "", -1))
}

func (s *SessionManager) State(c echo.Context) (string, error) {
	cookie, err := c.Cookie(oauthStateCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func (s *SessionManager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *SessionManager) SignValue(value string) string {
	return base64.URLEncoding.EncodeToString([]byte(value)) + "." + s.mac([]byte(value))
}

func (s *SessionManager) VerifyValue(signed string) (string, error) {
	encoded, sig, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrInvalidSignature
	}

	payload, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidSignature
	}

	if !hmac.Equal([]byte(sig), []byte(s.mac(payload))) {
		return "", ErrInvalidSignature
	}
	return string(payload), nil
}

func (s *SessionManager) mac(payload []byte) string {
	m := hmac.New(sha256.New, s.hmacKey)
	m.Write(payload)
	return base64.URLEncoding.EncodeToString(m.Sum(nil))
}

// GenerateOAuthState returns a signed nonce carrying the post-login redirect.
func (s *SessionManager) GenerateOAuthState(redirectURI string) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return s.SignValue(base64.URLEncoding.EncodeToString(b) + "|" + redirectURI), nil
}

func (s *SessionManager) ExtractRedirectURI(state string) string {
	payload, err := s.VerifyValue(state)
	if err != nil {
		return ""
	}
	_, redirect, _ := strings.Cut(payload, "|")
	return redirect
}
