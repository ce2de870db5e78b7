package auth

import (
	"strings"
	"time"
)

// Identity is the caller resolved from a session token or an API key.
type Identity struct {
	UserID    int64
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

func (i *Identity) FromAPIKey() bool {
	return i.TokenID == ""
}

// AccessConfig names the identities allowed to perform privileged operations.
// An empty address matches nobody.
type AccessConfig struct {
	AdminEmail string
	ScimEmail  string
}

func (a AccessConfig) IsAdmin(email string) bool {
	return matchEmail(a.AdminEmail, email)
}

func (a AccessConfig) IsScimService(email string) bool {
	return matchEmail(a.ScimEmail, email)
}

func matchEmail(configured, email string) bool {
	configured = strings.TrimSpace(configured)
	if configured == "" || email == "" {
		return false
	}
	return strings.EqualFold(configured, strings.TrimSpace(email))
}
