package user

import (
	"html"
	"strings"

	"github.com/eleven-am/accounts-backend/internal/shared"
	"github.com/microcosm-cc/bluemonday"
)

type LoginMethod string

const (
	LoginMethodGoogle   LoginMethod = "Google"
	LoginMethodPassword LoginMethod = "Email + Password"
	LoginMethodExternal LoginMethod = "External"
)

// UserProfile describes a user as seen at the HTTP, SCIM and OAuth
// boundaries. It is never stored directly.
type UserProfile struct {
	Email       string
	LoginEmail  string
	Name        string
	Picture     *string
	Anonymous   bool
	ConnectID   *string
	LoginMethod LoginMethod
	Locale      *string
}

// Update is a partial change to the updatable fields of a user. Nil fields are
// left alone.
type Update struct {
	Name            *string
	Picture         *string
	Locale          *string
	IsFirstTimeUser *bool
}

var textPolicy = bluemonday.StrictPolicy()

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if !shared.IsEmail(strings.TrimSpace(email)) {
		return shared.Errorf(shared.ErrInvalidEmail, "Invalid email: %s", email)
	}
	return nil
}

// SanitizeName strips markup from a user supplied display name.
func SanitizeName(name string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(name)))
}

func profileFromUser(u *User) UserProfile {
	var locale *string
	if u.Options != nil {
		locale = u.Options.Locale
	}
	return UserProfile{
		Email:      u.DisplayEmail(),
		LoginEmail: u.LoginEmail(),
		Name:       u.Name,
		Picture:    u.Picture,
		ConnectID:  u.ConnectID,
		Locale:     locale,
	}
}
