package scim

import (
	"strconv"
	"strings"
	"time"

	"github.com/eleven-am/accounts-backend/internal/shared"
	"github.com/eleven-am/accounts-backend/internal/user"
)

const (
	UserSchema  = "urn:ietf:params:scim:schemas:core:2.0:User"
	ErrorSchema = "urn:ietf:params:scim:api:messages:2.0:Error"
)

// User is the SCIM view of an account. It carries exactly what the adapter
// maps in and out of the core User schema.
type User struct {
	ID           string
	UserName     string
	DisplayName  string
	Email        string
	Picture      *string
	Locale       *string
	Active       bool
	Created      *time.Time
	LastModified *time.Time
}

func fromAccount(u *user.User) *User {
	created := u.CreatedAt
	modified := u.UpdatedAt

	out := &User{
		ID:          strconv.FormatInt(u.ID, 10),
		UserName:    u.LoginEmail(),
		DisplayName: u.Name,
		Email:       u.DisplayEmail(),
		Picture:     u.Picture,
		Active:      true,
	}
	if locale := u.Locale(); locale != "" {
		out.Locale = &locale
	}
	if !created.IsZero() {
		out.Created = &created
	}
	if !modified.IsZero() {
		out.LastModified = &modified
	}
	return out
}

func (u *User) profile() user.UserProfile {
	return user.UserProfile{
		Email:       u.Email,
		Name:        u.DisplayName,
		Picture:     u.Picture,
		Locale:      u.Locale,
		LoginMethod: user.LoginMethodExternal,
	}
}

// attributes renders the user as core schema attributes.
func (u *User) attributes() map[string]any {
	attrs := map[string]any{
		"userName":    u.UserName,
		"displayName": u.DisplayName,
		"name":        map[string]any{"formatted": u.DisplayName},
		"emails":      []any{map[string]any{"value": u.Email, "primary": true}},
		"active":      u.Active,
	}
	if u.Picture != nil {
		attrs["photos"] = []any{map[string]any{"value": *u.Picture, "type": "photo", "primary": true}}
	}
	if u.Locale != nil {
		attrs["locale"] = *u.Locale
		attrs["preferredLanguage"] = *u.Locale
	}
	return attrs
}

// userFromAttributes reads an inbound core schema payload. The email comes
// from the first entry of emails, falling back to userName.
func userFromAttributes(attrs map[string]any) (*User, error) {
	u := &User{Active: true}

	if email := firstValue(lookup(attrs, "emails")); email != "" {
		u.Email = email
	} else {
		u.Email, _ = lookup(attrs, "userName").(string)
	}
	if strings.TrimSpace(u.Email) == "" {
		return nil, shared.Errorf(shared.ErrInvalidPayload, "Missing email address")
	}
	u.UserName = u.Email

	if name, _ := lookup(attrs, "displayName").(string); name != "" {
		u.DisplayName = name
	} else if name, ok := lookup(attrs, "name").(map[string]any); ok {
		u.DisplayName, _ = lookup(name, "formatted").(string)
	}

	if photo := firstValue(lookup(attrs, "photos")); photo != "" {
		u.Picture = &photo
	}

	if locale, _ := lookup(attrs, "preferredLanguage").(string); locale != "" {
		u.Locale = &locale
	} else if locale, _ := lookup(attrs, "locale").(string); locale != "" {
		u.Locale = &locale
	}

	return u, nil
}

// lookup reads an attribute by name, ignoring case as SCIM attribute names
// are case insensitive.
func lookup(attrs map[string]any, name string) any {
	if v, ok := attrs[name]; ok {
		return v
	}
	for k, v := range attrs {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return nil
}

func firstValue(v any) string {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return ""
	}
	item, ok := items[0].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := lookup(item, "value").(string)
	return s
}
