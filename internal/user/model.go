package user

import (
	"time"

	"github.com/eleven-am/accounts-backend/internal/shared"
	"gorm.io/gorm"
)

type User struct {
	ID               int64      `gorm:"primaryKey;autoIncrement"`
	Name             string     `gorm:"not null"`
	APIKey           *string    `gorm:"column:api_key;uniqueIndex"`
	Picture          *string    `gorm:"column:picture"`
	FirstLoginAt     *time.Time `gorm:"column:first_login_at"`
	LastConnectionAt *time.Time `gorm:"column:last_connection_at"`
	Options          *Options   `gorm:"column:options;type:text;serializer:json"`
	ConnectID        *string    `gorm:"column:connect_id"`
	Ref              string     `gorm:"column:ref;not null;uniqueIndex"`
	IsFirstTimeUser  bool       `gorm:"column:is_first_time_user;not null;default:false"`
	Prefs            *Prefs     `gorm:"column:prefs;type:text;serializer:json"`
	Logins           []Login    `gorm:"foreignKey:UserID"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Dirty Changes `gorm:"-"`
}

// BeforeCreate assigns the ref. It is never rewritten afterwards.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Ref == "" {
		u.Ref = shared.NewRef()
	}
	return nil
}

// LoginEmail is the normalized email of the primary login, or "" when logins
// were not loaded.
func (u *User) LoginEmail() string {
	if len(u.Logins) == 0 {
		return ""
	}
	return u.Logins[0].Email
}

func (u *User) DisplayEmail() string {
	if len(u.Logins) == 0 {
		return ""
	}
	return u.Logins[0].DisplayEmail
}

func (u *User) Locale() string {
	if u.Options == nil || u.Options.Locale == nil {
		return ""
	}
	return *u.Options.Locale
}

type Login struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"not null;uniqueIndex"`
	DisplayEmail string `gorm:"column:display_email;not null"`
	UserID       int64  `gorm:"column:user_id;not null;index"`

	Dirty Changes `gorm:"-"`
}

type Options struct {
	Locale           *string `json:"locale,omitempty"`
	AllowGoogleLogin *bool   `json:"allowGoogleLogin,omitempty"`
	IsConsultant     *bool   `json:"isConsultant,omitempty"`
	Authentication   *string `json:"authentication,omitempty"`
}

type Prefs struct {
	ShowNewUserQuestions *bool `json:"showNewUserQuestions,omitempty"`
}
