package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/eleven-am/accounts-backend/internal/shared"
	"gorm.io/gorm"
)

// connectionInterval bounds how often last_connection_at is rewritten for a
// single user.
const connectionInterval = time.Minute

const apiKeyPrefix = "api_"

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&User{}, &Login{})
}

// Create provisions a user and its login. The email must not belong to an
// existing login.
func (s *Store) Create(ctx context.Context, profile UserProfile) (*User, error) {
	if err := ValidateEmail(profile.Email); err != nil {
		return nil, err
	}

	u := &User{
		Name:            SanitizeName(profile.Name),
		Picture:         emptyToNil(profile.Picture),
		ConnectID:       emptyToNil(profile.ConnectID),
		IsFirstTimeUser: true,
	}
	if locale := emptyToNil(profile.Locale); locale != nil {
		u.Options = &Options{Locale: locale}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.insert(tx, u, profile.Email)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) insert(tx *gorm.DB, u *User, email string) error {
	normalized := NormalizeEmail(email)

	taken, err := loginTaken(tx, normalized, 0)
	if err != nil {
		return err
	}
	if taken {
		return conflict(normalized)
	}

	if err := tx.Omit("Logins").Create(u).Error; err != nil {
		return s.translateWrite(err, normalized)
	}

	login := Login{
		Email:        normalized,
		DisplayEmail: strings.TrimSpace(email),
		UserID:       u.ID,
	}
	if err := tx.Create(&login).Error; err != nil {
		return s.translateWrite(err, normalized)
	}

	u.Logins = []Login{login}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	return loadUser(s.db.WithContext(ctx), id)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	var login Login
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&login).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.Errorf(shared.ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, login.UserID)
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	var users []User
	err := s.db.WithContext(ctx).Preload("Logins", orderByID).Order("id").Find(&users).Error
	return users, err
}

// Update applies the non-nil fields of upd. Email, id and ref are never
// touched here.
func (s *Store) Update(ctx context.Context, id int64, upd Update) (*User, error) {
	var u *User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		u, err = loadUser(tx, id)
		if err != nil {
			return err
		}

		if upd.Name != nil {
			setIfDifferent(&u.Dirty, "name", &u.Name, SanitizeName(*upd.Name))
		}
		if upd.Picture != nil {
			setPtrIfDifferent(&u.Dirty, "picture", &u.Picture, emptyToNil(upd.Picture))
		}
		if upd.Locale != nil {
			setLocale(u, emptyToNil(upd.Locale))
		}
		if upd.IsFirstTimeUser != nil {
			setIfDifferent(&u.Dirty, "is_first_time_user", &u.IsFirstTimeUser, *upd.IsFirstTimeUser)
		}

		return s.save(tx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Override replaces the profile of an existing user, including its primary
// login email. The new email must not belong to another user.
func (s *Store) Override(ctx context.Context, id int64, profile UserProfile) (*User, error) {
	if err := ValidateEmail(profile.Email); err != nil {
		return nil, err
	}
	normalized := NormalizeEmail(profile.Email)

	var u *User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		u, err = loadUser(tx, id)
		if err != nil {
			return err
		}

		if normalized != u.LoginEmail() {
			taken, err := loginTaken(tx, normalized, u.ID)
			if err != nil {
				return err
			}
			if taken {
				return conflict(normalized)
			}
		}

		setIfDifferent(&u.Dirty, "name", &u.Name, SanitizeName(profile.Name))
		setPtrIfDifferent(&u.Dirty, "picture", &u.Picture, emptyToNil(profile.Picture))
		setLocale(u, emptyToNil(profile.Locale))

		if len(u.Logins) == 0 {
			login := Login{Email: normalized, DisplayEmail: strings.TrimSpace(profile.Email), UserID: u.ID}
			if err := tx.Create(&login).Error; err != nil {
				return s.translateWrite(err, normalized)
			}
			u.Logins = []Login{login}
		} else {
			login := &u.Logins[0]
			setIfDifferent(&login.Dirty, "email", &login.Email, normalized)
			setIfDifferent(&login.Dirty, "display_email", &login.DisplayEmail, strings.TrimSpace(profile.Email))
		}

		if err := s.save(tx, u); err != nil {
			return s.translateWrite(err, normalized)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes the user and its logins and returns the removed record.
func (s *Store) Delete(ctx context.Context, id int64) (*User, error) {
	var u *User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		u, err = loadUser(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&Login{}).Error; err != nil {
			return shared.ClassifyDBError(err)
		}
		return shared.ClassifyDBError(tx.Delete(&User{}, id).Error)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureUser returns the user owning the profile's email, creating it on the
// first successful login. The boolean reports whether a user was created.
func (s *Store) EnsureUser(ctx context.Context, profile UserProfile) (*User, bool, error) {
	if err := ValidateEmail(profile.Email); err != nil {
		return nil, false, err
	}
	normalized := NormalizeEmail(profile.Email)
	now := s.now()

	var (
		u       *User
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var login Login
		err := tx.Where("email = ?", normalized).First(&login).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			u = &User{
				Name:            SanitizeName(profile.Name),
				Picture:         emptyToNil(profile.Picture),
				ConnectID:       emptyToNil(profile.ConnectID),
				IsFirstTimeUser: true,
				FirstLoginAt:    &now,
				Prefs:           &Prefs{ShowNewUserQuestions: shared.Ptr(true)},
			}
			if locale := emptyToNil(profile.Locale); locale != nil {
				u.Options = &Options{Locale: locale}
			}
			created = true
			return s.insert(tx, u, profile.Email)
		}
		if err != nil {
			return err
		}

		u, err = loadUser(tx, login.UserID)
		if err != nil {
			return err
		}

		if name := SanitizeName(profile.Name); name != "" && u.Name == "" {
			setIfDifferent(&u.Dirty, "name", &u.Name, name)
		}
		if u.Picture == nil {
			setPtrIfDifferent(&u.Dirty, "picture", &u.Picture, emptyToNil(profile.Picture))
		}
		if u.FirstLoginAt == nil {
			setPtrIfDifferent(&u.Dirty, "first_login_at", &u.FirstLoginAt, &now)
		}
		if connectID := emptyToNil(profile.ConnectID); connectID != nil {
			setPtrIfDifferent(&u.Dirty, "connect_id", &u.ConnectID, connectID)
		}
		for i := range u.Logins {
			if u.Logins[i].Email == normalized {
				setIfDifferent(&u.Logins[i].Dirty, "display_email", &u.Logins[i].DisplayEmail, strings.TrimSpace(profile.Email))
			}
		}
		return s.save(tx, u)
	})
	if err != nil {
		return nil, false, err
	}
	return u, created, nil
}

// RecordConnection stamps last_connection_at, and first_login_at when unset.
// Calls within connectionInterval of the previous stamp are no-ops.
func (s *Store) RecordConnection(ctx context.Context, userID int64) error {
	now := s.now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u User
		if err := tx.Where("id = ?", userID).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.Errorf(shared.ErrNotFound, "User not found")
			}
			return err
		}

		if u.LastConnectionAt != nil && now.Sub(*u.LastConnectionAt) < connectionInterval {
			return nil
		}
		setPtrIfDifferent(&u.Dirty, "last_connection_at", &u.LastConnectionAt, &now)
		if u.FirstLoginAt == nil {
			setPtrIfDifferent(&u.Dirty, "first_login_at", &u.FirstLoginAt, &now)
		}
		return s.save(tx, &u)
	})
}

// CreateAPIKey replaces the user's API key with a freshly generated one.
func (s *Store) CreateAPIKey(ctx context.Context, userID int64) (string, error) {
	key := shared.NewID(apiKeyPrefix)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := loadUser(tx, userID)
		if err != nil {
			return err
		}
		setPtrIfDifferent(&u.Dirty, "api_key", &u.APIKey, &key)
		return s.save(tx, u)
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *Store) DeleteAPIKey(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := loadUser(tx, userID)
		if err != nil {
			return err
		}
		setPtrIfDifferent(&u.Dirty, "api_key", &u.APIKey, nil)
		return s.save(tx, u)
	})
}

func (s *Store) GetByAPIKey(ctx context.Context, key string) (*User, error) {
	if key == "" {
		return nil, shared.Errorf(shared.ErrNotFound, "User not found")
	}

	var u User
	err := s.db.WithContext(ctx).Preload("Logins", orderByID).Where("api_key = ?", key).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.Errorf(shared.ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ShowNewUserQuestions reports whether the onboarding questions are still
// pending for the user.
func (s *Store) ShowNewUserQuestions(ctx context.Context, userID int64) (bool, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.Prefs != nil && u.Prefs.ShowNewUserQuestions != nil && *u.Prefs.ShowNewUserQuestions, nil
}

// DismissNewUserQuestions clears the onboarding preference and the first time
// flag.
func (s *Store) DismissNewUserQuestions(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := loadUser(tx, userID)
		if err != nil {
			return err
		}

		if u.Prefs != nil && u.Prefs.ShowNewUserQuestions != nil {
			prefs := *u.Prefs
			prefs.ShowNewUserQuestions = nil
			u.Prefs = &prefs
			u.Dirty.MarkDirty("prefs")
		}
		setIfDifferent(&u.Dirty, "is_first_time_user", &u.IsFirstTimeUser, false)
		return s.save(tx, u)
	})
}

// save writes the dirty columns of the user and its loaded logins, then
// clears their dirty state.
func (s *Store) save(tx *gorm.DB, u *User) error {
	if u.Dirty.NeedsUpdate() {
		if err := tx.Model(u).Select(u.Dirty.Columns()).Updates(u).Error; err != nil {
			return shared.ClassifyDBError(err)
		}
		u.Dirty.ClearDirty()
	}

	for i := range u.Logins {
		login := &u.Logins[i]
		if !login.Dirty.NeedsUpdate() {
			continue
		}
		if err := tx.Model(login).Select(login.Dirty.Columns()).Updates(login).Error; err != nil {
			return shared.ClassifyDBError(err)
		}
		login.Dirty.ClearDirty()
	}
	return nil
}

func (s *Store) translateWrite(err error, email string) error {
	err = shared.ClassifyDBError(err)
	if errors.Is(err, shared.ErrConflict) {
		return conflict(email)
	}
	return err
}

func loadUser(db *gorm.DB, id int64) (*User, error) {
	var u User
	err := db.Preload("Logins", orderByID).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.Errorf(shared.ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func loginTaken(db *gorm.DB, email string, exceptUserID int64) (bool, error) {
	var count int64
	q := db.Model(&Login{}).Where("email = ?", email)
	if exceptUserID != 0 {
		q = q.Where("user_id <> ?", exceptUserID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("logins.id")
}

func setLocale(u *User, locale *string) {
	current := u.Locale()
	if (locale == nil && current == "") || (locale != nil && *locale == current) {
		return
	}

	var opts Options
	if u.Options != nil {
		opts = *u.Options
	}
	opts.Locale = locale
	u.Options = &opts
	u.Dirty.MarkDirty("options")
}

func conflict(email string) error {
	return shared.Errorf(shared.ErrConflict, "User with email %s already exists", email)
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

