package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eleven-am/accounts-backend/internal/shared"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestUserDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(setupTestUserDB(t))
	if err := store.Migrate(); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	return store
}

func TestStore_Migrate(t *testing.T) {
	db := setupTestUserDB(t)
	store := NewStore(db)

	if err := store.Migrate(); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table'").Scan(&tables)
	want := map[string]bool{"users": false, "logins": false}
	for _, table := range tables {
		if _, ok := want[table]; ok {
			want[table] = true
		}
	}
	for table, found := range want {
		if !found {
			t.Errorf("%s table should exist after migration", table)
		}
	}
}

func TestStore_Create(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	u, err := store.Create(ctx, UserProfile{Email: " New@Example.org ", Name: "New User"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if u.ID == 0 {
		t.Error("expected id to be assigned")
	}
	if u.Ref == "" {
		t.Error("expected ref to be generated")
	}
	if !u.IsFirstTimeUser {
		t.Error("new users should be first time users")
	}
	if len(u.Logins) != 1 {
		t.Fatalf("expected one login, got %d", len(u.Logins))
	}
	if u.Logins[0].Email != "new@example.org" {
		t.Errorf("expected normalized email, got %q", u.Logins[0].Email)
	}
	if u.Logins[0].DisplayEmail != "New@Example.org" {
		t.Errorf("expected display email to keep case, got %q", u.Logins[0].DisplayEmail)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Ref != u.Ref {
		t.Errorf("expected ref %q, got %q", u.Ref, got.Ref)
	}
	if got.LoginEmail() != "new@example.org" || got.DisplayEmail() != "New@Example.org" {
		t.Errorf("unexpected login %+v", got.Logins)
	}
}

func TestStore_Create_Errors(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, UserProfile{Email: "chimpy@example.com", Name: "Chimpy"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name    string
		profile UserProfile
		wantErr error
		wantMsg string
	}{
		{
			name:    "case only duplicate",
			profile: UserProfile{Email: "CHIMPY@example.com", Name: "Other"},
			wantErr: shared.ErrConflict,
			wantMsg: "User with email chimpy@example.com already exists",
		},
		{
			name:    "invalid email",
			profile: UserProfile{Email: "not-an-email", Name: "Other"},
			wantErr: shared.ErrInvalidEmail,
			wantMsg: "Invalid email: not-an-email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, tt.profile)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}

	users, _ := store.List(ctx)
	if len(users) != 1 {
		t.Errorf("failed creates must not leave rows behind, got %d users", len(users))
	}
}

func TestStore_Create_UniqueIndex(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	u, err := store.Create(ctx, UserProfile{Email: "kiwi@example.com", Name: "Kiwi"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err = store.db.Create(&Login{Email: "kiwi@example.com", DisplayEmail: "kiwi@example.com", UserID: u.ID}).Error
	err = shared.ClassifyDBError(err)
	if !errors.Is(err, shared.ErrConflict) {
		t.Fatalf("expected unique violation to classify as conflict, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetByID(context.Background(), 999999)
	if !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, _ := store.Create(ctx, UserProfile{Email: "Kiwi@Example.com", Name: "Kiwi"})

	u, err := store.GetByEmail(ctx, "kiwi@EXAMPLE.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("expected user %d, got %d", created.ID, u.ID)
	}

	if _, err := store.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if _, err := store.Create(ctx, UserProfile{Email: email, Name: email}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	users, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	for _, u := range users {
		if len(u.Logins) != 1 {
			t.Errorf("user %d should carry its login", u.ID)
		}
	}
}

func TestStore_Update(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, _ := store.Create(ctx, UserProfile{Email: "kiwi@example.com", Name: "Kiwi"})

	name := "Kiwi <b>Bird</b>"
	locale := "fr-FR"
	first := false
	u, err := store.Update(ctx, created.ID, Update{Name: &name, Locale: &locale, IsFirstTimeUser: &first})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if u.Name != "Kiwi Bird" {
		t.Errorf("expected sanitized name, got %q", u.Name)
	}
	if u.Dirty.NeedsUpdate() {
		t.Error("dirty flags should be cleared after save")
	}

	got, _ := store.GetByID(ctx, created.ID)
	if got.Name != "Kiwi Bird" || got.Locale() != "fr-FR" || got.IsFirstTimeUser {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.Ref != created.Ref {
		t.Error("ref must never change")
	}
	if got.LoginEmail() != "kiwi@example.com" {
		t.Error("update must not touch the login email")
	}

	if _, err := store.Update(ctx, 999999, Update{Name: &name}); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Override(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	kiwi, _ := store.Create(ctx, UserProfile{Email: "kiwi@example.com", Name: "Kiwi"})
	store.Create(ctx, UserProfile{Email: "chimpy@example.com", Name: "Chimpy"})

	pic := "https://example.com/kiwi.png"
	u, err := store.Override(ctx, kiwi.ID, UserProfile{Email: "Kiwi.Bird@Example.com", Name: "Kiwi Bird", Picture: &pic})
	if err != nil {
		t.Fatalf("Override() error = %v", err)
	}
	if u.LoginEmail() != "kiwi.bird@example.com" || u.DisplayEmail() != "Kiwi.Bird@Example.com" {
		t.Errorf("unexpected login after override: %+v", u.Logins)
	}

	got, _ := store.GetByID(ctx, kiwi.ID)
	if got.Name != "Kiwi Bird" || got.Picture == nil || *got.Picture != pic {
		t.Errorf("override not persisted: %+v", got)
	}
	if got.LoginEmail() != "kiwi.bird@example.com" {
		t.Errorf("login email not persisted: %q", got.LoginEmail())
	}

	_, err = store.Override(ctx, kiwi.ID, UserProfile{Email: "CHIMPY@example.com", Name: "Kiwi"})
	if !errors.Is(err, shared.ErrConflict) {
		t.Errorf("expected ErrConflict when taking another user's email, got %v", err)
	}

	if _, err := store.Override(ctx, kiwi.ID, UserProfile{Email: "kiwi.bird@example.com", Name: "Kiwi"}); err != nil {
		t.Errorf("keeping the same email should succeed, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, _ := store.Create(ctx, UserProfile{Email: "kiwi@example.com", Name: "Kiwi"})

	deleted, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.LoginEmail() != "kiwi@example.com" {
		t.Errorf("expected deleted record to carry its login, got %+v", deleted.Logins)
	}

	if _, err := store.GetByID(ctx, created.ID); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected user to be gone, got %v", err)
	}

	var logins int64
	store.db.Model(&Login{}).Where("user_id = ?", created.ID).Count(&logins)
	if logins != 0 {
		t.Errorf("expected logins to be deleted, got %d", logins)
	}

	if _, err := store.Create(ctx, UserProfile{Email: "kiwi@example.com", Name: "Kiwi"}); err != nil {
		t.Errorf("email should be reusable after delete, got %v", err)
	}

	if _, err := store.Delete(ctx, 999999); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_EnsureUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	u, created, err := store.EnsureUser(ctx, UserProfile{Email: "Kiwi@Example.com", Name: "Kiwi", LoginMethod: LoginMethodGoogle})
	if err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}
	if !created {
		t.Error("expected first login to create the user")
	}
	if !u.IsFirstTimeUser || u.FirstLoginAt == nil {
		t.Errorf("expected first login state, got %+v", u)
	}

	show, err := store.ShowNewUserQuestions(ctx, u.ID)
	if err != nil || !show {
		t.Errorf("ShowNewUserQuestions() = %v, %v; want true", show, err)
	}

	pic := "https://example.com/kiwi.png"
	again, created, err := store.EnsureUser(ctx, UserProfile{Email: "kiwi@example.com", Name: "Other Name", Picture: &pic})
	if err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}
	if created {
		t.Error("second login must not create a user")
	}
	if again.ID != u.ID {
		t.Errorf("expected user %d, got %d", u.ID, again.ID)
	}
	if again.Name != "Kiwi" {
		t.Errorf("existing name must be kept, got %q", again.Name)
	}
	if again.DisplayEmail() != "kiwi@example.com" {
		t.Errorf("display email should follow the latest login, got %q", again.DisplayEmail())
	}

	got, _ := store.GetByID(ctx, u.ID)
	if got.Picture == nil || *got.Picture != pic {
		t.Error("missing picture should be filled from the provider")
	}
}

func TestStore_RecordConnection(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	created, _ := store.Create(ctx, UserProfile{Email: "kiwi@example.com", Name: "Kiwi"})

	if err := store.RecordConnection(ctx, created.ID); err != nil {
		t.Fatalf("RecordConnection() error = %v", err)
	}
	got, _ := store.GetByID(ctx, created.ID)
	if got.LastConnectionAt == nil || !got.LastConnectionAt.Equal(now) {
		t.Fatalf("expected last connection %v, got %v", now, got.LastConnectionAt)
	}
	if got.FirstLoginAt == nil {
		t.Error("first connection should set first login")
	}

	first := now
	now = now.Add(30 * time.Second)
	store.RecordConnection(ctx, created.ID)
	got, _ = store.GetByID(ctx, created.ID)
	if !got.LastConnectionAt.Equal(first) {
		t.Error("connections within a minute should not be recorded")
	}

	now = now.Add(2 * time.Minute)
	store.RecordConnection(ctx, created.ID)
	got, _ = store.GetByID(ctx, created.ID)
	if !got.LastConnectionAt.Equal(now) {
		t.Errorf("expected last connection %v, got %v", now, got.LastConnectionAt)
	}
	if !got.FirstLoginAt.Equal(first) {
		t.Error("first login must not move")
	}
}

func TestStore_APIKey(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, _ := store.Create(ctx, UserProfile{Email: "kiwi@example.com", Name: "Kiwi"})

	key, err := store.CreateAPIKey(ctx, created.ID)
	if err != nil {
		t.Fatalf("CreateAPIKey() error = %v", err)
	}
	if len(key) != len("api_")+64 {
		t.Errorf("unexpected key length %d", len(key))
	}

	u, err := store.GetByAPIKey(ctx, key)
	if err != nil || u.ID != created.ID {
		t.Fatalf("GetByAPIKey() = %+v, %v", u, err)
	}

	identity, err := store.LookupAPIKey(ctx, key)
	if err != nil || identity.Email != "kiwi@example.com" {
		t.Errorf("LookupAPIKey() = %+v, %v", identity, err)
	}

	if err := store.DeleteAPIKey(ctx, created.ID); err != nil {
		t.Fatalf("DeleteAPIKey() error = %v", err)
	}
	if _, err := store.GetByAPIKey(ctx, key); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected deleted key to be unknown, got %v", err)
	}
	if _, err := store.GetByAPIKey(ctx, ""); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("empty key must never match, got %v", err)
	}
}

func TestStore_DismissNewUserQuestions(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	u, _, _ := store.EnsureUser(ctx, UserProfile{Email: "kiwi@example.com", Name: "Kiwi"})

	if err := store.DismissNewUserQuestions(ctx, u.ID); err != nil {
		t.Fatalf("DismissNewUserQuestions() error = %v", err)
	}

	show, _ := store.ShowNewUserQuestions(ctx, u.ID)
	if show {
		t.Error("questions should be dismissed")
	}
	got, _ := store.GetByID(ctx, u.ID)
	if got.IsFirstTimeUser {
		t.Error("dismissing should clear the first time flag")
	}

	if err := store.DismissNewUserQuestions(ctx, u.ID); err != nil {
		t.Errorf("dismissing twice should be harmless, got %v", err)
	}
}

func TestStore_LookupIdentity(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created, _ := store.Create(ctx, UserProfile{Email: "Kiwi@Example.com", Name: "Kiwi"})

	identity, err := store.LookupIdentity(ctx, created.ID)
	if err != nil {
		t.Fatalf("LookupIdentity() error = %v", err)
	}
	if identity.UserID != created.ID || identity.Email != "kiwi@example.com" {
		t.Errorf("unexpected identity %+v", identity)
	}

	if _, err := store.LookupIdentity(ctx, 999999); err == nil {
		t.Error("expected error for unknown user")
	}
}
