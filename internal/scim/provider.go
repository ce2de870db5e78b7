package scim

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/eleven-am/accounts-backend/internal/shared"
	"github.com/eleven-am/accounts-backend/internal/user"
)

// ResourceProvider is the typed contract behind the /Users endpoints.
type ResourceProvider interface {
	Fetch(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, match Predicate) ([]*User, error)
	Create(ctx context.Context, in *User) (*User, error)
	Update(ctx context.Context, id string, in *User) (*User, error)
	Delete(ctx context.Context, id string) error
}

// UserManager is the subset of the account store the provider needs.
type UserManager interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
	Create(ctx context.Context, profile user.UserProfile) (*user.User, error)
	Override(ctx context.Context, id int64, profile user.UserProfile) (*user.User, error)
	Delete(ctx context.Context, id int64) (*user.User, error)
}

const duplicateEmailMessage = "An existing user with the passed email exist."

type UserProvider struct {
	users    UserManager
	sessions user.SessionRevoker
	logger   *slog.Logger
}

func NewUserProvider(users UserManager, sessions user.SessionRevoker, logger *slog.Logger) *UserProvider {
	return &UserProvider{users: users, sessions: sessions, logger: logger}
}

func (p *UserProvider) Fetch(ctx context.Context, id string) (*User, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	u, err := p.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(id, err)
	}
	return fromAccount(u), nil
}

func (p *UserProvider) List(ctx context.Context, match Predicate) ([]*User, error) {
	users, err := p.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*User, 0, len(users))
	for i := range users {
		u := fromAccount(&users[i])
		if match == nil || match(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (p *UserProvider) Create(ctx context.Context, in *User) (*User, error) {
	_, err := p.users.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, shared.Errorf(shared.ErrConflict, duplicateEmailMessage)
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	u, err := p.users.Create(ctx, in.profile())
	if errors.Is(err, shared.ErrConflict) {
		return nil, shared.Errorf(shared.ErrConflict, duplicateEmailMessage)
	}
	if err != nil {
		return nil, err
	}
	return fromAccount(u), nil
}

func (p *UserProvider) Update(ctx context.Context, id string, in *User) (*User, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	u, err := p.users.Override(ctx, userID, in.profile())
	if err != nil {
		return nil, notFound(id, err)
	}
	return fromAccount(u), nil
}

func (p *UserProvider) Delete(ctx context.Context, id string) error {
	userID, err := parseID(id)
	if err != nil {
		return err
	}

	if _, err := p.users.Delete(ctx, userID); err != nil {
		return notFound(id, err)
	}
	if p.sessions != nil {
		if err := p.sessions.RevokeUser(ctx, userID); err != nil {
			p.logger.Warn("failed to revoke sessions of deleted user", "error", err, "user_id", userID)
		}
	}
	return nil
}

func parseID(id string) (int64, error) {
	userID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || userID <= 0 {
		return 0, shared.Errorf(shared.ErrNotFound, "User with ID %s not found", id)
	}
	return userID, nil
}

// notFound rewrites a store not found error with the SCIM resource message
// and passes everything else through.
func notFound(id string, err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.Errorf(shared.ErrNotFound, "User with ID %s not found", id)
	}
	return err
}

var _ ResourceProvider = (*UserProvider)(nil)
