package user

import (
	"context"

	"github.com/eleven-am/accounts-backend/internal/auth"
)

// LookupIdentity resolves the session subject to the user's current login
// email.
func (s *Store) LookupIdentity(ctx context.Context, userID int64) (*auth.Identity, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &auth.Identity{UserID: u.ID, Email: u.LoginEmail()}, nil
}

func (s *Store) LookupAPIKey(ctx context.Context, key string) (*auth.Identity, error) {
	u, err := s.GetByAPIKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return &auth.Identity{UserID: u.ID, Email: u.LoginEmail()}, nil
}

var _ auth.UserResolver = (*Store)(nil)
