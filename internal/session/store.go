package session

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedPrefix     = "session:revoked:"
	userSessionPrefix = "session:user:"
)

// Store keeps track of issued session tokens in redis. Tokens are stateless
// JWTs, so revocation is a deny list keyed by token id that lives only as long
// as the token itself.
type Store struct {
	redis *redis.Client
	now   func() time.Time
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient, now: time.Now}
}

// Track indexes a freshly issued token under its user.
func (s *Store) Track(ctx context.Context, userID int64, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := s.now()
	key := userKey(userID)

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(now.Unix(), 10))
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.Add(ttl).Unix()), Member: tokenID})
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

// Revoke denies tokenID for the rest of its lifetime. Expired tokens are
// already rejected, so a non-positive ttl is a no-op.
func (s *Store) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, revokedPrefix+tokenID, "1", ttl).Err()
}

func (s *Store) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.redis.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RevokeUser revokes every live token issued to the user.
func (s *Store) RevokeUser(ctx context.Context, userID int64) error {
	now := s.now()
	key := userKey(userID)

	tokens, err := s.redis.ZRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(now.Unix(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return err
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, z := range tokens {
			tokenID, ok := z.Member.(string)
			if !ok {
				continue
			}
			ttl := time.Unix(int64(z.Score), 0).Sub(now)
			pipe.Set(ctx, revokedPrefix+tokenID, "1", ttl)
		}
		pipe.Del(ctx, key)
		return nil
	})
	return err
}

func userKey(userID int64) string {
	return userSessionPrefix + strconv.FormatInt(userID, 10)
}
