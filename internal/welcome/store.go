package welcome

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eleven-am/accounts-backend/internal/shared"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	DefaultStream = "accounts:welcome"
	streamMaxLen  = 10000
)

type Store struct {
	db     *gorm.DB
	redis  *redis.Client
	stream string
}

func NewStore(db *gorm.DB, redisClient *redis.Client, stream string) *Store {
	if stream == "" {
		stream = DefaultStream
	}
	return &Store{db: db, redis: redisClient, stream: stream}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Response{})
}

func (s *Store) Save(ctx context.Context, resp *Response) error {
	if err := s.db.WithContext(ctx).Create(resp).Error; err != nil {
		return shared.ClassifyDBError(err)
	}
	return nil
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]Response, error) {
	var out []Response
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}

// Publish appends the event to the welcome stream, trimming it to roughly
// streamMaxLen entries. A store without redis publishes nothing.
func (s *Store) Publish(ctx context.Context, event Event) (string, error) {
	if s.redis == nil {
		return "", nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal welcome event: %w", err)
	}

	id, err := s.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{
			"user_id": event.UserID,
			"data":    string(data),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("publish welcome event: %w", err)
	}
	return id, nil
}
