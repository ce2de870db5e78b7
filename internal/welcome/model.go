package welcome

import (
	"time"

	"github.com/eleven-am/accounts-backend/internal/shared"
)

// Response is one submitted welcome form.
type Response struct {
	ID        int64              `gorm:"primaryKey;autoIncrement"`
	UserID    int64              `gorm:"not null;index"`
	UseCases  shared.StringSlice `gorm:"type:text"`
	UseOther  string             `gorm:"type:text"`
	CreatedAt time.Time
}

func (Response) TableName() string {
	return "welcome_responses"
}

// Event is the stream entry published for every stored response.
type Event struct {
	ResponseID int64     `json:"response_id"`
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	UseCases   []string  `json:"use_cases"`
	UseOther   string    `json:"use_other,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
