package bootstrap

import (
	"github.com/eleven-am/accounts-backend/internal/session"
	"github.com/eleven-am/accounts-backend/internal/user"
	"github.com/eleven-am/accounts-backend/internal/welcome"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideUserStore(db *gorm.DB) *user.Store {
	return user.NewStore(db)
}

func ProvideSessionStore(redisClient *redis.Client) *session.Store {
	return session.NewStore(redisClient)
}

func ProvideWelcomeStore(db *gorm.DB, redisClient *redis.Client, cfg *Config) *welcome.Store {
	return welcome.NewStore(db, redisClient, cfg.WelcomeStream)
}

func RunMigrations(userStore *user.Store, welcomeStore *welcome.Store) error {
	if err := userStore.Migrate(); err != nil {
		return err
	}
	return welcomeStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideUserStore,
		ProvideSessionStore,
		ProvideWelcomeStore,
	),
	fx.Invoke(RunMigrations),
)
