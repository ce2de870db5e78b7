package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/eleven-am/accounts-backend/internal/bootstrap"
	"github.com/eleven-am/accounts-backend/internal/shared"
	"github.com/eleven-am/accounts-backend/internal/user"
)

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.AdminEmail == "" {
		fmt.Fprintln(os.Stderr, "Set --admin-email or ACCOUNTS_ADMIN_EMAIL")
		os.Exit(1)
	}

	db, err := bootstrap.OpenDatabase(cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	store := user.NewStore(db)
	if err := store.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to migrate: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	admin, err := store.GetByEmail(ctx, cfg.AdminEmail)
	if errors.Is(err, shared.ErrNotFound) {
		admin, err = store.Create(ctx, user.UserProfile{Email: cfg.AdminEmail, Name: "Admin"})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to find or create admin user: %v\n", err)
		os.Exit(1)
	}

	key, err := store.CreateAPIKey(ctx, admin.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create API key: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Admin user: %s (id %d)\n", admin.DisplayEmail(), admin.ID)
	fmt.Println("")
	fmt.Printf("API Key: %s\n", key)
	fmt.Println("")
	fmt.Println("Use this key in the Authorization header:")
	fmt.Printf("  Authorization: Bearer %s\n", key)
}
