package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/eleven-am/accounts-backend/internal/auth"
	"github.com/eleven-am/accounts-backend/internal/bootstrap"
	"github.com/eleven-am/accounts-backend/internal/shared"
	"github.com/eleven-am/accounts-backend/internal/user"
)

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		log.Fatal("load config:", err)
	}
	if cfg.ScimEmail == "" {
		log.Fatal("set --scim-email or ACCOUNTS_SCIM_EMAIL")
	}

	db, err := bootstrap.OpenDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("connect db:", err)
	}

	store := user.NewStore(db)
	if err := store.Migrate(); err != nil {
		log.Fatal("migrate:", err)
	}

	ctx := context.Background()
	scimUser, err := store.GetByEmail(ctx, cfg.ScimEmail)
	if errors.Is(err, shared.ErrNotFound) {
		scimUser, err = store.Create(ctx, user.UserProfile{Email: cfg.ScimEmail, Name: "SCIM"})
	}
	if err != nil {
		log.Fatal("create scim user:", err)
	}
	fmt.Println("SCIM user ID:", scimUser.ID)

	tokens := auth.NewTokenService(cfg.HMACKey, cfg.TokenTTL)
	token, claims, err := tokens.Issue(scimUser.ID, scimUser.LoginEmail())
	if err != nil {
		log.Fatal("issue token:", err)
	}

	fmt.Println("Token expires:", claims.ExpiresAt.Time)
	fmt.Println("")
	fmt.Println("List users with:")
	fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost%s/v1/scim/v2/Users\n", token, cfg.ServerAddr)
}
