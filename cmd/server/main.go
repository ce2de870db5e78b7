package main

import (
	_ "github.com/eleven-am/accounts-backend/docs"
	"github.com/eleven-am/accounts-backend/internal/bootstrap"
)

// @title Accounts API
// @version 1.0.0
// @description User accounts, SCIM provisioning and onboarding for a Grist installation

// @host localhost:8080
// @BasePath /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @securityDefinitions.apikey SessionAuth
// @in cookie
// @name accounts_session

func main() {
	bootstrap.Run()
}
