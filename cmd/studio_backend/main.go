package main

import "github.com/SscSPs/studio_ops_app/internal/cli"

// @title Studio Ops API
// @version 1.0
// @description Lead pipeline, client portal and ledger for a photo and video studio.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cli.Execute()
}
