package main

import (
	"log"
	"os"

	"github.com/forgeplanner/core/cmd/planner/commands"
)

// @title Forge Planner API
// @version 2.4
// @description Task calendar, brain health, money tracker and focus stats

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
