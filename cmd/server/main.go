package main

import (
	"log"

	_ "agility/docs"
	"agility/internal/config"
	"agility/internal/server"
)

// @title           Agility API
// @version         1.0
// @description     Project management backend: projects, teams, sprints and tasks.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and an identity token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
