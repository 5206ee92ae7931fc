// Package main 数据库初始化入口
package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"shortstory-ai-api/internal/config"
	"shortstory-ai-api/internal/domain/entity"
	"shortstory-ai-api/internal/infrastructure/persistence/postgres"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		log.Fatalf("failed to init postgres: %v", err)
	}
	defer func() { _ = pgClient.Close() }()

	fmt.Println("Running schema migrations...")
	if err := pgClient.DB().AutoMigrate(
		&entity.Story{},
		&entity.GenerationJob{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	fmt.Println("Bootstrap completed.")
}
