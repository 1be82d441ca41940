package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"sixcities/internal/config"
	"sixcities/internal/database"
	"sixcities/internal/logger"
	"sixcities/internal/mockapi"
	"sixcities/internal/pkg/jwt"
)

func main() {
	reset := flag.Bool("reset", false, "delete existing rows before seeding")
	demoEmail := flag.String("demo-email", "demo@six-cities.local", "demo user to create, empty to skip")
	demoPassword := flag.String("demo-password", "demo1", "demo user password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config:", err)
	}
	appLog := logger.New(logger.Config{Level: logger.ParseLevel(cfg.LogLevel), UseColor: cfg.LogColor})

	db, err := database.Connect(cfg.MockAPI.DSN, appLog)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	repo := mockapi.NewRepository(db)
	log.Println("Running AutoMigrate...")
	if err := repo.Migrate(); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	if *reset {
		// children first
		log.Println("Cleaning old data...")
		for _, table := range []string{"reviews", "favorites", "offers", "users"} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				log.Fatalf("clean %s: %v", table, err)
			}
		}
	}

	ctx := context.Background()
	n, err := mockapi.Seed(ctx, repo)
	if err != nil {
		log.Fatal("seed failed:", err)
	}
	log.Printf("offers created: %d", n)

	if strings.TrimSpace(*demoEmail) != "" {
		j := jwt.New(cfg.MockAPI.JWTSecret, cfg.MockAPI.JWTTTL)
		svc := mockapi.NewService(repo, j, appLog)
		info, err := svc.Login(ctx, *demoEmail, *demoPassword)
		if err != nil {
			log.Fatal("demo user failed:", err)
		}
		log.Printf("demo user ready: %s (token %s...)", info.Email, info.Token[:16])
	}
}
