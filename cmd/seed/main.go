package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/skycastlabs/user-service/config"
	"github.com/skycastlabs/user-service/pkg/helpers"
)

// Seeds a confirmed demo account for local development: one identity
// credential plus the matching user record.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@skycast.dev"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	subject := uuid.NewString()
	err = db.QueryRow(`
		INSERT INTO identity_credentials (subject, email, password_hash, confirmed)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (email) DO UPDATE SET confirmed = TRUE
		RETURNING subject
	`, subject, email, hash).Scan(&subject)
	if err != nil {
		log.Fatalf("failed to seed credential: %v", err)
	}

	if _, err := db.Exec(`
		INSERT INTO users (id, user_name, first_name, last_name, email, is_verified)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (id) DO NOTHING
	`, subject, "demoUser", "Demo", "User", email); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	fmt.Printf("seeded user: id=%s email=%s password=%s\n", subject, email, password)
}
