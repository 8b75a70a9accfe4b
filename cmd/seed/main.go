package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/shoplite/catalog-backend/config"
	"github.com/shoplite/catalog-backend/internal/domain/valueobject"
)

// Seeds a verified admin account plus a few starter categories so a fresh
// environment is usable immediately.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@shoplite.dev"
	password := "changeme123"
	hashed, err := valueobject.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (id, first_name, last_name, email, password_hash, role, active, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, TRUE)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, active = TRUE, email_verified = TRUE
		RETURNING id
	`, uuid.NewString(), "Store", "Admin", email, hashed.Hash(), valueobject.RoleAdmin.String()).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", id, email, password)

	for _, name := range []string{"Electronics", "Books", "Home & Garden"} {
		var catID string
		err = db.QueryRow(`
			INSERT INTO categories (id, name, description, active)
			VALUES ($1, $2, '', TRUE)
			ON CONFLICT (name) DO UPDATE SET active = TRUE
			RETURNING id
		`, uuid.NewString(), name).Scan(&catID)
		if err != nil {
			log.Fatalf("failed to seed category %q: %v", name, err)
		}
		fmt.Printf("seeded category: id=%s name=%s\n", catID, name)
	}
}
