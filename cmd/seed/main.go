// seed applies migrations and registers a known dev credential.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"authgate/internal/domain"
	"authgate/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password-1"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	if err := postgres.Migrate(ctx, dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	// Low cost on purpose: this credential only exists in local dev.
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.MinCost)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	tag, err := pool.Exec(ctx, `
		INSERT INTO credentials (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING`,
		domain.NormalizeEmail(seedEmail), string(hash),
	)
	if err != nil {
		log.Fatalf("insert credential: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	if tag.RowsAffected() == 0 {
		fmt.Printf("  Credential %s already existed, left as is\n", seedEmail)
	} else {
		fmt.Printf("  Credential created: %s / %s\n", seedEmail, seedPassword)
	}
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println("    # → {\"token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  Step 2 — call a protected route:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/me -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  Step 3 — duplicate registration should 409:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/register \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"whatever-else\"}'\n", seedEmail)
}
