// Command migrate creates the users table and its unique indexes. Safe to
// run repeatedly; everything is IF NOT EXISTS.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/imagemodify/imagemodify/internal/config"
	"github.com/imagemodify/imagemodify/internal/store"
	"github.com/imagemodify/imagemodify/internal/user"
)

func main() {
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db := store.Open(cfg.DatabaseURL)
	defer db.Close()

	repo := user.NewUserRepository(db)

	if err := repo.InitializeDatabase(context.Background()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Println("Database is up to date")
}
