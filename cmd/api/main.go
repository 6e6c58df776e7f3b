package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imagemodify/imagemodify/internal/api"
	"github.com/imagemodify/imagemodify/internal/auth"
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
		log.Fatalf("Failed to initialize database: %v", err)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	google := auth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	automation := api.NewAutomationClient(cfg.AutomationURL, cfg.AutomationTimeout)

	handler := api.NewHandler(repo, tokens, google, automation, cfg.FrontendURL)
	router := api.SetupRoutes(handler, tokens, repo, cfg.CORSAllowedOrigin)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Backend API starting on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
