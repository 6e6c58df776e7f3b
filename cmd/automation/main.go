package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/imagemodify/imagemodify/internal/automation"
	"github.com/imagemodify/imagemodify/internal/badge"
	"github.com/imagemodify/imagemodify/internal/config"
	"github.com/imagemodify/imagemodify/internal/processor"
	"github.com/imagemodify/imagemodify/internal/sheets"
)

// staticResolver falls back to the configured sheet when the caller does
// not supply one.
type staticResolver struct {
	client *sheets.Client
}

func (r *staticResolver) Resolve(sheetID, sheetName string) (sheets.Sheet, error) {
	return r.client.Open(sheetID, sheetName), nil
}

func main() {
	cfg, err := config.LoadAutomation()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := sheets.NewClient(context.Background(), cfg.SheetCredentialsFile)
	if err != nil {
		log.Fatalf("Failed to create sheets client: %v", err)
	}

	composer := badge.NewComposer(badge.Options{
		PriceFontPath:      cfg.PriceFontPath,
		DisclaimerFontPath: cfg.DisclaimerFontPath,
		WatermarkPath:      cfg.WatermarkPath,
	})

	outputDir := filepath.Join(cfg.ImagesDir, "edited")
	proc := processor.New(composer, cfg.BaseURL, outputDir)

	handler := automation.NewHandler(&staticResolver{client: client}, proc, cfg.SheetID, cfg.SheetName)
	router := automation.SetupRoutes(handler, cfg.APIKey, cfg.ImagesDir)

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

	log.Printf("Automation service starting on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
