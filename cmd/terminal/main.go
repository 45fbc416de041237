package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"astrocadet/internal/catalog"
	"astrocadet/internal/config"
	"astrocadet/internal/security"
	"astrocadet/internal/service"
	"astrocadet/internal/session"
	"astrocadet/internal/tui"
)

func main() {
	// Log lines would corrupt the screen
	if path := os.Getenv("ASTRO_CADET_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	scores, closeStore := service.OpenScoreService(cfg)
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	cat, catalogErr := catalog.Load(ctx, cfg.CatalogSource)
	cancel()
	if catalogErr != nil {
		log.Printf("Error loading game data: %v", catalogErr)
	}

	s := session.New(security.GenerateSessionID(), session.Options{
		Catalog:    cat,
		CatalogErr: catalogErr,
		Scores:     scores,
	})
	defer s.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	defer screen.Fini()

	tui.NewApp(screen, s).Run()
}
