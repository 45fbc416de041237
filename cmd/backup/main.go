package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"astrocadet/internal/config"
	"astrocadet/internal/database"
	"astrocadet/internal/repository"
	"astrocadet/internal/service"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: highscores_YYYYMMDD_HHMMSS.json)")

	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Replace the leaderboard instead of merging (WARNING: destructive)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Backups need the real database, there is no in-memory fallback here
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	scores := service.NewScoreService(repository.NewKVRepository(db))
	backupService := service.NewBackupService(scores, db.Dialect.Name())

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(backupService, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(backupService, *importInput, *importClear)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(backupService *service.BackupService, outputPath string) {
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("highscores_%s.json", timestamp)
	}

	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	log.Printf("Exporting high scores to: %s", outputPath)
	backup, err := backupService.ExportToFile(outputPath)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	log.Printf("Export complete! %d entries written", len(backup.HighScores))
}

func handleImport(backupService *service.BackupService, inputPath string, clearData bool) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", inputPath)
	}

	if clearData {
		fmt.Print("WARNING: This will replace all existing high scores. Type 'yes' to confirm: ")
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			log.Println("Import cancelled")
			return
		}
	}

	log.Printf("Importing high scores from: %s", inputPath)
	backup, err := backupService.ImportFromFile(inputPath, clearData)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import complete! %d entries read (backup version %s)", len(backup.HighScores), backup.Version)
}

func printUsage() {
	fmt.Println("Astro Cadet High Score Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [-output <file>]")
	fmt.Println("  backup import -input <file> [-clear]")
	fmt.Println()
	fmt.Println("The database is selected with DB_TYPE, DB_PATH and DATABASE_URL.")
}
