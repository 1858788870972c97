package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aquamarinepk/aqm"

	"github.com/ddalicious/cafepos/cmd/utils/internal/commands"
)

const (
	appName    = "cafepos-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	config, err := aqm.LoadConfig("UTILS", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := aqm.NewLogger(logLevel)

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "seed-demo":
		if err := commands.SeedDemo(ctx, config, logger); err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		logger.Info("Demo seeding completed")

	case "import-legacy":
		if len(os.Args) < 3 {
			fmt.Println("import-legacy requires the path to an export file")
			os.Exit(1)
		}
		if err := commands.ImportLegacy(ctx, config, logger, os.Args[2]); err != nil {
			log.Fatalf("Legacy import failed: %v", err)
		}
		logger.Info("Legacy import completed")

	case "reset-db":
		if err := commands.ResetDB(ctx, config, logger); err != nil {
			log.Fatalf("Store reset failed: %v", err)
		}
		logger.Info("Store reset completed")

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - cafepos utility commands

Usage:
  %s <command> [options]

Commands:
  seed-demo              Load the starter menu into an empty catalog
  import-legacy <file>   Convert a legacy export file into archived sale sessions
  reset-db               Clear every stored collection - USE WITH CAUTION
  version                Print version
  help                   Show this help

Options are passed through to the configuration loader, for example:
  %s seed-demo --db.bolt.path ./cafepos.db
`, appName, appName, appName)
}
