package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	configFile := flag.String("config", "", "Optional env file to load (e.g. .env)")
	statsOnly := flag.Bool("stats", false, "Print store statistics instead of ingesting")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Twitter Backup Processor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <data_folder>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "The data folder holds twitter-meta/ (one JSON file per tweet), an\n")
		fmt.Fprintf(os.Stderr, "optional img/ directory of media files, and receives avatar/ plus the\n")
		fmt.Fprintf(os.Stderr, "twitter_data.db store.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s ./backup            # ingest the snapshot\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -stats ./backup     # report statistics only\n", os.Args[0])
	}

	flag.Parse()

	if *configFile != "" {
		if err := godotenv.Load(*configFile); err != nil {
			log.Printf("Warning: failed to load config file %s: %v", *configFile, err)
		}
	}

	// flag stops parsing at the first positional argument, so accept
	// "processor <data_folder> --stats" as well.
	basePath := ""
	stats := *statsOnly
	for _, arg := range flag.Args() {
		if arg == "--stats" || arg == "-stats" {
			stats = true
			continue
		}
		if basePath != "" {
			flag.Usage()
			os.Exit(2)
		}
		basePath = arg
	}
	if basePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	args := &Args{
		BasePath:  basePath,
		StatsOnly: stats,
	}

	container, err := BuildContainer(args)
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}

	err = container.Invoke(func(app *Application) error {
		defer app.Shutdown()
		return app.Run()
	})
	if err != nil {
		// Per-file failures never reach here; only setup and migration
		// problems are fatal.
		if errors.Is(err, ErrSetup) || errors.Is(err, ErrMigration) {
			log.Fatalf("%v", err)
		}
		log.Fatalf("Run failed: %v", err)
	}
}
