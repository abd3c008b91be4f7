package db

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// RunMigrateCommand handles the 'migrate' subcommand dispatching
func RunMigrateCommand(args []string, dbPath, migrationsDir string) {
	if len(args) < 1 {
		PrintMigrateHelp()
		os.Exit(1)
	}

	action := args[0]

	// Open database connection without running schema initialization
	// (migrations will manage the schema)
	database, err := OpenDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	switch action {
	case "up":
		if err := database.MigrateUp(migrationsDir); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		printVersion(database, migrationsDir)

	case "down":
		if err := database.MigrateDown(migrationsDir); err != nil {
			log.Fatalf("Migration rollback failed: %v", err)
		}
		printVersion(database, migrationsDir)

	case "status":
		printVersion(database, migrationsDir)

	case "force":
		if len(args) < 2 {
			log.Fatal("Usage: hotspot-report migrate force <version_number>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("Invalid version number %q: %v", args[1], err)
		}
		if err := database.MigrateForce(migrationsDir, version); err != nil {
			log.Fatalf("Force migration failed: %v", err)
		}
		printVersion(database, migrationsDir)

	case "help":
		PrintMigrateHelp()

	default:
		fmt.Printf("Unknown migrate action: %s\n\n", action)
		PrintMigrateHelp()
		os.Exit(1)
	}
}

func printVersion(database *DB, migrationsDir string) {
	version, dirty, err := database.MigrateVersion(migrationsDir)
	if err != nil {
		log.Fatalf("Failed to read migration version: %v", err)
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Printf("Schema version: %d (%s)\n", version, state)
}

// PrintMigrateHelp prints usage for the migrate subcommand.
func PrintMigrateHelp() {
	fmt.Print(`Usage: hotspot-report migrate <action>

Actions:
  up               Apply all pending migrations
  down             Roll back the most recent migration
  status           Show the current schema version
  force <version>  Force the schema version (recovery from dirty state)
  help             Show this help
`)
}
