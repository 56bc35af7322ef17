package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	_ "github.com/lib/pq"

	"labor-platform/internal/config"
)

// Migration files are named NNN_description.up.sql / NNN_description.down.sql
// and applied in NNN order (reversed for down).
var migrationName = regexp.MustCompile(`^\d{3}_[a-z0-9_]+\.(up|down)\.sql$`)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	dir := flag.String("dir", "migrations", "Directory containing migration files")
	flag.Parse()

	if *direction != "up" && *direction != "down" {
		fmt.Fprintf(os.Stderr, "Invalid direction %q: must be up or down\n", *direction)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Connect to database
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to ping database: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Connected to database successfully")

	files, err := collectMigrations(*dir, *direction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to collect migrations: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No %s migrations found in %s\n", *direction, *dir)
		os.Exit(1)
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read migration file: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Running migration: %s\n", filepath.Base(file))

		if _, err := db.Exec(string(content)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to execute %s: %v\n", filepath.Base(file), err)
			os.Exit(1)
		}
	}

	fmt.Printf("Applied %d migration(s) successfully\n", len(files))
}

// collectMigrations returns the migration files for the given direction
// in application order: ascending for up, descending for down. A .sql
// file that does not match the naming convention is an error rather
// than being skipped, so a typo cannot silently drop schema changes.
func collectMigrations(dir, direction string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" {
			continue
		}
		if !migrationName.MatchString(name) {
			return nil, fmt.Errorf("migration file %q does not match NNN_name.%s.sql", name, "{up,down}")
		}
		if filepath.Ext(name[:len(name)-len(".sql")]) == "."+direction {
			files = append(files, filepath.Join(dir, name))
		}
	}

	sort.Strings(files)
	if direction == "down" {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}
	return files, nil
}
