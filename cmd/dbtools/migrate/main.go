// cmd/dbtools/migrate/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguehub/internal/api/auth"
	"github.com/codr1/leaguehub/internal/api/authz"
	"github.com/codr1/leaguehub/internal/config"
	"github.com/codr1/leaguehub/internal/db"
	"github.com/codr1/leaguehub/internal/db/dbgen"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var (
		configPath     = flag.String("config", "config/app.yaml", "Path to the app config; supplies the database when -db is empty")
		dbPath         = flag.String("db", "", "Path to SQLite database")
		migrationsPath = flag.String("migrations", "internal/db/migrations", "Path to migrations directory")
		command        = flag.String("command", "", "Command to run (up, down, version, create-user)")
		email          = flag.String("email", "", "create-user: login email")
		name           = flag.String("name", "", "create-user: display name")
		role           = flag.String("role", authz.RoleScorekeeper, "create-user: admin, scorekeeper or viewer")
	)
	flag.Parse()

	if *command == "" {
		flag.Usage()
		os.Exit(1)
	}

	if *command == "create-user" {
		if err := createUser(*configPath, *email, *name, *role, os.Getenv("LEAGUEHUB_PASSWORD")); err != nil {
			log.Fatal().Err(err).Msg("Create user failed")
		}
		return
	}

	path, err := databasePath(*dbPath, *configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Resolve database path failed")
	}
	if err := runMigrate(path, *migrationsPath, *command); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("Migration failed")
	}
}

func databasePath(dbPath, configPath string) (string, error) {
	if dbPath != "" {
		return filepath.Abs(dbPath)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}
	return filepath.Abs(cfg.Database.Filename)
}

func runMigrate(dbPath, migrationsPath, command string) error {
	absMigrations, err := filepath.Abs(migrationsPath)
	if err != nil {
		return fmt.Errorf("invalid migrations path: %w", err)
	}
	if _, err := os.Stat(absMigrations); err != nil {
		return fmt.Errorf("migrations directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}

	m, err := migrate.New("file://"+absMigrations, "sqlite3://"+dbPath)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	log.Info().Str("command", command).Str("db", dbPath).Msg("Migration complete")
	return nil
}

// createUser adds a staff account. The password comes from the environment so
// it never lands in shell history; without one the user can only sign in via Clerk.
func createUser(configPath, email, name, role, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("-email is required")
	}
	role = authz.NormalizeRole(role)
	if role == "" {
		return errors.New("-role must be admin, scorekeeper or viewer")
	}
	if strings.TrimSpace(name) == "" {
		name = email
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	params := dbgen.CreateUserParams{Email: email, DisplayName: strings.TrimSpace(name), Role: role}
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		params.PasswordHash = sql.NullString{String: hash, Valid: true}
	}

	user, err := database.Queries.CreateUser(context.Background(), params)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	log.Info().Int64("user_id", user.ID).Str("email", user.Email).Str("role", user.Role).Bool("password", params.PasswordHash.Valid).Msg("User created")
	return nil
}
