// Command migrate applies the embedded schema migrations to the Compass database.
//
// The connection is taken from -dsn, then COMPASS_DB_DSN, then the database
// section of the service configuration.
package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/compass/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "COMPASS_DB_DSN"

func main() {
	var (
		dsn     = flag.String("dsn", "", "database connection URL")
		up      = flag.Bool("up", false, "apply all pending migrations")
		down    = flag.Bool("down", false, "revert all migrations")
		steps   = flag.Int("steps", 0, "apply N migrations (negative reverts)")
		version = flag.Bool("version", false, "print the current schema version")
		force   = flag.Int("force", -1, "force the schema version after a failed migration")
	)
	flag.Parse()

	url, err := resolveDSN(*dsn)
	if err != nil {
		log.Fatalf("resolve connection: %v", err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		log.Fatalf("open migrations: %v", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		log.Fatalf("create migrator: %v", err)
	}
	defer m.Close()

	switch {
	case *version:
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			return
		}
		if err != nil {
			log.Fatalf("read version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", v, dirty)
	case *force >= 0:
		if err := m.Force(*force); err != nil {
			log.Fatalf("force version: %v", err)
		}
		fmt.Printf("forced to version %d\n", *force)
	case *up:
		run("up", m.Up())
	case *down:
		run("down", m.Down())
	case *steps != 0:
		run(fmt.Sprintf("%d steps", *steps), m.Steps(*steps))
	default:
		fmt.Fprintln(os.Stderr, "usage: migrate [-dsn URL] -up | -down | -steps N | -version | -force N")
		flag.PrintDefaults()
		os.Exit(2)
	}
}

func resolveDSN(flagDSN string) (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}
	cfg, err := config.LoadDatabase()
	if err != nil {
		return "", err
	}
	return cfg.URL(), nil
}

func run(label string, err error) {
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migrate %s: %v", label, err)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Printf("migrate %s: no change\n", label)
		return
	}
	fmt.Printf("migrate %s: done\n", label)
}
