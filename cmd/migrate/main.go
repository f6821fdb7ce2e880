package main

import (
	"errors"
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"

	"github.com/nandoesporte/gut59/backend/config"
	"github.com/nandoesporte/gut59/backend/internal/database"
	"github.com/nandoesporte/gut59/backend/internal/logging"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	steps := flag.Int("steps", 0, "Apply (or with -rollback, revert) only this many migrations")
	showVersion := flag.Bool("version", false, "Print the current schema version and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.MigrationURL()
	}

	m, err := database.NewMigrator(dsn)
	if err != nil {
		log.WithError(err).Fatal("failed to open migrator")
	}
	defer m.Close()

	if *showVersion {
		printVersion(log, m)
		return
	}

	switch {
	case *rollback && *steps > 0:
		err = m.Steps(-*steps)
	case *rollback:
		err = m.Steps(-1)
	case *steps > 0:
		err = m.Steps(*steps)
	default:
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("schema already up to date")
		return
	}
	if err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	printVersion(log, m)
}

func printVersion(log *logrus.Logger, m *migrate.Migrate) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("no migrations applied")
		return
	}
	if err != nil {
		log.WithError(err).Fatal("failed to read schema version")
	}
	log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("schema version")
}
