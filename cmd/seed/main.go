package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/nandoesporte/gut59/backend/config"
	"github.com/nandoesporte/gut59/backend/internal/database"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/seed"
)

//go:embed catalog.yaml
var defaultCatalog []byte

func main() {
	file := flag.String("file", "", "Seed file to load (defaults to the embedded catalog)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	var src io.Reader = bytes.NewReader(defaultCatalog)
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.WithError(err).Fatal("failed to open seed file")
		}
		defer f.Close()
		src = f
	}

	doc, err := seed.Load(src)
	if err != nil {
		log.WithError(err).Fatal("invalid seed file")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.MigrationURL()); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	res, err := seed.Apply(context.Background(), db, doc)
	if err != nil {
		log.WithError(err).Fatal("seeding failed")
	}
	log.WithFields(logrus.Fields{
		"foods":     res.Foods,
		"exercises": res.Exercises,
		"settings":  res.Settings,
		"users":     res.Users,
	}).Info("seed applied")
}
