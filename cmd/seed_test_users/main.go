package main

import (
	"bytes"
	"context"
	_ "embed"

	"github.com/sirupsen/logrus"

	"github.com/nandoesporte/gut59/backend/config"
	"github.com/nandoesporte/gut59/backend/internal/database"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/seed"
)

//go:embed users.yaml
var fixtureUsers []byte

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if config.IsProduction() {
		log.Fatal("refusing to create test users in production")
	}

	doc, err := seed.Load(bytes.NewReader(fixtureUsers))
	if err != nil {
		log.WithError(err).Fatal("invalid fixture file")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	res, err := seed.Apply(context.Background(), db, doc)
	if err != nil {
		log.WithError(err).Fatal("failed to create test users")
	}
	log.WithField("created", res.Users).Info("test users ready, password: testpassword123")
}
