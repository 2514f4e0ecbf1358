package main

import (
	"database/sql"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/tropicaldog17/lessondesk/internal/config"
	"github.com/tropicaldog17/lessondesk/internal/logger"
	"github.com/tropicaldog17/lessondesk/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("failed to ping database", zap.Error(err))
	}

	applied, err := migrations.Run(db, func(m migrations.Migration) {
		log.Info("migration applied", zap.Int("version", m.ID), zap.String("file", m.Filename))
	})
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migrations complete", zap.Int("applied", applied))
}
