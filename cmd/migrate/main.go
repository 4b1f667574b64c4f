package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gravadigital/tally-api/internal/config"
	"github.com/gravadigital/tally-api/internal/logger"
	"github.com/gravadigital/tally-api/internal/storage/migrations"
	"github.com/gravadigital/tally-api/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Log.Level)
	log := logger.Migration()

	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	status := flag.Bool("status", false, "Print migration status and exit")
	flag.Parse()

	db, err := postgres.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer postgres.Close(db)

	switch {
	case *status:
		statuses, err := migrations.GetStatus(db)
		if err != nil {
			log.Error("Failed to read migration status", "error", err)
			os.Exit(1)
		}
		for _, s := range statuses {
			applied := "pending"
			if s.Applied {
				applied = "applied " + s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%s  %-32s %s\n", s.ID, s.Name, applied)
		}
		return

	case *rollback:
		log.Info("Rolling back last migration...")
		if err := migrations.RollbackMigration(db); err != nil {
			log.Error("Migration rollback failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migration rollback completed successfully")

	default:
		log.Info("Running migrations...")
		if err := migrations.RunMigrations(db); err != nil {
			log.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migrations completed successfully")
	}

	fmt.Println("Migration process completed!")
}
