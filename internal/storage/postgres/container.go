package postgres

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/tally-api/internal/config"
	"github.com/gravadigital/tally-api/internal/domain/election"
	"github.com/gravadigital/tally-api/internal/logger"
)

// Container owns the database handle and the repositories built on it.
// Each container is independent, so tests can run isolated instances.
type Container struct {
	db            *gorm.DB
	log           *log.Logger
	voterRepo     *PostgresVoterRepository
	candidateRepo *PostgresCandidateRepository
}

// NewContainer connects, migrates and wires all repositories
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)

	if err := container.Health(); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:            db,
		log:           logger.Repository("postgres_container"),
		voterRepo:     NewPostgresVoterRepository(db),
		candidateRepo: NewPostgresCandidateRepository(db),
	}
}

// Voters returns the voter registry
func (c *Container) Voters() election.VoterRegistry {
	return c.voterRepo
}

// Candidates returns the candidate registry
func (c *Container) Candidates() election.CandidateRegistry {
	return c.candidateRepo
}

// Health pings the database and checks that every table answers a count
func (c *Container) Health() error {
	if err := HealthCheck(c.db); err != nil {
		c.log.Error("Database health check failed", "error", err)
		return err
	}

	for _, table := range []string{"voters", "candidates"} {
		var count int64
		if err := c.db.Table(table).Count(&count).Error; err != nil {
			c.log.Error("Repository health check failed", "table", table, "error", err)
			return fmt.Errorf("table %s health check failed: %w", table, err)
		}
		c.log.Debug("Repository health check passed", "table", table, "rows", count)
	}
	return nil
}

// Close shuts down the container and its database connection
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	if err := Close(c.db); err != nil {
		return err
	}
	c.db = nil
	return nil
}

// Info describes the backend and its connection pool for /ping
func (c *Container) Info() map[string]any {
	info := map[string]any{
		"type":         "postgres",
		"repositories": []string{"voters", "candidates"},
	}
	if c.db == nil {
		info["database"] = map[string]any{"connected": false}
		return info
	}

	sqlDB, err := c.db.DB()
	if err != nil {
		info["database"] = map[string]any{"connected": false, "error": err.Error()}
		return info
	}
	stats := sqlDB.Stats()
	info["database"] = map[string]any{
		"connected":        true,
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
	}
	return info
}

// GetDB returns the underlying database connection
func (c *Container) GetDB() *gorm.DB {
	return c.db
}
