package storage

import (
	"fmt"

	"github.com/gravadigital/tally-api/internal/config"
	"github.com/gravadigital/tally-api/internal/domain/election"
	"github.com/gravadigital/tally-api/internal/storage/memory"
	"github.com/gravadigital/tally-api/internal/storage/postgres"
)

// Container is the store object handed to every component at construction
type Container interface {
	Voters() election.VoterRegistry
	Candidates() election.CandidateRegistry
	Health() error
	Info() map[string]any
	Close() error
}

// StorageType represents the type of storage backend
type StorageType string

const (
	// StorageTypePostgres represents PostgreSQL storage
	StorageTypePostgres StorageType = "postgres"
	// StorageTypeMemory keeps everything in process; data is lost on restart
	StorageTypeMemory StorageType = "memory"
)

// Factory provides a factory pattern for creating storage containers
type Factory struct {
	storageType StorageType
}

// NewFactory creates a new storage factory
func NewFactory(storageType StorageType) *Factory {
	return &Factory{
		storageType: storageType,
	}
}

// CreateContainer creates a storage container based on the configured type
func (f *Factory) CreateContainer(cfg *config.Config) (Container, error) {
	switch f.storageType {
	case StorageTypePostgres:
		container, err := postgres.NewContainer(cfg)
		if err != nil {
			return nil, err
		}
		return container, nil
	case StorageTypeMemory:
		return memory.NewContainer(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", f.storageType)
	}
}

// GetSupportedTypes returns a list of supported storage types
func GetSupportedTypes() []StorageType {
	return []StorageType{
		StorageTypePostgres,
		StorageTypeMemory,
	}
}

// ValidateStorageType validates if a storage type is supported
func ValidateStorageType(storageType string) (StorageType, error) {
	st := StorageType(storageType)

	for _, supported := range GetSupportedTypes() {
		if st == supported {
			return st, nil
		}
	}

	return "", fmt.Errorf("unsupported storage type: %s. Supported types: %v", storageType, GetSupportedTypes())
}

// FromConfig builds a factory for cfg.Storage.Backend
func FromConfig(cfg *config.Config) (*Factory, error) {
	st, err := ValidateStorageType(cfg.Storage.Backend)
	if err != nil {
		return nil, err
	}
	return NewFactory(st), nil
}

// DefaultFactory returns a factory configured with the default storage type
func DefaultFactory() *Factory {
	return NewFactory(StorageTypePostgres)
}
