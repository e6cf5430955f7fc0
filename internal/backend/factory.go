package backend

import (
	"context"
	"fmt"

	"spesedesk/internal/log"
	"spesedesk/internal/storage"
	"spesedesk/internal/store/jsonfile"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Default()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		f.logger.ErrorContext(ctx, "Invalid backend configuration",
			log.NewFields().WithError(err, log.ErrorTypeConfiguration).ToSlice()...)
		return nil, err
	}

	switch config.Type {
	case JSONBackend:
		return f.createJSONBackend(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createJSONBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := jsonfile.New(config.DataDir, config.DataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize json store: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized JSON file backend",
		log.FieldPath, store.Path(),
		"exists", store.Exists())

	return &BackendResult{Store: store, Type: JSONBackend}, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		log.FieldPath, repo.Path(),
		"schema_version", repo.SchemaVersion())

	return &BackendResult{
		Store:   repo,
		Type:    SQLiteBackend,
		Cleanup: repo.Close,
	}, nil
}
