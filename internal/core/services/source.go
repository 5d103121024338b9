package services

import (
	"context"
	"fmt"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driving"
)

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService manages source configurations.
type SourceService struct {
	sourceStore driven.SourceStore
	pullStore   driven.PullStateStore
	docStore    driven.DocumentStore
	factory     driven.ConnectorFactory
}

// NewSourceService creates a new source service.
func NewSourceService(
	sourceStore driven.SourceStore,
	pullStore driven.PullStateStore,
	docStore driven.DocumentStore,
) *SourceService {
	return &SourceService{
		sourceStore: sourceStore,
		pullStore:   pullStore,
		docStore:    docStore,
	}
}

// SetConnectorFactory sets the factory for connector type lookups.
func (s *SourceService) SetConnectorFactory(factory driven.ConnectorFactory) {
	s.factory = factory
}

// Add creates a new source configuration.
func (s *SourceService) Add(ctx context.Context, source domain.Source) error {
	if s.sourceStore == nil {
		return domain.ErrNotImplemented
	}
	if source.ID == "" {
		return domain.ErrInvalidInput
	}
	// Check if already exists
	existing, err := s.sourceStore.Get(ctx, source.ID)
	if err == nil && existing != nil {
		return domain.ErrAlreadyExists
	}
	return s.sourceStore.Save(ctx, source)
}

// Get retrieves a source by ID.
func (s *SourceService) Get(ctx context.Context, id string) (*domain.Source, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.sourceStore.Get(ctx, id)
}

// List returns all configured sources.
func (s *SourceService) List(ctx context.Context) ([]domain.Source, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.sourceStore.List(ctx)
}

// Update modifies an existing source configuration.
func (s *SourceService) Update(ctx context.Context, source domain.Source) error {
	if s.sourceStore == nil {
		return domain.ErrNotImplemented
	}
	if source.ID == "" {
		return domain.ErrInvalidInput
	}
	// Verify source exists
	_, err := s.sourceStore.Get(ctx, source.ID)
	if err != nil {
		return domain.ErrNotFound
	}
	return s.sourceStore.Save(ctx, source)
}

// Remove deletes a source and its indexed data.
func (s *SourceService) Remove(ctx context.Context, id string) error {
	if s.sourceStore == nil {
		return domain.ErrNotImplemented
	}
	// Cleanup: delete documents, pull state, then source
	if s.docStore != nil {
		docs, err := s.docStore.ListDocuments(ctx, id)
		if err == nil {
			for i := range docs {
				//nolint:errcheck // Intentionally ignore errors to continue cleanup
				_ = s.docStore.DeleteDocument(ctx, docs[i].ID)
			}
		}
	}
	if s.pullStore != nil {
		//nolint:errcheck // Intentionally ignore errors to continue cleanup
		_ = s.pullStore.Delete(ctx, id)
	}
	return s.sourceStore.Delete(ctx, id)
}

// Types returns descriptors for the available connector types.
func (s *SourceService) Types(_ context.Context) ([]domain.ConnectorType, error) {
	if s.factory == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.factory.SupportedTypes(), nil
}

// ValidateConfig validates source configuration for a connector type.
func (s *SourceService) ValidateConfig(_ context.Context, connectorType string, config map[string]string) error {
	if s.factory == nil {
		return domain.ErrNotImplemented
	}

	connType, err := s.factory.Describe(connectorType)
	if err != nil {
		return fmt.Errorf("unknown connector type %q: %w", connectorType, err)
	}

	// Validate required config keys are present
	var missingKeys []string
	for _, key := range connType.ConfigKeys {
		if key.Required {
			value, exists := config[key.Key]
			if !exists || value == "" {
				missingKeys = append(missingKeys, key.Key)
			}
		}
	}

	if len(missingKeys) > 0 {
		return fmt.Errorf("missing required config keys: %v", missingKeys)
	}

	return nil
}
