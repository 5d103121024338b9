package connectors

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.ConnectorFactory = (*Factory)(nil)

// Factory creates connectors from source configuration.
// It maintains a registry of connector types and their builders, and
// resolves stored credentials for types that require authentication.
type Factory struct {
	mu               sync.RWMutex
	builders         map[string]driven.ConnectorBuilder
	types            map[string]domain.ConnectorType
	credentialsStore driven.CredentialsStore
}

// NewFactory creates a connector factory.
// credentialsStore may be nil when no authenticated connector types are
// registered.
func NewFactory(credentialsStore driven.CredentialsStore) *Factory {
	return &Factory{
		builders:         make(map[string]driven.ConnectorBuilder),
		types:            make(map[string]domain.ConnectorType),
		credentialsStore: credentialsStore,
	}
}

// Register adds a connector builder for the given type.
// Registering the same type twice replaces the previous builder.
func (f *Factory) Register(connectorType domain.ConnectorType, builder driven.ConnectorBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.types[connectorType.ID] = connectorType
	f.builders[connectorType.ID] = builder
}

// Create returns a Connector for the given source.
// Credentials are resolved from the credentials store for connector
// types that require authentication.
func (f *Factory) Create(ctx context.Context, source domain.Source) (driven.Connector, error) {
	f.mu.RLock()
	builder, ok := f.builders[source.Type]
	connType := f.types[source.Type]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, source.Type)
	}

	var creds *domain.Credentials
	if connType.RequiresAuth {
		if f.credentialsStore == nil {
			return nil, fmt.Errorf("%w: no credentials store configured", domain.ErrAuthRequired)
		}
		stored, err := f.credentialsStore.GetBySourceID(ctx, source.ID)
		if err != nil {
			return nil, fmt.Errorf("get credentials for source %s: %w", source.ID, err)
		}
		if stored == nil || !stored.IsAuthenticated() {
			return nil, fmt.Errorf("%w: source %s has no stored credentials", domain.ErrAuthRequired, source.ID)
		}
		creds = stored
	}

	return builder(source, creds)
}

// SupportedTypes returns descriptors for all registered connector types,
// ordered by type ID.
func (f *Factory) SupportedTypes() []domain.ConnectorType {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make([]domain.ConnectorType, 0, len(f.types))
	for _, t := range f.types {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Describe returns the descriptor for a connector type.
func (f *Factory) Describe(connectorType string) (*domain.ConnectorType, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	t, ok := f.types[connectorType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, connectorType)
	}
	return &t, nil
}
