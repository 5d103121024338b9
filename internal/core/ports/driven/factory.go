package driven

import (
	"context"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

// ConnectorBuilder creates a Connector from a Source with its credentials.
// Credentials may be nil for connectors that don't require authentication.
type ConnectorBuilder func(source domain.Source, creds *domain.Credentials) (Connector, error)

// ConnectorFactory creates connectors from source configuration.
// It maintains a registry of connector types and their builders.
type ConnectorFactory interface {
	// Create returns a Connector for the given source.
	// Resolves credentials for the source internally.
	// Returns ErrUnsupportedType if the source type is unknown.
	Create(ctx context.Context, source domain.Source) (Connector, error)

	// Register adds a connector builder for the given type.
	Register(connectorType domain.ConnectorType, builder ConnectorBuilder)

	// SupportedTypes returns descriptors for all registered connector
	// types, ordered by type ID.
	SupportedTypes() []domain.ConnectorType

	// Describe returns the descriptor for a connector type.
	// Returns ErrUnsupportedType if the type is unknown.
	Describe(connectorType string) (*domain.ConnectorType, error)
}
