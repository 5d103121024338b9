// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SpreadsheetReader: Opens workbooks and exposes sheet data to the engine
//   - Connector: Fetches spreadsheet files from a data source
//   - ConnectorFactory: Creates connectors from configuration
//   - DocumentStore: Extracted-document persistence and search
//   - ClusterStore: Pattern cluster persistence
//   - SourceStore: Source configuration persistence
//   - PullStateStore: Pull progress persistence
//   - ExclusionStore: File exclusion persistence
//   - CredentialsStore: Per-source credentials persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DocumentArchive: Secondary JSON export of extracted documents. Without
//     it, documents live only in the primary store.
//   - ClusterArchive: JSON export of the pattern cluster set. Without it,
//     clusters live only in the primary store.
//   - SchedulerStore: Background task state. Only needed when the scheduler
//     runs.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
