// Package domain defines the core business entities for spexplorer.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CellValue: A typed spreadsheet cell value
//   - Grid: The merge-resolved logical view of one sheet
//   - Document: The structural extraction result for one file
//   - Section: A classified region with its typed payload
//   - DocumentRecord: A stored extraction result with file metadata
//   - Source: A configured spreadsheet origin
//   - RemoteFile: Opaque spreadsheet bytes from a connector
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
