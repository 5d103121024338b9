// Package extractor implements the structural extraction engine.
//
// The engine converts one spreadsheet into a typed, structurally
// fingerprinted document in five stages:
//
//  1. Grid building: merged cells resolve to their top-left anchor value
//  2. Segmentation: blank-row runs split the sheet into candidate regions
//  3. Classification: each region is scored against four shape hypotheses
//  4. Materialization: regions become typed payloads (key-value, table,
//     complex-header table, or raw matrix)
//  5. Fingerprinting: the document's structural skeleton is hashed,
//     independent of cell values
//
// A parse is synchronous, allocates all state per call, and performs no
// I/O; the batch layer runs many parses concurrently without any
// synchronisation in here. A failure in one sheet never aborts its
// siblings: the sheet contributes an empty section list and a warning.
//
// # Import Rules
//
//   - Can Import: domain, ports/driven, standard library
//   - Cannot Import: adapters, connectors, services
package extractor
