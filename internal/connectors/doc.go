// Package connectors provides implementations of the Connector interface
// for the supported spreadsheet sources. Each connector knows how to list
// and download files from one source type (filesystem, sharepoint, github).
//
// The Factory holds the registry of connector types; RegisterBuiltins
// wires up the built-in set at startup.
package connectors
