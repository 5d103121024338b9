// Package json provides a file-based implementation of the DocumentArchive
// and ClusterArchive ports.
//
// Each document is written as an indented JSON file under
// documents/<country>/<id>.json, mirroring the primary index in a form
// that is directly greppable and diffable. A metadata_index.json at the
// archive root summarises every document (query columns plus the full
// field list) and can be rebuilt from the files on disk after manual
// edits or partial restores. The pattern cluster set is exported to
// pattern_clusters.json.
//
// # Data Location
//
// By default, the archive lives at ~/.spexplorer/extracted
package json
