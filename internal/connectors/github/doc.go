// Package github implements a connector that pulls spreadsheet files
// from a single GitHub repository.
//
// The connector lists the repository tree with the recursive Trees API,
// filters blob entries down to spreadsheet files (.xlsx, .xls) matching
// the configured patterns, and downloads each blob's raw bytes.
//
// # Architecture
//
// The connector follows the driven port pattern defined in [driven.Connector].
// It comprises the following components:
//
//   - Connector: orchestrates pull operations and manages lifecycle
//   - Client: handles GitHub API communication with rate limiting
//   - Config: parses and validates source configuration
//   - Cursor: tracks the tree SHA of the last completed pull
//
// # Authentication
//
// A personal access token (classic or fine-grained, created at
// github.com/settings/tokens) is required. The 'repo' scope is needed for
// private repositories. Authenticated requests get 5,000 API calls per
// hour; unauthenticated access is not supported.
//
// # Configuration
//
// Source configuration accepts the following keys:
//
//   - repo: repository in "owner/name" form. Required.
//   - branch: branch to pull from. Default: the repository default branch.
//   - path_prefix: only consider files under this directory.
//   - patterns: comma-separated filename patterns. Default: "*.xlsx,*.xls".
//
// # Rate Limiting
//
// The connector implements a dual-strategy rate limiting approach:
//
//  1. Proactive throttling: a token bucket limits requests to roughly
//     1.2 per second, staying well under the 5,000/hour quota.
//
//  2. Reactive handling: the connector tracks X-RateLimit-Remaining and
//     X-RateLimit-Reset headers and waits for the reset when the quota
//     runs low.
//
// # Pull Operations
//
// A full pull fetches the tree for the configured branch, downloads every
// matching blob, and reports the tree SHA as the new cursor. An
// incremental pull compares the current tree SHA against the cursor; when
// they differ, all matching files are re-emitted as updates. Watch mode
// is not supported (no webhook integration in a CLI).
package github
