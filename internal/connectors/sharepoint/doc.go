// Package sharepoint implements a connector that pulls spreadsheet files
// from a SharePoint document library via the REST API.
//
// The connector lists folders with GetFolderByServerRelativeUrl, expands
// list item metadata for each file, and downloads content through the
// /$value endpoint. Folder traversal is recursive by default.
//
// # Architecture
//
// The connector follows the driven port pattern defined in [driven.Connector].
// It comprises the following components:
//
//   - Connector: orchestrates pull operations and manages lifecycle
//   - Client: handles SharePoint REST communication with rate limiting
//   - Config: parses and validates source configuration
//
// # Authentication
//
// Two authentication methods are supported:
//
//   - App registration (client credentials): an Azure AD app granted
//     site access. Tokens are obtained from the legacy ACS endpoint
//     accounts.accesscontrol.windows.net using the SharePoint principal
//     resource and refreshed automatically.
//
//   - Bearer token: a pre-acquired access token presented as-is. The
//     caller is responsible for its lifetime.
//
// # Configuration
//
// Source configuration accepts the following keys:
//
//   - site_url: full site URL, e.g. https://acme.sharepoint.com/sites/Reports.
//     Required.
//   - folder_path: server-relative folder to pull from, e.g.
//     "/sites/Reports/Shared Documents/Clients". Paths without a leading
//     slash are resolved against the site path. Default: "Shared Documents".
//   - recursive: descend into subfolders ("true"/"false"). Default: true.
//   - patterns: comma-separated filename patterns. Default: "*.xlsx,*.xls".
//
// # Pull Operations
//
// A full pull walks the folder tree, downloads every matching file, and
// reports the highest TimeLastModified seen as the new cursor. An
// incremental pull re-walks the tree and emits only files modified after
// the cursor. Watch mode is not supported (no change notifications over
// plain REST).
package sharepoint
