package connectors

import (
	"fmt"

	"github.com/naveenbxyz/spexplorer/internal/connectors/filesystem"
	"github.com/naveenbxyz/spexplorer/internal/connectors/github"
	"github.com/naveenbxyz/spexplorer/internal/connectors/sharepoint"
	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

// RegisterBuiltins registers all built-in connector types on the factory.
func RegisterBuiltins(f *Factory) {
	registerFilesystem(f)
	registerSharePoint(f)
	registerGitHub(f)
}

func registerFilesystem(f *Factory) {
	f.Register(domain.ConnectorType{
		ID:           "filesystem",
		Name:         "Local Filesystem",
		Description:  "Pull spreadsheets from a local directory",
		RequiresAuth: false,
		ConfigKeys:   filesystemConfigKeys(),
	}, func(source domain.Source, _ *domain.Credentials) (driven.Connector, error) {
		cfg, err := filesystem.ParseConfig(source)
		if err != nil {
			return nil, err
		}
		return filesystem.New(source.ID, cfg), nil
	})
}

func filesystemConfigKeys() []domain.ConfigKey {
	return []domain.ConfigKey{
		{
			Key:         "path",
			Label:       "Directory Path",
			Description: "Path to the directory to scan for spreadsheets",
			Required:    true,
		},
		{
			Key:         "patterns",
			Label:       "File Patterns",
			Description: "Filename patterns to match (e.g., *.xlsx,*.xls)",
			Default:     "*.xlsx,*.xls",
		},
	}
}

func registerSharePoint(f *Factory) {
	f.Register(domain.ConnectorType{
		ID:           "sharepoint",
		Name:         "SharePoint",
		Description:  "Pull spreadsheets from a SharePoint document library",
		RequiresAuth: true,
		ConfigKeys:   sharepointConfigKeys(),
	}, func(source domain.Source, creds *domain.Credentials) (driven.Connector, error) {
		cfg, err := sharepoint.ParseConfig(source)
		if err != nil {
			return nil, err
		}
		if creds == nil {
			return nil, fmt.Errorf("%w: sharepoint requires credentials", domain.ErrAuthRequired)
		}
		return sharepoint.New(source.ID, cfg, creds)
	})
}

func sharepointConfigKeys() []domain.ConfigKey {
	return []domain.ConfigKey{
		{
			Key:         "site_url",
			Label:       "Site URL",
			Description: "Full site URL (e.g., https://acme.sharepoint.com/sites/Reports)",
			Required:    true,
		},
		{
			Key:         "folder_path",
			Label:       "Folder Path",
			Description: "Server-relative folder to pull from",
			Default:     "Shared Documents",
		},
		{
			Key:         "recursive",
			Label:       "Recursive",
			Description: "Descend into subfolders (true/false)",
			Default:     "true",
		},
		{
			Key:         "patterns",
			Label:       "File Patterns",
			Description: "Filename patterns to match (e.g., *.xlsx,*.xls)",
			Default:     "*.xlsx,*.xls",
		},
		{
			Key:         "download_dir",
			Label:       "Download Directory",
			Description: "Local directory to mirror downloads into",
		},
	}
}

func registerGitHub(f *Factory) {
	f.Register(domain.ConnectorType{
		ID:           "github",
		Name:         "GitHub",
		Description:  "Pull spreadsheets from a GitHub repository",
		RequiresAuth: true,
		ConfigKeys:   githubConfigKeys(),
	}, func(source domain.Source, creds *domain.Credentials) (driven.Connector, error) {
		cfg, err := github.ParseConfig(source)
		if err != nil {
			return nil, err
		}
		if creds == nil || creds.Token == nil || creds.Token.Token == "" {
			return nil, fmt.Errorf("%w: github requires a personal access token", domain.ErrAuthRequired)
		}
		return github.New(source.ID, cfg, creds.Token.Token), nil
	})
}

func githubConfigKeys() []domain.ConfigKey {
	return []domain.ConfigKey{
		{
			Key:         "repo",
			Label:       "Repository",
			Description: "Repository in owner/name form",
			Required:    true,
		},
		{
			Key:         "branch",
			Label:       "Branch",
			Description: "Branch to pull from (defaults to the repository default)",
		},
		{
			Key:         "path_prefix",
			Label:       "Path Prefix",
			Description: "Only pull files under this repository path",
		},
		{
			Key:         "patterns",
			Label:       "File Patterns",
			Description: "Filename patterns to match (e.g., *.xlsx,*.xls)",
			Default:     "*.xlsx,*.xls",
		},
		{
			Key:         "download_dir",
			Label:       "Download Directory",
			Description: "Local directory to mirror downloads into",
		},
	}
}
