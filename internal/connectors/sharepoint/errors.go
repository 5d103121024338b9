package sharepoint

import (
	"errors"
	"fmt"
)

// SharePoint-specific errors.
var (
	// ErrConfigMissingSiteURL indicates the "site_url" config key was not provided.
	ErrConfigMissingSiteURL = errors.New("sharepoint: site_url is required")

	// ErrConfigInvalidSiteURL indicates the site URL could not be parsed.
	ErrConfigInvalidSiteURL = errors.New("sharepoint: site_url is not a valid URL")

	// ErrFolderNotFound indicates the requested folder does not exist.
	ErrFolderNotFound = errors.New("sharepoint: folder not found")

	// ErrInvalidCursor indicates the cursor format is invalid.
	ErrInvalidCursor = errors.New("sharepoint: invalid cursor format")
)

// APIError represents a SharePoint REST error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sharepoint: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return errors.Is(err, ErrFolderNotFound)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsRateLimited checks if the error indicates throttling.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
