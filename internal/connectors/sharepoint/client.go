package sharepoint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
)

const (
	// sharePointPrincipal is the well-known app principal ID for
	// SharePoint Online.
	sharePointPrincipal = "00000003-0000-0ff1-ce00-000000000000"

	// acsTokenURL is the legacy Azure ACS token endpoint used by
	// app-only client-credentials auth.
	acsTokenURL = "https://accounts.accesscontrol.windows.net/%s/tokens/OAuth/2"

	// acceptVerbose requests the verbose odata JSON envelope.
	acceptVerbose = "application/json;odata=verbose"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Client wraps the SharePoint REST API with authentication and
// rate limiting.
type Client struct {
	siteURL     string
	http        *http.Client
	rateLimiter *RateLimiter
}

// File describes a file returned by a folder listing.
type File struct {
	Name              string
	ServerRelativeURL string
	Size              int64
	Modified          time.Time
	ModifiedBy        string
}

// Folder describes a subfolder returned by a folder listing.
type Folder struct {
	Name              string
	ServerRelativeURL string
	ItemCount         int
}

// NewClient creates a SharePoint REST client for the given site.
// App registrations authenticate through the ACS client-credentials
// grant; static tokens are presented as-is.
func NewClient(siteURL string, creds *domain.Credentials) (*Client, error) {
	parsed, err := url.Parse(siteURL)
	if err != nil || parsed.Host == "" {
		return nil, ErrConfigInvalidSiteURL
	}

	var httpClient *http.Client
	switch creds.Method() {
	case "client_credentials":
		cc := creds.Client
		conf := &clientcredentials.Config{
			ClientID:     fmt.Sprintf("%s@%s", cc.ClientID, cc.TenantID),
			ClientSecret: cc.ClientSecret,
			TokenURL:     fmt.Sprintf(acsTokenURL, cc.TenantID),
			EndpointParams: url.Values{
				"resource": {fmt.Sprintf("%s/%s@%s", sharePointPrincipal, parsed.Host, cc.TenantID)},
			},
			AuthStyle: oauth2.AuthStyleInParams,
		}
		httpClient = conf.Client(context.Background())
	case "token":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	default:
		return nil, domain.ErrAuthRequired
	}
	httpClient.Timeout = DefaultTimeout

	return &Client{
		siteURL:     strings.TrimRight(siteURL, "/"),
		http:        httpClient,
		rateLimiter: NewRateLimiter(),
	}, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// Validate checks connectivity and credentials by fetching the site's
// web metadata.
func (c *Client) Validate(ctx context.Context) error {
	resp, err := c.get(ctx, c.siteURL+"/_api/web")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// ListFiles lists the files directly inside a server-relative folder
// with their list item metadata expanded.
func (c *Client) ListFiles(ctx context.Context, folderPath string) ([]File, error) {
	listURL := fmt.Sprintf("%s/_api/web/GetFolderByServerRelativeUrl('%s')/Files?$expand=ListItemAllFields,ModifiedBy",
		c.siteURL, escapePath(folderPath))

	resp, err := c.get(ctx, listURL)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folderPath)
		}
		return nil, err
	}
	defer resp.Body.Close()

	var envelope struct {
		D struct {
			Results []struct {
				Name              string `json:"Name"`
				ServerRelativeURL string `json:"ServerRelativeUrl"`
				Length            string `json:"Length"`
				TimeLastModified  string `json:"TimeLastModified"`
				ModifiedBy        struct {
					Title string `json:"Title"`
				} `json:"ModifiedBy"`
			} `json:"results"`
		} `json:"d"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode file listing: %w", err)
	}

	files := make([]File, 0, len(envelope.D.Results))
	for _, r := range envelope.D.Results {
		// Edm.Int64 comes back as a string in verbose mode.
		size, _ := strconv.ParseInt(r.Length, 10, 64)
		modified, _ := time.Parse(time.RFC3339, r.TimeLastModified)
		files = append(files, File{
			Name:              r.Name,
			ServerRelativeURL: r.ServerRelativeURL,
			Size:              size,
			Modified:          modified,
			ModifiedBy:        r.ModifiedBy.Title,
		})
	}
	return files, nil
}

// ListFolders lists the subfolders directly inside a server-relative
// folder.
func (c *Client) ListFolders(ctx context.Context, folderPath string) ([]Folder, error) {
	listURL := fmt.Sprintf("%s/_api/web/GetFolderByServerRelativeUrl('%s')/Folders",
		c.siteURL, escapePath(folderPath))

	resp, err := c.get(ctx, listURL)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folderPath)
		}
		return nil, err
	}
	defer resp.Body.Close()

	var envelope struct {
		D struct {
			Results []struct {
				Name              string `json:"Name"`
				ServerRelativeURL string `json:"ServerRelativeUrl"`
				ItemCount         int    `json:"ItemCount"`
			} `json:"results"`
		} `json:"d"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode folder listing: %w", err)
	}

	folders := make([]Folder, 0, len(envelope.D.Results))
	for _, r := range envelope.D.Results {
		folders = append(folders, Folder{
			Name:              r.Name,
			ServerRelativeURL: r.ServerRelativeURL,
			ItemCount:         r.ItemCount,
		})
	}
	return folders, nil
}

// Download fetches the raw bytes of a file by its server-relative URL.
func (c *Client) Download(ctx context.Context, serverRelativeURL string) ([]byte, error) {
	downloadURL := fmt.Sprintf("%s/_api/web/GetFileByServerRelativeUrl('%s')/$value",
		c.siteURL, escapePath(serverRelativeURL))

	resp, err := c.get(ctx, downloadURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file content: %w", err)
	}
	return content, nil
}

// get performs a rate-limited GET returning the response on 200 and an
// APIError otherwise. Callers own the body on success.
func (c *Client) get(ctx context.Context, requestURL string) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", acceptVerbose)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sharepoint request: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		c.rateLimiter.RecordThrottle(retryAfter)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, newAPIError(resp)
	}

	return resp, nil
}

// newAPIError builds an APIError from a non-200 response, extracting the
// odata error message when present.
func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := http.StatusText(resp.StatusCode)
	var parsed struct {
		Error struct {
			Message struct {
				Value string `json:"value"`
			} `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message.Value != "" {
		message = parsed.Error.Message.Value
	}

	requestURL := ""
	if resp.Request != nil && resp.Request.URL != nil {
		requestURL = resp.Request.URL.String()
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		URL:        requestURL,
	}
}

// escapePath percent-encodes a server-relative path for embedding in a
// REST URL, keeping slashes. Embedded single quotes are doubled per the
// odata literal syntax.
func escapePath(p string) string {
	escaped := (&url.URL{Path: p}).EscapedPath()
	return strings.ReplaceAll(escaped, "'", "''")
}
