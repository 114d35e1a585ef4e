package modrinth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the production Modrinth v2 API.
const DefaultBaseURL = "https://api.modrinth.com/v2"

// Client talks to the registry on behalf of a single compatibility target.
type Client struct {
	target     Target
	baseURL    string
	mirror     string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL points the client at a different API root, such as the
// staging registry or a test server.
func WithBaseURL(base string) Option {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(base, "/")
	}
}

// WithMirror rewrites file download URLs to mirror/<filename>.
func WithMirror(mirror string) Option {
	return func(cl *Client) {
		cl.mirror = strings.TrimRight(mirror, "/")
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// New creates a Client bound to target.
func New(target Target, opts ...Option) *Client {
	c := &Client{
		target:     target,
		baseURL:    DefaultBaseURL,
		userAgent:  "modsync",
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Target returns the compatibility target this client filters by.
func (c *Client) Target() Target {
	return c.target
}

// ResolveByHash returns the latest version compatible with the target for
// the project that owns the file with the given SHA-512 hash.
// Returns nil, nil when the registry does not know the hash or has no
// compatible version.
func (c *Client) ResolveByHash(hash string) (*Version, error) {
	const op = "resolve by hash"

	payload, err := json.Marshal(hashUpdateRequest{
		Loaders:      []string{c.target.Loader},
		GameVersions: []string{c.target.GameVersion},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding hash update request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/version_file/%s/update?algorithm=sha512", c.baseURL, url.PathEscape(hash))
	var v Version
	found, err := c.doJSON(op, http.MethodPost, endpoint, payload, &v)
	if err != nil || !found {
		return nil, err
	}
	c.rewriteFiles(&v)
	return &v, nil
}

// ListReleases returns the project's versions compatible with the target,
// newest first as ordered by the registry. projectID may be an id or slug.
// Returns nil, nil when the project is unknown or has no compatible version.
func (c *Client) ListReleases(projectID string) ([]Version, error) {
	const op = "list releases"

	q := url.Values{}
	q.Set("loaders", jsonArray(c.target.Loader))
	q.Set("game_versions", jsonArray(c.target.GameVersion))
	endpoint := fmt.Sprintf("%s/project/%s/version?%s", c.baseURL, url.PathEscape(projectID), q.Encode())

	var versions []Version
	found, err := c.doJSON(op, http.MethodGet, endpoint, nil, &versions)
	if err != nil || !found || len(versions) == 0 {
		return nil, err
	}
	for i := range versions {
		c.rewriteFiles(&versions[i])
	}
	return versions, nil
}

// SearchByName runs a free-text project search restricted to mods for the
// target and returns the project ids in the registry's relevance order.
// Returns nil, nil when nothing matches.
func (c *Client) SearchByName(text string) ([]string, error) {
	const op = "search"

	facets, err := json.Marshal([][]string{
		{"categories:" + c.target.Loader},
		{"versions:" + c.target.GameVersion},
		{"project_type:mod"},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding search facets: %w", err)
	}

	q := url.Values{}
	q.Set("query", text)
	q.Set("facets", string(facets))
	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, q.Encode())

	var resp searchResponse
	found, err := c.doJSON(op, http.MethodGet, endpoint, nil, &resp)
	if err != nil || !found || len(resp.Hits) == 0 {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		ids = append(ids, hit.ProjectID)
	}
	return ids, nil
}

// doJSON performs one request and decodes a 200 response into out.
// found is false for a 404.
func (c *Client) doJSON(op, method, endpoint string, payload []byte, out any) (found bool, err error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, networkError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, networkError(op, fmt.Errorf("reading response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return false, statusError(op, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, networkError(op, fmt.Errorf("parsing response JSON: %w", err))
	}
	return true, nil
}

// rewriteFiles points download URLs at the mirror when one is configured.
func (c *Client) rewriteFiles(v *Version) {
	if c.mirror == "" {
		return
	}
	for i := range v.Files {
		v.Files[i].URL = c.mirror + "/" + url.PathEscape(v.Files[i].Filename)
	}
}

func jsonArray(values ...string) string {
	b, _ := json.Marshal(values)
	return string(b)
}
