package ghost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// AdminAPIPath is the Admin API root relative to the site URL.
	AdminAPIPath = "/ghost/api/admin"
	// AcceptVersion pins the Admin API version requested.
	AcceptVersion = "v5.0"

	FormatMobiledoc = "mobiledoc"
	FormatHTML      = "html"
)

// Credentials identify a Ghost site and its Admin API key.
type Credentials struct {
	SiteURL     string
	AdminAPIKey string
}

// Complete reports whether both the site URL and the key are set.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.SiteURL) != "" && strings.TrimSpace(c.AdminAPIKey) != ""
}

// Tag is a post tag reference by name.
type Tag struct {
	Name string `json:"name"`
}

// Post is the outbound post payload. Nullable fields are always sent.
type Post struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Status  string `json:"status"`
	Excerpt string `json:"excerpt"`
	// CustomExcerpt is the writable excerpt field on current Ghost versions.
	CustomExcerpt string  `json:"custom_excerpt,omitempty"`
	Tags          []Tag   `json:"tags"`
	FeatureImage  *string `json:"feature_image"`
	CanonicalURL  *string `json:"canonical_url"`
	Visibility    string  `json:"visibility"`
	PublishedAt   *string `json:"published_at,omitempty"`
	HTML          string  `json:"html,omitempty"`
	Mobiledoc     string  `json:"mobiledoc,omitempty"`
}

// Result is what Ghost returns for a created or updated post.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	URL    string `json:"url,omitempty"`
	Title  string `json:"title,omitempty"`
}

type postsEnvelope struct {
	Posts []Post `json:"posts"`
}

type resultEnvelope struct {
	Posts []Result `json:"posts"`
}

// Client is a minimal Ghost Admin API client.
type Client struct {
	creds Credentials
	http  *http.Client
	now   func() time.Time
}

// New creates a new Ghost client.
// SiteURL should be like "https://blog.example.com" (no trailing slash needed).
func New(creds Credentials, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	creds.SiteURL = strings.TrimRight(strings.TrimSpace(creds.SiteURL), "/")
	return &Client{
		creds: creds,
		http:  &http.Client{Timeout: timeout},
		now:   time.Now,
	}
}

// WithHTTPClient returns a copy using hc for transport.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c2 := *c
	if hc != nil {
		c2.http = hc
	}
	return &c2
}

// WithClock returns a copy minting tokens with now.
func (c *Client) WithClock(now func() time.Time) *Client {
	c2 := *c
	if now != nil {
		c2.now = now
	}
	return &c2
}

func (c *Client) baseURL() string {
	return c.creds.SiteURL + AdminAPIPath
}

// VerifyConnection checks the credentials against the site endpoint.
// It returns false without error when the credentials are incomplete, and an
// error when they are present but rejected or unusable.
func (c *Client) VerifyConnection(ctx context.Context) (bool, error) {
	if c == nil {
		return false, errors.New("nil ghost client")
	}
	if !c.creds.Complete() {
		return false, nil
	}
	status, _, err := c.do(ctx, http.MethodGet, c.baseURL()+"/site/", nil)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

// CreatePost creates a new post.
func (c *Client) CreatePost(ctx context.Context, post Post) (Result, error) {
	if c == nil {
		return Result{}, errors.New("nil ghost client")
	}
	return c.sendPost(ctx, http.MethodPost, c.baseURL()+"/posts/", post)
}

// UpdatePost updates the post with the given id.
func (c *Client) UpdatePost(ctx context.Context, id string, post Post) (Result, error) {
	if c == nil {
		return Result{}, errors.New("nil ghost client")
	}
	if strings.TrimSpace(id) == "" {
		return Result{}, errors.New("empty post id")
	}
	return c.sendPost(ctx, http.MethodPut, c.baseURL()+"/posts/"+url.PathEscape(id)+"/", post)
}

func (c *Client) sendPost(ctx context.Context, method, endpoint string, post Post) (Result, error) {
	body, err := json.Marshal(postsEnvelope{Posts: []Post{post}})
	if err != nil {
		return Result{}, err
	}
	if post.HTML != "" {
		endpoint += "?source=html"
	}
	_, respBody, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return Result{}, err
	}
	var out resultEnvelope
	if err := json.Unmarshal(respBody, &out); err != nil {
		return Result{}, fmt.Errorf("decode posts response: %w", err)
	}
	if len(out.Posts) == 0 {
		return Result{}, errors.New("posts response is empty")
	}
	return out.Posts[0], nil
}

// do sends one request with a freshly minted token and returns the status
// and body of a successful response.
func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (int, []byte, error) {
	token, err := NewAdminToken(c.creds.AdminAPIKey, c.now())
	if err != nil {
		return 0, nil, err
	}
	var rd io.Reader = http.NoBody
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Version", AcceptVersion)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("ghost: request failed", "method", method, "url", endpoint, "err", err)
		return 0, nil, newNetworkError(method, endpoint, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, newNetworkError(method, endpoint, err)
	}
	slog.Debug("ghost: request done", "method", method, "url", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))
	if resp.StatusCode >= 400 {
		return resp.StatusCode, b, parseAPIError(resp.StatusCode, b)
	}
	return resp.StatusCode, b, nil
}
