// Package confluence is a minimal REST client for the pieces the exporter
// needs: listing the pages of a space, fetching a page's storage-format
// body, and retrieving attachments.
//
// All calls carry the request context and authenticate with HTTP Basic
// (username + API token).
package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Page identifies one page of a space.
type Page struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PageContent is a page body in storage format.
type PageContent struct {
	ID          string
	Title       string
	StorageHTML string
}

// Attachment describes one attachment of a page.
type Attachment struct {
	Title string `json:"title"`
	Links struct {
		Download string `json:"download"`
	} `json:"_links"`
}

// Config configures the client.
type Config struct {
	// BaseURL is the site root, e.g. "https://example.atlassian.net".
	// The REST API lives under <BaseURL>/wiki/rest/api.
	BaseURL  string
	Username string
	APIToken string

	// Timeout per HTTP request. Default: 30s.
	Timeout time.Duration
	// PageLimit is the pagination window for listing calls. Default: 100.
	PageLimit int
	// AttachmentLimit caps attachments listed per page. Default: 1000.
	AttachmentLimit int
	// UserAgent sent with requests.
	UserAgent string
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.PageLimit <= 0 {
		c.PageLimit = 100
	}
	if c.AttachmentLimit <= 0 {
		c.AttachmentLimit = 1000
	}
	if c.UserAgent == "" {
		c.UserAgent = "confmill/1.0"
	}
}

// Client talks to one Confluence site.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a Client.
func New(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Pages lists all current pages of a space, following pagination until a
// short result window signals the end.
func (c *Client) Pages(ctx context.Context, spaceKey string) ([]Page, error) {
	var pages []Page
	start := 0
	for {
		q := url.Values{
			"spaceKey": {spaceKey},
			"type":     {"page"},
			"status":   {"current"},
			"start":    {strconv.Itoa(start)},
			"limit":    {strconv.Itoa(c.cfg.PageLimit)},
		}
		var list struct {
			Results []Page `json:"results"`
		}
		if err := c.getJSON(ctx, "/content", q, &list); err != nil {
			return nil, fmt.Errorf("confluence: list pages of %s: %w", spaceKey, err)
		}
		pages = append(pages, list.Results...)
		if len(list.Results) < c.cfg.PageLimit {
			return pages, nil
		}
		start += c.cfg.PageLimit
	}
}

// PageBody fetches a page's storage-format body.
func (c *Client) PageBody(ctx context.Context, id string) (*PageContent, error) {
	q := url.Values{"expand": {"body.storage"}}
	var resp struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Body  struct {
			Storage struct {
				Value string `json:"value"`
			} `json:"storage"`
		} `json:"body"`
	}
	if err := c.getJSON(ctx, "/content/"+id, q, &resp); err != nil {
		return nil, fmt.Errorf("confluence: page %s: %w", id, err)
	}
	return &PageContent{
		ID:          resp.ID,
		Title:       resp.Title,
		StorageHTML: resp.Body.Storage.Value,
	}, nil
}

// Attachments lists a page's attachments.
func (c *Client) Attachments(ctx context.Context, id string) ([]Attachment, error) {
	q := url.Values{"limit": {strconv.Itoa(c.cfg.AttachmentLimit)}}
	var list struct {
		Results []Attachment `json:"results"`
	}
	if err := c.getJSON(ctx, "/content/"+id+"/child/attachment", q, &list); err != nil {
		return nil, fmt.Errorf("confluence: attachments of %s: %w", id, err)
	}
	return list.Results, nil
}

// Download streams an attachment's bytes to w. The link is the relative
// download link from the attachment listing.
func (c *Client) Download(ctx context.Context, link string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/wiki"+link, nil)
	if err != nil {
		return fmt.Errorf("confluence: new request: %w", err)
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("confluence: download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("confluence: download: http %d", resp.StatusCode)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("confluence: download: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	u := c.cfg.BaseURL + "/wiki/rest/api" + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	c.decorate(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.Username != "" || c.cfg.APIToken != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.APIToken)
	}
}
