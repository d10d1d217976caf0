// Package cms is a small typed client for the Strapi headless CMS.
//
// Three lookups are exposed: Single (single types such as the hero section),
// BySlug (one entry of a collection type) and List (a whole collection).
// An entry the CMS does not have is reported as ErrNotFound, which callers
// treat as "no entry" rather than as a failure. Anything else that goes wrong
// (transport, auth, 5xx, an undecodable payload) comes back as an error that
// must not be mistaken for absence.
package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/cleansite/internal/app/system/draftmode"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound reports that the CMS has no matching entry.
var ErrNotFound = errors.New("cms: entry not found")

// maxBody caps how much of a CMS response we read.
const maxBody = 4 << 20

// Error is a non-404 failure response from the CMS.
type Error struct {
	Status int
	Path   string
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cms: %s returned %d", e.Path, e.Status)
}

// Source is what content resolvers need from a CMS. *Client and Disabled
// both implement it.
type Source interface {
	Enabled() bool
	Single(ctx context.Context, apiID string, out any) error
	BySlug(ctx context.Context, collection, slug string, out any) error
	List(ctx context.Context, collection string, out any) error
}

// Config configures a Client.
type Config struct {
	BaseURL string        // e.g. https://cms.example.com
	Token   string        // API token sent as a Bearer credential
	Timeout time.Duration // per-request timeout (default 8s)
	Version int           // Strapi major version: 4 (default) or 5
}

// Client talks to Strapi's REST API.
type Client struct {
	base    *url.URL
	token   string
	version int
	http    *http.Client
	logger  *zap.Logger
}

// New builds a Client. An empty BaseURL is a configuration error; use
// Disabled when no CMS is configured.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("cms: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("cms: invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("cms: base URL must be http or https, got %q", base.Scheme)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	version := cfg.Version
	if version == 0 {
		version = 4
	}
	return &Client{
		base:    base,
		token:   cfg.Token,
		version: version,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// Enabled is always true for a constructed Client.
func (c *Client) Enabled() bool { return true }

// Single fetches a single-type entry (GET /api/{apiID}) into out.
func (c *Client) Single(ctx context.Context, apiID string, out any) error {
	q := c.baseQuery(ctx)
	data, err := c.get(ctx, "/api/"+url.PathEscape(apiID), q)
	if err != nil {
		return err
	}
	return decodeEntry(data, out)
}

// BySlug fetches the first entry of collection whose slug equals slug exactly.
func (c *Client) BySlug(ctx context.Context, collection, slug string, out any) error {
	if slug == "" {
		return ErrNotFound
	}
	q := c.baseQuery(ctx)
	q.Set("filters[slug][$eq]", slug)
	q.Set("pagination[pageSize]", "1")
	data, err := c.get(ctx, "/api/"+url.PathEscape(collection), q)
	if err != nil {
		return err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("cms: decode %s list: %w", collection, err)
	}
	if len(items) == 0 {
		return ErrNotFound
	}
	return decodeEntry(items[0], out)
}

// List fetches every entry of collection into out, which must point to a slice.
// An empty collection is reported as ErrNotFound.
func (c *Client) List(ctx context.Context, collection string, out any) error {
	q := c.baseQuery(ctx)
	q.Set("pagination[pageSize]", "100")
	data, err := c.get(ctx, "/api/"+url.PathEscape(collection), q)
	if err != nil {
		return err
	}

	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("cms: decode %s list: %w", collection, err)
	}
	if len(items) == 0 {
		return ErrNotFound
	}
	for i := range items {
		items[i] = stripIdentity(flatten(items[i]))
	}
	return remarshal(items, out)
}

// baseQuery carries populate plus the publication state for draft requests.
func (c *Client) baseQuery(ctx context.Context) url.Values {
	q := url.Values{}
	q.Set("populate", "*")
	if draftmode.Enabled(ctx) {
		if c.version >= 5 {
			q.Set("status", "draft")
		} else {
			q.Set("publicationState", "preview")
		}
	}
	return q
}

// get performs the request and returns the envelope's data member.
// A 404, a null data member, or an absent one all map to ErrNotFound.
func (c *Client) get(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("cms: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cms: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("cms: read %s: %w", path, err)
	}

	c.logger.Debug("cms request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("draft", draftmode.Enabled(ctx)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &Error{Status: resp.StatusCode, Path: path, Body: truncate(string(body), 512)}
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("cms: decode %s: %w", path, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, ErrNotFound
	}
	return env.Data, nil
}

// decodeEntry flattens one Strapi entry and decodes it into out.
func decodeEntry(raw json.RawMessage, out any) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("cms: decode entry: %w", err)
	}
	if v == nil {
		return ErrNotFound
	}
	return remarshal(stripIdentity(flatten(v)), out)
}

func remarshal(v any, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cms: re-encode entry: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("cms: decode entry: %w", err)
	}
	return nil
}

// flatten rewrites Strapi v4 shapes into plain objects:
// {"id":1,"attributes":{...}} becomes {"id":1,...} and a relation wrapper
// {"data": X} becomes X. v5 payloads are already flat and pass through.
func flatten(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if attrs, ok := t["attributes"].(map[string]any); ok {
			out := make(map[string]any, len(attrs)+1)
			for k, val := range attrs {
				out[k] = flatten(val)
			}
			if id, ok := t["id"]; ok {
				out["id"] = id
			}
			return out
		}
		if data, ok := t["data"]; ok && len(t) == 1 {
			return flatten(data)
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = flatten(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = flatten(val)
		}
		return out
	default:
		return v
	}
}

// stripIdentity removes the CMS's own identity and timestamp keys; they do not
// fit the local record IDs and are never ours to report.
func stripIdentity(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for _, k := range []string{"id", "documentId", "publishedAt", "locale"} {
		delete(m, k)
	}
	return m
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Disabled stands in for the CMS when none is configured.
// Every lookup reports ErrNotFound.
type Disabled struct{}

// Enabled is always false.
func (Disabled) Enabled() bool { return false }

// Single always reports ErrNotFound.
func (Disabled) Single(context.Context, string, any) error { return ErrNotFound }

// BySlug always reports ErrNotFound.
func (Disabled) BySlug(context.Context, string, string, any) error { return ErrNotFound }

// List always reports ErrNotFound.
func (Disabled) List(context.Context, string, any) error { return ErrNotFound }
