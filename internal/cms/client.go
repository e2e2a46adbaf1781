package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no source holds a record for the requested slug.
var ErrNotFound = errors.New("cms: not found")

const (
	defaultContentDir  = "content"
	defaultCacheTTL    = 5 * time.Minute
	defaultHTTPTimeout = 5 * time.Second
	homeSlug           = "home"
	maxPayloadBytes    = 2 << 20
)

var (
	tracer = otel.Tracer("github.com/rusbers/iannabeauty/internal/cms")
	meter  = otel.Meter("github.com/rusbers/iannabeauty/internal/cms")
)

// Options configures a Client.
type Options struct {
	// BaseURL of the remote CMS. Empty disables remote fetches.
	BaseURL    string
	ContentDir string
	CacheTTL   time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client loads page records from the remote CMS, falling back to local markdown documents.
type Client struct {
	baseURL    string
	contentDir string
	http       *http.Client
	cache      *cache.Cache
	logger     *zap.Logger

	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
}

// New constructs a Client. Zero values in opts fall back to sensible defaults.
func New(opts Options) *Client {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		http:    httpClient,
		cache:   cache.New(ttl, 2*ttl),
		logger:  logger.Named("cms"),
	}
	c.SetContentDir(opts.ContentDir)
	c.cacheHits, _ = meter.Int64Counter("cms.cache.hits", metric.WithDescription("Record lookups served from cache"))
	c.cacheMisses, _ = meter.Int64Counter("cms.cache.misses", metric.WithDescription("Record lookups that reached a source"))
	return c
}

// SetContentDir configures the fallback directory for markdown pages.
func (c *Client) SetContentDir(dir string) {
	if c == nil {
		return
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultContentDir
	}
	c.contentDir = dir
}

// ContentDir returns the configured fallback directory.
func (c *Client) ContentDir() string {
	if c == nil || strings.TrimSpace(c.contentDir) == "" {
		return defaultContentDir
	}
	return c.contentDir
}

// GetRecord fetches the record published under slug. Leading and trailing slashes are ignored
// and the empty slug addresses the home document.
func (c *Client) GetRecord(ctx context.Context, slug string) (Record, error) {
	key, ok := sanitizeSlug(slug)
	if !ok {
		return Record{}, ErrNotFound
	}
	if v, found := c.cache.Get(key); found {
		c.count(ctx, c.cacheHits)
		return v.(Record).Clone(), nil
	}
	c.count(ctx, c.cacheMisses)

	rec, err := c.fetchRecord(ctx, key)
	if err != nil {
		return Record{}, err
	}
	c.cache.SetDefault(key, rec.Clone())
	return rec, nil
}

// Purge drops every cached record.
func (c *Client) Purge() {
	c.cache.Flush()
}

func (c *Client) fetchRecord(ctx context.Context, key string) (Record, error) {
	if c.baseURL != "" {
		rec, err := c.fetchRecordRemote(ctx, key)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("remote fetch failed, using local content",
				zap.String("slug", key),
				zap.Error(err),
			)
		}
	}
	return readRecordMarkdown(c.ContentDir(), key)
}

func (c *Client) fetchRecordRemote(ctx context.Context, key string) (rec Record, err error) {
	ctx, span := tracer.Start(ctx, "cms.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("cms.slug", key)),
	)
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	endpoint, err := url.JoinPath(c.baseURL, "content", key)
	if err != nil {
		return Record{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Record{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return Record{}, err
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode == http.StatusNotFound {
		return Record{}, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return Record{}, fmt.Errorf("cms: remote status %d for %s", resp.StatusCode, key)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadBytes)).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("cms: decode %s: %w", key, err)
	}
	return rec, nil
}

func (c *Client) count(ctx context.Context, counter metric.Int64Counter) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1)
}

// sanitizeSlug maps a request path onto a document key. It rejects traversal attempts.
func sanitizeSlug(slug string) (string, bool) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return homeSlug, true
	}
	if strings.Contains(slug, "..") || strings.ContainsRune(slug, '\\') {
		return "", false
	}
	if os.PathSeparator != '/' && strings.ContainsRune(slug, os.PathSeparator) {
		return "", false
	}
	return slug, true
}
