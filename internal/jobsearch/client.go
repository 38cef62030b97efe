// Package jobsearch talks to the JSearch-style posting search API and shapes
// its results into Posting values for the matching pipeline.
package jobsearch

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultAPIURL    = "https://jsearch.p.rapidapi.com"
	defaultAPIHost   = "jsearch.p.rapidapi.com"
	defaultUserAgent = "comms-prospector (job search pipeline)"

	// The free API tier tolerates roughly one request per second.
	requestsPerSecond = 1
	requestBurst      = 1
)

type Client struct {
	// ctx is used for http requests only.
	ctx        context.Context
	apiKey     string
	logger     *zap.Logger
	limiter    *rate.Limiter
	cache      *searchCache
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	APIHost    string
}

// New creates a search client. A cache directory may be attached later with
// WithCacheDir; without one every Search hits the API.
func New(ctx context.Context, logger *zap.Logger, apiKey string) *Client {
	return &Client{
		ctx:    ctx,
		apiKey: apiKey,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		UserAgent: defaultUserAgent,
		APIURL:    defaultAPIURL,
		APIHost:   defaultAPIHost,
	}
}

// WithCacheDir enables the on-disk day cache for search results.
func (c *Client) WithCacheDir(dir string) *Client {
	c.cache = newSearchCache(dir)
	return c
}

// Search runs the query against the API, page by page, honoring the request
// rate limit. Cached results newer than the cache TTL short-circuit the
// request entirely.
func (c *Client) Search(params *SearchParams) (*Postings, error) {
	if c.cache != nil {
		if cached, ok := c.cache.get(params); ok {
			c.logger.Info("using cached search results", zap.Int("count", cached.Len()))
			return cached, nil
		}
	}

	postings, err := c.search(params)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.put(params, postings); err != nil {
			c.logger.Warn("saving search cache failed", zap.Error(err))
		}
	}

	return postings, nil
}

func (c *Client) getJSON(path string, q url.Values, target interface{}) error {
	if err := c.limiter.Wait(c.ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, c.APIURL+path, nil)
	if err != nil {
		return err
	}

	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.APIHost)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", "gzip")
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}
