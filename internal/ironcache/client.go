// Package ironcache is a read-only client for the IronCache HTTP API.
package ironcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"homeboy/internal/models"
)

// ErrItemNotFound is returned when the cache has no item under the key.
var ErrItemNotFound = errors.New("cache item not found")

// maxErrorBody bounds how much of an error response is kept in the error.
const maxErrorBody = 512

type Client struct {
	httpClient      *http.Client
	defaultEndpoint string
	timeout         time.Duration
}

// NewClient builds a client. defaultEndpoint is used when a dashboard config
// does not name its own cacheEndpointBase. A zero timeout means none.
func NewClient(httpClient *http.Client, defaultEndpoint string, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:      httpClient,
		defaultEndpoint: defaultEndpoint,
		timeout:         timeout,
	}
}

// ItemURL builds GET {base}/1/projects/{project}/caches/{cache}/items/{key}?oauth={token}.
func ItemURL(base string, cfg models.Config, key string) string {
	return fmt.Sprintf("%s/1/projects/%s/caches/%s/items/%s?oauth=%s",
		cfg.Endpoint(base),
		url.PathEscape(cfg.ProjectID),
		url.PathEscape(cfg.CacheName),
		url.PathEscape(key),
		url.QueryEscape(cfg.Token),
	)
}

// GetItem fetches one item. A 404 yields ErrItemNotFound.
func (c *Client) GetItem(ctx context.Context, cfg models.Config, key string) (models.CacheItem, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ItemURL(c.defaultEndpoint, cfg, key), nil)
	if err != nil {
		return models.CacheItem{}, fmt.Errorf("build request for %q: %w", key, err)
	}
	// the API answers 406 without it
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full URL, token included
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return models.CacheItem{}, fmt.Errorf("get item %q: %w", key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return models.CacheItem{}, fmt.Errorf("get item %q: %w", key, ErrItemNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return models.CacheItem{}, fmt.Errorf("get item %q: unexpected status %d: %s", key, resp.StatusCode, body)
	}

	var item models.CacheItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return models.CacheItem{}, fmt.Errorf("decode item %q: %w", key, err)
	}
	if item.Key == "" {
		item.Key = key
	}
	return item, nil
}
