// Package manager implements the offline cache controller: a versioned,
// partitioned response cache with cache-first fetch, offline fallbacks, and
// pending-action replay.
package manager

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nowa-systems/nowa-go/internal/domain/entities/offline"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/interfaces"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/stores"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/types"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
)

// maxCachedBodyBytes caps what we are willing to hold per entry.
const maxCachedBodyBytes = 10 << 20

// Config carries the controller's static configuration.
type Config struct {
	OriginURL          string
	Version            string
	StaticPartition    string
	DynamicPartition   string
	ShellAssets        []string
	NavigationFallback string
}

// stagedInstall is a pre-populated static generation waiting for activation.
type stagedInstall struct {
	version string
	static  *types.Generation
}

// Controller owns the partition store and drives the install/activate/fetch
// lifecycle. Concurrent fetches are independent; racing writes to the same
// key are last-writer-wins by design.
type Controller struct {
	cfg     Config
	origin  *url.URL
	store   *stores.PartitionStore
	fetcher interfaces.Fetcher
	queue   interfaces.PendingQueue
	logger  *logging.ChanneledLogger

	mu      sync.RWMutex
	state   types.LifecycleState
	version string         // currently active version, empty until first activation
	waiting *stagedInstall // staged new version, nil when none
}

// NewController creates a cache controller for the given origin.
func NewController(cfg Config, fetcher interfaces.Fetcher, queue interfaces.PendingQueue, logger *logging.ChanneledLogger) (*Controller, error) {
	origin, err := url.Parse(cfg.OriginURL)
	if err != nil {
		return nil, fmt.Errorf("invalid origin URL %q: %w", cfg.OriginURL, err)
	}
	if origin.Scheme != "http" && origin.Scheme != "https" {
		return nil, fmt.Errorf("origin URL %q must be http(s)", cfg.OriginURL)
	}

	return &Controller{
		cfg:     cfg,
		origin:  origin,
		store:   stores.NewPartitionStore(logger),
		fetcher: fetcher,
		queue:   queue,
		logger:  logger,
	}, nil
}

// State returns the current lifecycle state.
func (c *Controller) State() types.LifecycleState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Version reports the qualified cache version string, e.g. "nowa-v1.0.0".
func (c *Controller) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return "nowa-" + c.version
}

// HasWaiting reports whether a staged version is waiting for activation.
func (c *Controller) HasWaiting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.waiting != nil
}

// Partitions reports entry counts per partition for the status surface.
func (c *Controller) Partitions() map[string]int {
	return c.store.EntryCounts()
}

// Store exposes the partition store to the cleanup worker.
func (c *Controller) Store() *stores.PartitionStore {
	return c.store
}

// Install pre-populates a static generation for the given version by
// fetching every shell asset. All-or-nothing: any failed asset aborts the
// install and the partially built generation is discarded, leaving whatever
// version was active before untouched.
func (c *Controller) Install(ctx context.Context, version string, assets []string) error {
	c.mu.Lock()
	c.state = types.StateInstalling
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Cache().Info("Installing cache version", "version", version, "assets", len(assets))
	}

	static := &types.Generation{
		Name:      c.cfg.StaticPartition,
		Version:   version,
		Entries:   make(map[string]*types.Entry),
		CreatedAt: time.Now().UTC(),
	}

	for _, asset := range assets {
		entry, err := c.fetchEntry(ctx, asset)
		if err != nil {
			c.mu.Lock()
			// Roll back to whatever state the previous version left us in
			if c.version != "" {
				c.state = types.StateActive
			} else {
				c.state = ""
			}
			c.mu.Unlock()
			return fmt.Errorf("install aborted: shell asset %s: %w", asset, err)
		}
		static.Put(entry)
	}

	c.mu.Lock()
	c.waiting = &stagedInstall{version: version, static: static}
	c.state = types.StateInstalled
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Cache().Info("Cache version installed", "version", version, "entries", static.Len())
	}
	return nil
}

// Activate promotes the staged install: stale generations from other
// versions are purged, the static generation is adopted, and a fresh dynamic
// partition is created. After activation the controller serves fetches for
// the new version.
func (c *Controller) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.waiting == nil {
		return fmt.Errorf("no installed version waiting for activation")
	}

	c.state = types.StateActivating
	version := c.waiting.version

	purged := c.store.PurgeOtherVersions(version)
	c.store.Adopt(c.waiting.static)
	c.store.Create(c.cfg.DynamicPartition, version)

	c.version = version
	c.waiting = nil
	c.state = types.StateActive

	if c.logger != nil {
		c.logger.Cache().Info("Cache version activated", "version", version, "purged", purged)
	}
	return nil
}

// SkipWaiting force-activates a staged version, the SKIP_WAITING message.
func (c *Controller) SkipWaiting() error {
	if !c.HasWaiting() {
		return fmt.Errorf("no waiting version to activate")
	}
	return c.Activate()
}

// FetchResult is what HandleFetch hands back to the HTTP layer.
type FetchResult struct {
	Entry     *types.Entry
	FromCache bool
	Fallback  bool // true when an offline fallback (shell doc or 503) was served
}

// HandleFetch runs the cache-first, network-fallback algorithm for a GET
// request. Non-GET requests go through PassThrough instead.
func (c *Controller) HandleFetch(ctx context.Context, req *http.Request) (*FetchResult, error) {
	if req.Method != http.MethodGet {
		return nil, fmt.Errorf("cache controller only handles GET, got %s", req.Method)
	}

	target := c.resolve(req.URL.RequestURI())
	key := types.EntryKey(http.MethodGet, target)

	if entry, partition, ok := c.store.Lookup(key); ok {
		if c.logger != nil {
			c.logger.Cache().Debug("Serving from cache", "key", key, "partition", partition)
		}
		return &FetchResult{Entry: entry.Clone(), FromCache: true}, nil
	}

	entry, err := c.fetchEntry(ctx, req.URL.RequestURI())
	if err != nil {
		return c.offlineFallback(req), nil
	}

	// Only successful same-origin responses are captured. Writes are
	// best-effort and never fail response delivery.
	if entry.Status == http.StatusOK {
		c.storeDynamic(entry)
	}

	return &FetchResult{Entry: entry}, nil
}

// PassThrough forwards a non-GET request to the origin unmodified. The cache
// is never consulted and the response is never stored.
func (c *Controller) PassThrough(ctx context.Context, req *http.Request) (*types.Entry, error) {
	target := c.resolve(req.URL.RequestURI())

	upstream, err := http.NewRequestWithContext(ctx, req.Method, target, req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to build pass-through request for %s: %w", target, err)
	}
	upstream.Header = req.Header.Clone()

	resp, err := c.fetcher.Do(upstream)
	if err != nil {
		return nil, fmt.Errorf("pass-through failed for %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read pass-through response for %s: %w", target, err)
	}

	return &types.Entry{
		Key:      types.EntryKey(req.Method, target),
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now().UTC(),
	}, nil
}

// ReplayPending drains the pending-action queue oldest-first, re-issuing
// each request. Succeeded actions are deleted; failed ones stay queued for
// the next trigger. Returns counts of drained and remaining actions.
func (c *Controller) ReplayPending(ctx context.Context) (drained, remaining int, err error) {
	actions, err := c.queue.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list pending actions: %w", err)
	}

	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			return drained, len(actions) - drained, err
		}

		if replayErr := c.replayAction(ctx, action); replayErr != nil {
			if c.logger != nil {
				c.logger.Sync().Warn("Pending action replay failed", "id", action.ID, "url", action.URL, "error", replayErr.Error())
			}
			continue
		}

		if delErr := c.queue.Delete(ctx, action.ID); delErr != nil {
			if c.logger != nil {
				c.logger.Sync().Error("Failed to delete replayed action", "id", action.ID, "error", delErr.Error())
			}
			continue
		}
		drained++
	}

	return drained, len(actions) - drained, nil
}

func (c *Controller) replayAction(ctx context.Context, action *offline.PendingAction) error {
	req, err := http.NewRequestWithContext(ctx, action.Method, action.URL, strings.NewReader(string(action.Body)))
	if err != nil {
		return fmt.Errorf("failed to build replay request: %w", err)
	}
	for k, v := range action.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.fetcher.Do(req)
	if err != nil {
		return fmt.Errorf("replay request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("replay rejected: %s", resp.Status)
	}
	return nil
}

// fetchEntry fetches a path (or absolute URL) from upstream and captures it.
func (c *Controller) fetchEntry(ctx context.Context, pathOrURL string) (*types.Entry, error) {
	target := c.resolve(pathOrURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}

	resp, err := c.fetcher.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed for %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCachedBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body for %s: %w", target, err)
	}

	return &types.Entry{
		Key:      types.EntryKey(http.MethodGet, target),
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now().UTC(),
	}, nil
}

// storeDynamic writes an entry into the active dynamic partition, if any.
func (c *Controller) storeDynamic(entry *types.Entry) {
	c.mu.RLock()
	version := c.version
	c.mu.RUnlock()
	if version == "" {
		return
	}

	gen, ok := c.store.Get(c.cfg.DynamicPartition + "-" + version)
	if !ok {
		if c.logger != nil {
			c.logger.Cache().Warn("Dynamic partition missing, cache write skipped", "version", version)
		}
		return
	}
	gen.Put(entry.Clone())
}

// offlineFallback serves the degraded response for an unreachable upstream:
// the cached shell document for navigations, a synthetic 503 otherwise.
func (c *Controller) offlineFallback(req *http.Request) *FetchResult {
	if isNavigation(req) {
		shellKey := types.EntryKey(http.MethodGet, c.resolve(c.cfg.NavigationFallback))
		if entry, _, ok := c.store.Lookup(shellKey); ok {
			if c.logger != nil {
				c.logger.Cache().Info("Serving shell fallback for navigation", "path", req.URL.Path)
			}
			return &FetchResult{Entry: entry.Clone(), FromCache: true, Fallback: true}
		}
	}

	header := make(http.Header)
	header.Set("Content-Type", "text/plain")
	return &FetchResult{
		Entry: &types.Entry{
			Key:      types.EntryKey(req.Method, req.URL.String()),
			Status:   http.StatusServiceUnavailable,
			Header:   header,
			Body:     []byte("Offline content not available"),
			StoredAt: time.Now().UTC(),
		},
		Fallback: true,
	}
}

// resolve turns a path into an absolute URL on the origin. Absolute http(s)
// URLs are kept as-is so third-party shell assets can be pre-cached.
func (c *Controller) resolve(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	ref, err := url.Parse(pathOrURL)
	if err != nil {
		return c.origin.String() + pathOrURL
	}
	return c.origin.ResolveReference(ref).String()
}

// isNavigation reports whether a request is a page navigation.
func isNavigation(req *http.Request) bool {
	if req.Header.Get("Sec-Fetch-Dest") == "document" {
		return true
	}
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}
