package linkpredict

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/logger"
)

// JSONStore is an optional shared backing store (Redis in production).
type JSONStore interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type CapabilityCacheOptions struct {
	// MaxAge expires a snapshot; 0 keeps it until Invalidate is called.
	MaxAge time.Duration
	Shared JSONStore
	// SharedKey defaults to "capabilities".
	SharedKey string
	Log       *logger.Logger
}

// CapabilityKey scopes a shared snapshot to one engine endpoint and database so
// services pointed at different engines never read each other's capabilities.
// Credentials in the URI are not part of the key.
func CapabilityKey(uri, database string) string {
	host := uri
	if u, err := url.Parse(uri); err == nil && u.Host != "" {
		host = u.Host
	} else if i := strings.LastIndex(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	if database == "" {
		database = "default"
	}
	return "capabilities:" + host + ":" + database
}

// CapabilityCache holds the last detected CapabilitySnapshot. It is injected into
// the orchestrator and can be invalidated explicitly, e.g. after an engine upgrade.
// Concurrent misses collapse into one detection.
type CapabilityCache struct {
	mu         sync.RWMutex
	snap       *CapabilitySnapshot
	storedAt   time.Time
	maxAge     time.Duration
	shared     JSONStore
	sharedKey  string
	group      singleflight.Group
	now        func() time.Time
	log        *logger.Logger
	detections int
}

func NewCapabilityCache(opts CapabilityCacheOptions) *CapabilityCache {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	key := opts.SharedKey
	if key == "" {
		key = "capabilities"
	}
	return &CapabilityCache{
		maxAge:    opts.MaxAge,
		shared:    opts.Shared,
		sharedKey: key,
		now:       time.Now,
		log:       log.With("component", "CapabilityCache"),
	}
}

// Peek returns the cached snapshot without detecting.
func (c *CapabilityCache) Peek() (CapabilitySnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil || c.expiredLocked() {
		return CapabilitySnapshot{}, false
	}
	return *c.snap, true
}

func (c *CapabilityCache) expiredLocked() bool {
	return c.maxAge > 0 && c.now().Sub(c.storedAt) >= c.maxAge
}

// Get returns the cached snapshot, falling back to the shared store and finally to detect.
func (c *CapabilityCache) Get(ctx context.Context, detect func(context.Context) CapabilitySnapshot) CapabilitySnapshot {
	if snap, ok := c.Peek(); ok {
		return snap
	}
	v, _, shared := c.group.Do("detect", func() (any, error) {
		if snap, ok := c.Peek(); ok {
			return snap, nil
		}
		if snap, ok := c.loadShared(ctx); ok {
			c.store(snap)
			return snap, nil
		}
		return c.detect(ctx, detect), nil
	})
	snap := v.(CapabilitySnapshot)
	if snap.Assumed && shared && ctx.Err() == nil {
		// The leader's detection may have failed on its own context; a live
		// caller gets its own attempt instead of inheriting the defaults.
		snap = c.detect(ctx, detect)
	}
	return snap
}

func (c *CapabilityCache) detect(ctx context.Context, detect func(context.Context) CapabilitySnapshot) CapabilitySnapshot {
	snap := detect(ctx)
	c.mu.Lock()
	c.detections++
	c.mu.Unlock()
	if snap.Assumed {
		// Permissive defaults are per-call; the next job retries detection.
		return snap
	}
	c.store(snap)
	c.saveShared(ctx, snap)
	return snap
}

// Put replaces the cached snapshot (local and shared).
func (c *CapabilityCache) Put(ctx context.Context, snap CapabilitySnapshot) {
	c.store(snap)
	c.saveShared(ctx, snap)
}

// Invalidate drops the cached snapshot so the next Get detects again.
func (c *CapabilityCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.snap = nil
	c.storedAt = time.Time{}
	c.mu.Unlock()
	if c.shared != nil {
		if err := c.shared.Delete(ctx, c.sharedKey); err != nil {
			c.log.Warn("shared capability invalidate failed (continuing)", "error", err)
		}
	}
}

// Detections counts how many times detect actually ran.
func (c *CapabilityCache) Detections() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.detections
}

func (c *CapabilityCache) store(snap CapabilitySnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := snap
	cp.AvailableProcedures = append([]string(nil), snap.AvailableProcedures...)
	c.snap = &cp
	c.storedAt = c.now()
}

func (c *CapabilityCache) loadShared(ctx context.Context) (CapabilitySnapshot, bool) {
	if c.shared == nil {
		return CapabilitySnapshot{}, false
	}
	var snap CapabilitySnapshot
	ok, err := c.shared.GetJSON(ctx, c.sharedKey, &snap)
	if err != nil {
		c.log.Warn("shared capability read failed (continuing)", "error", err)
		return CapabilitySnapshot{}, false
	}
	if !ok {
		return CapabilitySnapshot{}, false
	}
	if c.maxAge > 0 && !snap.DetectedAt.IsZero() && c.now().Sub(snap.DetectedAt) >= c.maxAge {
		return CapabilitySnapshot{}, false
	}
	return snap, true
}

func (c *CapabilityCache) saveShared(ctx context.Context, snap CapabilitySnapshot) {
	if c.shared == nil {
		return
	}
	if err := c.shared.SetJSON(ctx, c.sharedKey, snap, c.maxAge); err != nil {
		c.log.Warn("shared capability write failed (continuing)", "error", err)
	}
}
