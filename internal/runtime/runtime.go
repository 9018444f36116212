// Package runtime bounds concurrent request handling for the HTTP and MCP
// surfaces.
package runtime

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/camilodvr/censopueblos/config"
)

// Limits captures the concurrency guardrails configured for a server.
type Limits struct {
	MaxConcurrentRequests int
	OperationTimeout      time.Duration
	AcquireRequestTimeout time.Duration
}

// NewLimits initializes Limits, falling back to config defaults when values
// are unset.
func NewLimits(maxConcurrentRequests int) Limits {
	if maxConcurrentRequests <= 0 {
		maxConcurrentRequests = config.DefaultMaxConcurrentRequests
	}
	return Limits{
		MaxConcurrentRequests: maxConcurrentRequests,
		OperationTimeout:      config.DefaultOperationTimeout,
		AcquireRequestTimeout: config.DefaultAcquireRequestTimeout,
	}
}

// Controller coordinates the request semaphore shared by every transport.
type Controller struct {
	limits           Limits
	requestSemaphore *semaphore.Weighted
}

// NewController constructs a Controller backed by a weighted semaphore.
func NewController(limits Limits) *Controller {
	return &Controller{
		limits:           limits,
		requestSemaphore: semaphore.NewWeighted(int64(limits.MaxConcurrentRequests)),
	}
}

// AcquireRequest reserves capacity for an incoming request.
func (c *Controller) AcquireRequest(ctx context.Context) error {
	return c.requestSemaphore.Acquire(ctx, 1)
}

// ReleaseRequest frees previously-acquired request capacity.
func (c *Controller) ReleaseRequest() {
	c.requestSemaphore.Release(1)
}

// LimitsSnapshot exposes the configured guardrails for logging and discovery.
func (c *Controller) LimitsSnapshot() Limits {
	return c.limits
}
