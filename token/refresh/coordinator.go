package refresh

import (
	"context"
	"errors"
	"time"

	"github.com/nugudi/nugudi-gateway/internal/coalesce"
	"github.com/nugudi/nugudi-gateway/internal/metrics"
	"github.com/nugudi/nugudi-gateway/upstream"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds a coalesced refresh.
const DefaultTimeout = 10 * time.Second

const refreshKey = "refresh"

// Coordinator makes sure at most one refresh runs at a time for its owner.
// Concurrent callers share the in-flight result. State is per instance: the
// CLI holds one for the process, the server builds one per request.
type Coordinator struct {
	refresher Refresher
	group     *coalesce.Group[Result]
	scope     string
}

type CoordinatorOption func(*Coordinator)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.group = coalesce.New[Result](d)
	}
}

// WithScope labels metrics and logs with the execution context ("server", "client").
func WithScope(scope string) CoordinatorOption {
	return func(c *Coordinator) {
		c.scope = scope
	}
}

func NewCoordinator(refresher Refresher, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		refresher: refresher,
		group:     coalesce.New[Result](DefaultTimeout),
		scope:     "server",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh runs the refresh procedure or joins the one in flight. initiated
// reports whether this caller started the refresh.
func (c *Coordinator) Refresh(ctx context.Context) (result Result, initiated bool) {
	result, initiated, err := c.group.Do(ctx, refreshKey, func(ctx context.Context) (Result, error) {
		start := time.Now()
		res := c.refresher.Refresh(ctx)
		metrics.RefreshDuration.WithLabelValues(c.scope).Observe(time.Since(start).Seconds())
		if res.Success {
			metrics.RefreshTotal.WithLabelValues(c.scope, metrics.OutcomeSuccess).Inc()
		} else {
			metrics.RefreshTotal.WithLabelValues(c.scope, metrics.OutcomeFailure).Inc()
		}
		return res, nil
	})
	if !initiated {
		metrics.RefreshJoinedTotal.WithLabelValues(c.scope).Inc()
	}
	if err != nil {
		if errors.Is(err, coalesce.ErrTimeout) {
			metrics.RefreshTotal.WithLabelValues(c.scope, metrics.OutcomeTimeout).Inc()
		}
		log.Warn().Err(err).Str("scope", c.scope).Msg("Token refresh did not complete")
		return upstream.Failed("%v", err), initiated
	}
	return result, initiated
}
