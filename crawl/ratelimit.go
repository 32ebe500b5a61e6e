package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/instantmarqo"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

var _ instantmarqo.DomainLimiter = (*DomainLimiter)(nil)

// DefaultRequestsPerSecond is the per-domain extraction rate of the CLI.
const DefaultRequestsPerSecond = 2.0

// maxTrackedDomains bounds the limiters kept in memory. The least recently
// used domain loses its bucket first.
const maxTrackedDomains = 4096

// DomainLimiter provides per-domain rate limiting using token buckets.
// Requests to different domains proceed independently.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each domain, with no bursting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limiters, _ := lru.New[string, *rate.Limiter](maxTrackedDomains)
	return &DomainLimiter{
		limiters: limiters,
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters.Get(domain)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters.Add(domain, limiter)
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// waitForURL rate limits by the URL's root domain. A nil limiter never
// blocks.
func waitForURL(ctx context.Context, limiter instantmarqo.DomainLimiter, rawURL string) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx, instantmarqo.RootDomain(rawURL))
}
