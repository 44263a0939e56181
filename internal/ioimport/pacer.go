package ioimport

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// pacer keeps Wikidata requests polite. After a page is stored the
// next request waits at least delay, no matter how long the page took.
// The limiter caps how often requests start.
type pacer struct {
	delay   time.Duration
	limiter *rate.Limiter
	next    time.Time
}

func newPacer(delay time.Duration) *pacer {
	if delay <= 0 {
		return &pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &pacer{
		delay:   delay,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// pageDone starts the pause before the next page.
func (p *pacer) pageDone() {
	now := time.Now()
	r := p.limiter.ReserveN(now, 1)
	p.next = now.Add(max(p.delay, r.DelayFrom(now)))
}

// wait blocks until the pause is over. It returns an error only when
// ctx is done.
func (p *pacer) wait(ctx context.Context) error {
	d := time.Until(p.next)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
