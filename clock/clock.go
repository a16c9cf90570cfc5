// Package clock provides aligned tickers.
// An aligned ticker is a channel of time.Time "ticks" similar to time.Ticker,
// but the ticks are even multiples of the requested period, and are delivered
// as shortly as possible after the clock reaching these timestamps.
// For example, with period=10s, the ticker ticks shortly after the passing of a unix
// timestamp that is a multiple of 10s, and the values returned are always these multiples.
// The tickers stop, and their channel is closed, when the given context is done.
package clock

import (
	"context"
	"time"
)

// Next returns the first multiple of period after now
func Next(now time.Time, period time.Duration) time.Time {
	nsec := (now.UnixNano() / int64(period)) * int64(period)
	return time.Unix(0, nsec).Add(period)
}

// AlignedTickLossy returns an aligned ticker that may drop ticks
// (if the consumer is slow or the clock jumps forward)
func AlignedTickLossy(ctx context.Context, period time.Duration) <-chan time.Time {
	c := make(chan time.Time)
	go func() {
		defer close(c)
		timer := time.NewTimer(0)
		<-timer.C
		for {
			ideal := Next(time.Now(), period)
			timer.Reset(time.Until(ideal))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			select {
			case c <- ideal:
			default:
			}
		}
	}()
	return c
}

// AlignedTickLossless returns an aligned ticker that waits for slow receivers,
// and backfills later as necessary to publish any pending ticks, at possibly
// a much more aggressive schedule. (keeps ticking until fully caught up)
// Note: clock jumps may still result in dropped ticks.
func AlignedTickLossless(ctx context.Context, period time.Duration) <-chan time.Time {
	c := make(chan time.Time)
	next := Next(time.Now(), period)
	go func() {
		defer close(c)
		timer := time.NewTimer(time.Until(next))
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			// handle catch up / backfill, if the consumer has run behind the real clock
			for !next.After(time.Now()) {
				select {
				case c <- next:
				case <-ctx.Done():
					return
				}
				next = next.Add(period)
			}
			timer.Reset(time.Until(next))
		}
	}()
	return c
}
