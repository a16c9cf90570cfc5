package stats

import "sync/atomic"

// improveIf stores candidate at loc as long as better(current, candidate) holds.
// In case of a race where another routine updates loc concurrently, we re-read
// and re-evaluate: we only retry while our candidate still improves on what is there.
// Once all concurrent callers have returned, loc holds the best value passed into any of them.
// This is lock-free but not wait-free: a caller may retry as often as it loses the race.
func improveIf(loc *int32, candidate int32, better func(cur, cand int32) bool) {
	cur := atomic.LoadInt32(loc)
	for better(cur, candidate) {
		if atomic.CompareAndSwapInt32(loc, cur, candidate) {
			return
		}
		cur = atomic.LoadInt32(loc)
	}
}

// lower is the improvement predicate for a minimum
func lower(cur, cand int32) bool {
	return cur > cand
}

// higher is the improvement predicate for a maximum
func higher(cur, cand int32) bool {
	return cur < cand
}
