package tmi

import (
	"sync"
	"time"
)

const (
	sendWindow = 30 * time.Second
	joinWindow = 10 * time.Second
)

// clockFunc returns the current time in unix milliseconds. Overridable so
// ratelimit_test.go can drive the governor deterministically instead of
// racing wall-clock time; production uses time.Now().UnixMilli() per the
// Timestamp-source Open Question resolution in SPEC_FULL.md.
type clockFunc func() int64

func systemClockMillis() int64 {
	return time.Now().UnixMilli()
}

// governor implements spec.md §4.A: sliding-window accounting for sends
// (per-channel or global scope, with moderator uplift) and joins, with
// atomic decide-and-record semantics under a single mutex. Grounded on the
// teacher's own mutex-guarded-counters idiom (helix/client.go's rate
// limiting for the Helix REST client) but with a different, sliding-window
// algorithm — see DESIGN.md for why golang.org/x/time/rate (available
// elsewhere in the pack) does not fit.
type governor struct {
	mu     sync.Mutex
	clock  clockFunc
	global bool

	normalLimit int
	modLimit    int
	joinLimit   int

	sends map[string][]int64 // channel -> ascending send timestamps (ms)
	joins []int64            // ascending join-attempt timestamps (ms)
}

func newGovernor(normalLimit, modLimit, joinLimit int, global bool, clock clockFunc) *governor {
	if clock == nil {
		clock = systemClockMillis
	}
	return &governor{
		clock:       clock,
		global:      global,
		normalLimit: normalLimit,
		modLimit:    modLimit,
		joinLimit:   joinLimit,
		sends:       make(map[string][]int64),
	}
}

// trim drops entries older than now-window from ts, returning the
// retained slice. An entry exactly at now-window is expired (spec.md §8:
// "strict < comparison against elapsed").
func trim(ts []int64, now int64, window time.Duration) []int64 {
	cutoff := now - window.Milliseconds()
	i := 0
	for i < len(ts) && ts[i] <= cutoff {
		i++
	}
	if i == 0 {
		return ts
	}
	return append(ts[:0:0], ts[i:]...)
}

// MaySend implements spec.md §4.A's may_send. The append-on-success is
// performed under the same lock as the count, so concurrent callers never
// observe or create an over-quota window (spec.md §8 invariant 2).
func (g *governor) MaySend(channel string, isModerator bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock()
	g.sends[channel] = trim(g.sends[channel], now, sendWindow)

	if g.global {
		total := 0
		for ch, ts := range g.sends {
			g.sends[ch] = trim(ts, now, sendWindow)
			total += len(g.sends[ch])
		}
		if total >= g.modLimit {
			return false
		}
		if total >= g.normalLimit && !isModerator {
			return false
		}
		g.sends[channel] = append(g.sends[channel], now)
		return true
	}

	limit := g.normalLimit
	if isModerator {
		limit = g.modLimit
	}
	if len(g.sends[channel]) < limit {
		g.sends[channel] = append(g.sends[channel], now)
		return true
	}
	return false
}

// MayJoin implements spec.md §4.A's may_join over the single join ledger.
func (g *governor) MayJoin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock()
	g.joins = trim(g.joins, now, joinWindow)
	if len(g.joins) < g.joinLimit {
		g.joins = append(g.joins, now)
		return true
	}
	return false
}
