// Package profiling is a lightweight per-conversion timer: every
// pipeline stage wraps its body in defer profiling.Track("name")(), and
// a finished GraphToFEQ call can be inspected with Snapshot/Report to
// see where the time went. Adapted from the teacher's per-frame render
// profiler (internal/profiling in the teacher repo) — the same
// accumulate-by-name, reset-before-the-next-run shape — but rescoped
// from one render frame to one conversion, and with its two top-N
// entry points (TopN / TopNCurrentFrame, a leftover distinction from a
// profiler that also tracked an all-time total) collapsed into a
// single TopN plus a Report that lists stages in the fixed pipeline
// order cmd/feqgen's -profile flag prints, rather than only by
// duration.
package profiling

import (
	"maps"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	mu     sync.Mutex
	totals = make(map[string]time.Duration)
)

// Stages lists the conversion pipeline steps in the order GraphToFEQ
// runs them. Report walks this list instead of sorting by duration, so
// its output reads as a trace of the pipeline rather than a leaderboard
// — and a stage that a particular graph never reaches (bnp.Build on a
// junction-less graph, for instance) is simply absent rather than
// buried at the bottom.
var Stages = []string{
	"bnp.Build",
	"branch.InitBranchDegree",
	"branch.Branch2Face",
	"chainframe.Val2NodesToBoxes",
	"bridge.Run",
	"subdivide.QuadMeshLeaves",
	"feq.convert",
}

// Report formats every Stages entry that recorded time, in pipeline
// order, followed by the grand total. Example:
// "bnp.Build:1.2ms, bridge.Run:0.4ms, feq.convert:2.1ms, total:3.7ms"
func Report() string {
	ss := Snapshot()
	parts := make([]string, 0, len(Stages)+1)
	for _, name := range Stages {
		if d, ok := ss[name]; ok && d > 0 {
			parts = append(parts, name+":"+formatMs(float64(d.Microseconds())/1000.0))
		}
	}
	parts = append(parts, "total:"+formatMs(float64(Total().Microseconds())/1000.0))
	return strings.Join(parts, ", ")
}

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("bnp.Build")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		totals[name] += d
		mu.Unlock()
	}
}

// Reset clears current totals. Call at the start of each conversion so
// consecutive GraphToFEQ calls don't accumulate into one another.
func Reset() {
	mu.Lock()
	for k := range totals {
		delete(totals, k)
	}
	mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(totals))
	maps.Copy(out, totals)
	return out
}

// Total returns the sum of all tracked durations.
func Total() time.Duration {
	ss := Snapshot()
	var sum time.Duration
	for _, v := range ss {
		sum += v
	}
	return sum
}

// SumWithPrefix returns the sum of durations whose names start with any of the given prefixes.
func SumWithPrefix(prefixes ...string) time.Duration {
	ss := Snapshot()
	var sum time.Duration
	for k, v := range ss {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				sum += v
				break
			}
		}
	}
	return sum
}

// Add adds an arbitrary duration under the given name to the current totals.
func Add(name string, d time.Duration) {
	if d <= 0 {
		return
	}
	mu.Lock()
	totals[name] += d
	mu.Unlock()
}

// TopN formats the N heaviest durations from the current totals,
// regardless of pipeline order — the complement to Report, for when
// what matters is which stage was slowest rather than the order stages
// ran in. Example: "bnp.Build:4.2ms, bridge.Run:2.1ms"
func TopN(n int) string {
	mu.Lock()
	defer mu.Unlock()

	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(totals))
	for k, v := range totals {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].dur > list[j].dur })
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ms := float64(list[i].dur.Microseconds()) / 1000.0
		parts = append(parts, list[i].name+":"+formatMs(ms))
	}
	return strings.Join(parts, ", ")
}

func formatMs(ms float64) string {
	// keep one decimal for readability
	return trimTrailingZerosF(ms) + "ms"
}

func trimTrailingZerosF(f float64) string {
	// Format with one decimal place; drop .0 if integer.
	// Avoid fmt to keep this tiny; manual logic is fine here.
	whole := int64(f)
	frac := int64((f-float64(whole))*10.0 + 0.0001)
	if frac <= 0 {
		return itoa(whole)
	}
	return itoa(whole) + "." + itoa(frac)
}

func itoa(i int64) string {
	if i == 0 {
		return "0"
	}
	neg := false
	if i < 0 {
		neg = true
		i = -i
	}
	buf := make([]byte, 0, 20)
	for i > 0 {
		d := i % 10
		buf = append(buf, byte('0'+d))
		i /= 10
	}
	// reverse
	for l, r := 0, len(buf)-1; l < r; l, r = l+1, r-1 {
		buf[l], buf[r] = buf[r], buf[l]
	}
	if neg {
		return "-" + string(buf)
	}
	return string(buf)
}
