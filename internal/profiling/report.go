package profiling

import (
	"fmt"
	"strings"
	"time"
)

// Entry summarises one interval since the previous report.
// Count includes samples that were overwritten in the ring; the statistics
// cover the Samples most recent ones.
type Entry struct {
	Name    string
	Count   uint64
	Samples int
	Mean    time.Duration
	Min     time.Duration
	Max     time.Duration
}

// CounterEntry is a counter value since the previous report.
type CounterEntry struct {
	Name  string
	Value uint64
}

// Report is a read-and-cleared view of a Registry.
type Report struct {
	Entries  []Entry
	Counters []CounterEntry
}

// Empty reports whether nothing was recorded.
func (r Report) Empty() bool {
	return len(r.Entries) == 0 && len(r.Counters) == 0
}

// Entry looks up an interval entry by name.
func (r Report) Entry(name string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Counter looks up a counter value by name. Missing counters are zero.
func (r Report) Counter(name string) uint64 {
	for _, c := range r.Counters {
		if c.Name == name {
			return c.Value
		}
	}
	return 0
}

// String formats the report one line per entry as "name [count]: mean".
func (r Report) String() string {
	var sb strings.Builder
	for _, e := range r.Entries {
		fmt.Fprintf(&sb, "%s [%d]: %.3fms\n", e.Name, e.Count, ms(e.Mean))
	}
	for _, c := range r.Counters {
		fmt.Fprintf(&sb, "%s: %d\n", c.Name, c.Value)
	}
	return sb.String()
}

// ms converts a duration to fractional milliseconds.
func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
