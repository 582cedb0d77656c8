// Package perf keeps a bounded in-memory history of request and query timings
// and aggregates it for the /admin/perf endpoint.
package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record.
type Entry struct {
	Kind EntryKind
	// Path is "METHOD /route/pattern" for requests and "Op STATEMENT table" for queries.
	Path       string
	StatusCode int // 0 for queries
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer of timing entries. When full, the
// oldest entry is overwritten. Aggregation happens only in Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector holding at most size entries.
// POST: size <= 0 falls back to DefaultRingSize
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when the buffer is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// Snapshot is the aggregated view served as JSON.
type Snapshot struct {
	TotalRecorded  int64      `json:"total_recorded"`
	Requests       int        `json:"requests"`
	ServerErrors   int        `json:"server_errors"`
	RequestP50Ms   float64    `json:"request_p50_ms"`
	RequestP95Ms   float64    `json:"request_p95_ms"`
	RequestP99Ms   float64    `json:"request_p99_ms"`
	Queries        int        `json:"queries"`
	QueryP95Ms     float64    `json:"query_p95_ms"`
	SlowestPaths   []PathStat `json:"slowest_paths"`
	SlowestQueries []PathStat `json:"slowest_queries"`
}

// PathStat aggregates timings for one route or statement label.
type PathStat struct {
	Path    string  `json:"path"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	TotalMs float64 `json:"total_ms"`
}

// series accumulates durations and per-path stats for one entry kind.
type series struct {
	durations []float64
	byPath    map[string]*PathStat
}

func (s *series) add(e Entry) {
	s.durations = append(s.durations, e.DurationMs)
	st, ok := s.byPath[e.Path]
	if !ok {
		st = &PathStat{Path: e.Path}
		s.byPath[e.Path] = st
	}
	st.Count++
	st.TotalMs += e.DurationMs
	st.MaxMs = max(st.MaxMs, e.DurationMs)
}

// top returns the n paths with the highest average duration.
func (s *series) top(n int) []PathStat {
	list := make([]PathStat, 0, len(s.byPath))
	for _, st := range s.byPath {
		st.AvgMs = st.TotalMs / float64(st.Count)
		list = append(list, *st)
	}
	slices.SortFunc(list, func(a, b PathStat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

// Snapshot aggregates entries recorded at or after since. Zero since means all.
// POST: SlowestPaths and SlowestQueries hold at most topN entries each
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := slices.Clone(c.entries)
	c.mu.Unlock()

	req := series{byPath: map[string]*PathStat{}}
	qry := series{byPath: map[string]*PathStat{}}
	snap := Snapshot{TotalRecorded: c.TotalRecorded()}

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		switch e.Kind {
		case KindRequest:
			req.add(e)
			if e.StatusCode >= 500 {
				snap.ServerErrors++
			}
		case KindQuery:
			qry.add(e)
		}
	}

	snap.Requests = len(req.durations)
	snap.Queries = len(qry.durations)
	snap.SlowestPaths = req.top(topN)
	snap.SlowestQueries = qry.top(topN)

	slices.Sort(req.durations)
	slices.Sort(qry.durations)
	snap.RequestP50Ms = percentile(req.durations, 50)
	snap.RequestP95Ms = percentile(req.durations, 95)
	snap.RequestP99Ms = percentile(req.durations, 99)
	snap.QueryP95Ms = percentile(qry.durations, 95)
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
