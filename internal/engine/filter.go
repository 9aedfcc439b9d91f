package engine

import (
	"github.com/coffersTech/logcrunch/internal/model"
)

// LogFilter defines criteria for log-shaped records. Zero values mean
// "no constraint"; supplied predicates are AND-combined.
type LogFilter struct {
	// MinLevel admits records whose severity rank is at least the rank
	// of this level. Empty (rank 0) admits everything, including
	// records with an unrecognized level string.
	MinLevel string `json:"min_level,omitempty"`

	// MinDurationMS requires duration_ms to be present AND >= the
	// threshold; a record without a duration fails the predicate.
	MinDurationMS *float64 `json:"min_duration_ms,omitempty"`

	// StatusCodes, when non-empty, requires status_code to be present
	// AND a member of the set. An empty set is a no-op.
	StatusCodes []int `json:"status_codes,omitempty"`
}

// Match reports whether one entry satisfies every supplied predicate.
func (f LogFilter) Match(e model.LogEntry) bool {
	if model.LevelRank(e.Level) < model.LevelRank(f.MinLevel) {
		return false
	}
	if f.MinDurationMS != nil {
		if e.DurationMS == nil || *e.DurationMS < *f.MinDurationMS {
			return false
		}
	}
	if len(f.StatusCodes) > 0 {
		if e.StatusCode == nil {
			return false
		}
		found := false
		for _, code := range f.StatusCodes {
			if code == *e.StatusCode {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// RecordFilter defines criteria for generic records, same presence and
// comparison semantics as LogFilter.
type RecordFilter struct {
	// Category, when non-empty, requires exact category equality.
	Category string `json:"category,omitempty"`

	// MinValue admits records whose value is >= the threshold.
	MinValue *float64 `json:"min_value,omitempty"`
}

// Match reports whether one record satisfies every supplied predicate.
func (f RecordFilter) Match(r model.DataRecord) bool {
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.MinValue != nil && r.Value < *f.MinValue {
		return false
	}
	return true
}

// FilterLogs returns the subsequence of entries matching the filter,
// preserving input order. Matching runs as a parallel chunked pass;
// survivors are concatenated in index order afterwards.
func FilterLogs(entries []model.LogEntry, filter LogFilter, opts Options) []model.LogEntry {
	keep := matchAll(len(entries), opts, func(i int) bool { return filter.Match(entries[i]) })
	out := make([]model.LogEntry, 0, len(entries))
	for i, k := range keep {
		if k {
			out = append(out, entries[i])
		}
	}
	return out
}

// FilterRecords returns the subsequence of records matching the filter,
// preserving input order.
func FilterRecords(records []model.DataRecord, filter RecordFilter, opts Options) []model.DataRecord {
	keep := matchAll(len(records), opts, func(i int) bool { return filter.Match(records[i]) })
	out := make([]model.DataRecord, 0, len(records))
	for i, k := range keep {
		if k {
			out = append(out, records[i])
		}
	}
	return out
}

// matchAll evaluates a predicate for every index in parallel chunks.
func matchAll(n int, opts Options, match func(i int) bool) []bool {
	if n == 0 {
		return nil
	}
	keep := make([]bool, n)
	reduceChunks(n, opts.workers(), func(start, end int) struct{} {
		for i := start; i < end; i++ {
			keep[i] = match(i)
		}
		return struct{}{}
	})
	return keep
}
