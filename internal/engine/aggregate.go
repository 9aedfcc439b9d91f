// Package engine reduces materialized record batches into statistics.
//
// Every operation is a pure function of its input batch: nothing is
// retained across calls, and every derived structure is a fresh value.
// Per-record passes run as chunked parallel reductions; counting and
// min/max merges are associative and commutative, while sums and
// percentiles are computed from a deterministically ordered collected
// sample so parallel and sequential runs produce identical results.
package engine

import (
	"errors"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/coffersTech/logcrunch/internal/model"
)

// ErrEmptyBatch signals that zero usable records were supplied to a
// statistics computation.
var ErrEmptyBatch = errors.New("no valid records in batch")

// Options controls the degree of parallelism. It never affects results.
type Options struct {
	// Workers is the number of reduction workers. Zero or negative
	// means runtime.GOMAXPROCS(0); 1 runs sequentially.
	Workers int
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// LogStats is an immutable statistics snapshot over a log-shaped batch.
type LogStats struct {
	TotalCount int `json:"total_count"`
	ErrorCount int `json:"error_count"`
	WarnCount  int `json:"warn_count"`
	InfoCount  int `json:"info_count"`
	DebugCount int `json:"debug_count"`

	AvgDurationMS float64 `json:"avg_duration_ms"`
	MinDurationMS float64 `json:"min_duration_ms"`
	MaxDurationMS float64 `json:"max_duration_ms"`
	P50DurationMS float64 `json:"p50_duration_ms"`
	P95DurationMS float64 `json:"p95_duration_ms"`
	P99DurationMS float64 `json:"p99_duration_ms"`

	// DurationSampleCount is the number of records that carried a
	// duration. When it is zero the duration fields above default to
	// 0.0, indistinguishable from a genuine zero-valued sample without
	// this counter.
	DurationSampleCount int `json:"duration_sample_count"`

	StatusCodeDistribution map[int]int `json:"status_code_distribution"`
	ErrorCountByCode       map[int]int `json:"error_count_by_code"`
}

// RecordStats is an immutable statistics snapshot over a generic batch.
type RecordStats struct {
	TotalCount   int     `json:"total_count"`
	TotalValue   float64 `json:"total_value"`
	AverageValue float64 `json:"average_value"`
	MinValue     float64 `json:"min_value"`
	MaxValue     float64 `json:"max_value"`

	P50Value float64 `json:"p50_value"`
	P95Value float64 `json:"p95_value"`
	P99Value float64 `json:"p99_value"`

	Categories map[string]int `json:"categories"`
}

// logPartial is one worker's share of the log reduction.
type logPartial struct {
	levelCounts [4]int
	statusDist  map[int]int
	errByCode   map[int]int
}

// ComputeLogStats reduces a batch of log entries into a LogStats
// snapshot. Fails with ErrEmptyBatch on an empty batch.
func ComputeLogStats(entries []model.LogEntry, opts Options) (*LogStats, error) {
	n := len(entries)
	if n == 0 {
		return nil, ErrEmptyBatch
	}

	// Durations are collected by index so the sample order (and with it
	// the floating-point sum) does not depend on scheduling.
	durSlots := make([]*float64, n)
	partials := reduceChunks(n, opts.workers(), func(start, end int) logPartial {
		p := logPartial{
			statusDist: make(map[int]int),
			errByCode:  make(map[int]int),
		}
		for i := start; i < end; i++ {
			e := entries[i]
			if model.IsValidLevel(e.Level) {
				p.levelCounts[model.LevelRank(e.Level)]++
			}
			if e.DurationMS != nil {
				durSlots[i] = e.DurationMS
			}
			if e.StatusCode != nil {
				code := *e.StatusCode
				p.statusDist[code]++
				if code >= 400 {
					p.errByCode[code]++
				}
			}
		}
		return p
	})

	stats := &LogStats{
		TotalCount:             n,
		StatusCodeDistribution: make(map[int]int),
		ErrorCountByCode:       make(map[int]int),
	}
	for _, p := range partials {
		stats.DebugCount += p.levelCounts[model.LevelDebug]
		stats.InfoCount += p.levelCounts[model.LevelInfo]
		stats.WarnCount += p.levelCounts[model.LevelWarn]
		stats.ErrorCount += p.levelCounts[model.LevelError]
		for code, c := range p.statusDist {
			stats.StatusCodeDistribution[code] += c
		}
		for code, c := range p.errByCode {
			stats.ErrorCountByCode[code] += c
		}
	}

	durations := make([]float64, 0, n)
	for _, d := range durSlots {
		if d != nil {
			durations = append(durations, *d)
		}
	}
	stats.DurationSampleCount = len(durations)
	if len(durations) > 0 {
		var sum float64
		for _, d := range durations {
			sum += d
		}
		sort.Float64s(durations)
		stats.AvgDurationMS = sum / float64(len(durations))
		stats.MinDurationMS = durations[0]
		stats.MaxDurationMS = durations[len(durations)-1]
		stats.P50DurationMS = nearestRank(durations, 0.50)
		stats.P95DurationMS = nearestRank(durations, 0.95)
		stats.P99DurationMS = nearestRank(durations, 0.99)
	}
	return stats, nil
}

// ComputeRecordStats reduces a batch of generic records into a
// RecordStats snapshot. Fails with ErrEmptyBatch on an empty batch.
func ComputeRecordStats(records []model.DataRecord, opts Options) (*RecordStats, error) {
	n := len(records)
	if n == 0 {
		return nil, ErrEmptyBatch
	}

	categoryPartials := reduceChunks(n, opts.workers(), func(start, end int) map[string]int {
		counts := make(map[string]int)
		for i := start; i < end; i++ {
			counts[records[i].Category]++
		}
		return counts
	})

	stats := &RecordStats{
		TotalCount: n,
		Categories: make(map[string]int),
	}
	for _, counts := range categoryPartials {
		for cat, c := range counts {
			stats.Categories[cat] += c
		}
	}

	// Sum in input order for a scheduling-independent result.
	values := make([]float64, n)
	var sum float64
	for i, r := range records {
		values[i] = r.Value
		sum += r.Value
	}
	sort.Float64s(values)
	stats.TotalValue = sum
	stats.AverageValue = sum / float64(n)
	stats.MinValue = values[0]
	stats.MaxValue = values[n-1]
	stats.P50Value = nearestRank(values, 0.50)
	stats.P95Value = nearestRank(values, 0.95)
	stats.P99Value = nearestRank(values, 0.99)
	return stats, nil
}

// nearestRank returns the value at index floor(n*p) of the ascending
// sorted sample, clamped to the last index. This is the nearest-rank
// estimator, not linear interpolation; tie cases must match it exactly.
func nearestRank(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// reduceChunks runs fn over disjoint index ranges and returns the
// partial results ordered by chunk. With workers <= 1 it degenerates to
// a single sequential call covering the whole range.
func reduceChunks[T any](n, workers int, fn func(start, end int) T) []T {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return []T{fn(0, n)}
	}

	chunk := (n + workers - 1) / workers
	var bounds [][2]int
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		bounds = append(bounds, [2]int{start, end})
	}

	partials := make([]T, len(bounds))
	var g errgroup.Group
	for ci, b := range bounds {
		ci, b := ci, b
		g.Go(func() error {
			partials[ci] = fn(b[0], b[1])
			return nil
		})
	}
	// Workers write disjoint slots and never fail.
	_ = g.Wait()
	return partials
}
