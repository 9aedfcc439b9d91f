package engine

import (
	"sort"

	"github.com/coffersTech/logcrunch/internal/model"
)

// CategoryStats summarizes the records of a single category.
// Computed on demand; never cached across calls.
type CategoryStats struct {
	Category     string  `json:"category"`
	Count        int     `json:"count"`
	TotalValue   float64 `json:"total_value"`
	AverageValue float64 `json:"average_value"`
	MinValue     float64 `json:"min_value"`
	MaxValue     float64 `json:"max_value"`
}

// StatsForCategory computes count/sum/average/min/max over the records
// matching the given category. Returns nil when no record matches.
func StatsForCategory(records []model.DataRecord, category string) *CategoryStats {
	var s *CategoryStats
	for _, r := range records {
		if r.Category != category {
			continue
		}
		if s == nil {
			s = &CategoryStats{
				Category: category,
				MinValue: r.Value,
				MaxValue: r.Value,
			}
		}
		s.Count++
		s.TotalValue += r.Value
		if r.Value < s.MinValue {
			s.MinValue = r.Value
		}
		if r.Value > s.MaxValue {
			s.MaxValue = r.Value
		}
	}
	if s == nil {
		return nil
	}
	s.AverageValue = s.TotalValue / float64(s.Count)
	return s
}

// UniqueCategories returns the distinct category strings of a batch,
// deduplicated and sorted lexicographically.
func UniqueCategories(records []model.DataRecord) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, r := range records {
		if !seen[r.Category] {
			seen[r.Category] = true
			cats = append(cats, r.Category)
		}
	}
	sort.Strings(cats)
	return cats
}

// AggregateByCategory groups a batch by category and computes per-group
// statistics in a single pass. The result has exactly one entry per
// element of UniqueCategories; values accumulate in input order, so the
// output equals recomputing StatsForCategory per unique category.
func AggregateByCategory(records []model.DataRecord) map[string]CategoryStats {
	stats := make(map[string]CategoryStats)
	for _, r := range records {
		s, ok := stats[r.Category]
		if !ok {
			s = CategoryStats{
				Category: r.Category,
				MinValue: r.Value,
				MaxValue: r.Value,
			}
		}
		s.Count++
		s.TotalValue += r.Value
		if r.Value < s.MinValue {
			s.MinValue = r.Value
		}
		if r.Value > s.MaxValue {
			s.MaxValue = r.Value
		}
		stats[r.Category] = s
	}
	for cat, s := range stats {
		s.AverageValue = s.TotalValue / float64(s.Count)
		stats[cat] = s
	}
	return stats
}

// TransformValues scales every record value in place by the multiplier.
func TransformValues(records []model.DataRecord, multiplier float64) {
	for i := range records {
		records[i].Value *= multiplier
	}
}
