// Package pipeline composes parse, validate and engine into the
// operations external callers invoke, so a batch crosses the boundary
// once and is traversed without re-submission.
//
// Validation and aggregation deliberately observe independent record
// sets: aggregation uses the lenient parse (malformed lines dropped by
// design), while validation reports every line-level problem.
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coffersTech/logcrunch/internal/engine"
	"github.com/coffersTech/logcrunch/internal/model"
	"github.com/coffersTech/logcrunch/internal/parse"
	"github.com/coffersTech/logcrunch/internal/validate"
)

// Options is shared by every pipeline operation.
type Options struct {
	// Workers bounds parallelism in all stages; zero means GOMAXPROCS.
	Workers int
}

func (o Options) parseOpts() parse.Options   { return parse.Options{Workers: o.Workers} }
func (o Options) engineOpts() engine.Options { return engine.Options{Workers: o.Workers} }

// ParseLogs decodes a line batch strictly: any malformed line fails the
// call with a *parse.BatchError listing every bad line.
func ParseLogs(lines []string, opts Options) ([]model.LogEntry, error) {
	return parse.LogLines(lines, opts.parseOpts())
}

// ValidateLogs reports the number of valid lines and an ordered list of
// "Line <n>: <message>" strings covering decode and schema failures.
func ValidateLogs(lines []string, opts Options) (int, []string) {
	return validate.LogLines(lines, opts.parseOpts())
}

// ComputeStats aggregates a line batch leniently: malformed lines are
// dropped, and ErrEmptyBatch is returned when nothing usable remains.
func ComputeStats(lines []string, opts Options) (*engine.LogStats, error) {
	entries := parse.LogLinesLenient(lines, opts.parseOpts())
	return engine.ComputeLogStats(entries, opts.engineOpts())
}

// FilterLogs leniently parses a line batch and returns the matching
// entries in input order.
func FilterLogs(lines []string, filter engine.LogFilter, opts Options) []model.LogEntry {
	entries := parse.LogLinesLenient(lines, opts.parseOpts())
	return engine.FilterLogs(entries, filter, opts.engineOpts())
}

// BatchProcess runs validation and aggregation against the same input
// in one call. Validation failures never block aggregation and vice
// versa; only an empty valid batch fails the whole call.
func BatchProcess(lines []string, opts Options) (*engine.LogStats, []string, error) {
	_, errs := validate.LogLines(lines, opts.parseOpts())
	stats, err := ComputeStats(lines, opts)
	if err != nil {
		return nil, nil, err
	}
	return stats, errs, nil
}

// ComputeRecordStats aggregates a generic-record line batch leniently.
func ComputeRecordStats(lines []string, opts Options) (*engine.RecordStats, error) {
	records := parse.RecordsLenient(lines, opts.parseOpts())
	return engine.ComputeRecordStats(records, opts.engineOpts())
}

// FilterRecords leniently parses a generic-record line batch and
// returns the matching records in input order.
func FilterRecords(lines []string, filter engine.RecordFilter, opts Options) []model.DataRecord {
	records := parse.RecordsLenient(lines, opts.parseOpts())
	return engine.FilterRecords(records, filter, opts.engineOpts())
}

// ProcessRecords is the strict typed-batch operation: every record must
// pass validation or the call fails with the collected per-record
// errors; an empty batch fails with ErrEmptyBatch.
func ProcessRecords(records []model.DataRecord, opts Options) (*engine.RecordStats, error) {
	if len(records) == 0 {
		return nil, engine.ErrEmptyBatch
	}
	if _, errs := validate.Records(records); len(errs) > 0 {
		return nil, fmt.Errorf("validation errors: %s", strings.Join(errs, "; "))
	}
	return engine.ComputeRecordStats(records, opts.engineOpts())
}

// IsEmptyBatch reports whether err is the empty-batch failure.
func IsEmptyBatch(err error) bool {
	return errors.Is(err, engine.ErrEmptyBatch)
}
