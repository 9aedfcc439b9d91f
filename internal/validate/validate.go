// Package validate checks records against the batch schema.
//
// All checks are pure functions of their input: no state, no side
// effects, same result on every call.
package validate

import (
	"errors"
	"fmt"

	"github.com/coffersTech/logcrunch/internal/model"
	"github.com/coffersTech/logcrunch/internal/parse"
)

// RecordError is a schema violation on a generic record.
// The message wording ("Value must be positive") is kept from the
// existing wrapper outputs even though zero is accepted; the actual
// check is value >= 0.
type RecordError struct {
	RecordID string
	Message  string
}

func (e *RecordError) Error() string { return e.Message }

// LogEntry checks one log-shaped record. Rules are evaluated in order
// and the first failure wins.
func LogEntry(e model.LogEntry) error {
	if e.Timestamp == "" {
		return errors.New("Missing or empty timestamp")
	}
	if !model.IsValidLevel(e.Level) {
		return fmt.Errorf("Invalid log level '%s'. Must be one of: ERROR, WARN, INFO, DEBUG", e.Level)
	}
	if e.DurationMS != nil && *e.DurationMS < 0 {
		return fmt.Errorf("Invalid duration_ms %v. Must be >= 0", *e.DurationMS)
	}
	if e.StatusCode != nil && (*e.StatusCode < 100 || *e.StatusCode > 599) {
		return fmt.Errorf("Invalid status_code %d. Must be 100-599", *e.StatusCode)
	}
	return nil
}

// Record checks one generic record. First failure wins; the error carries
// the record id (empty when the id itself is the failure).
func Record(r model.DataRecord) error {
	if r.ID == "" {
		return &RecordError{RecordID: r.ID, Message: "ID cannot be empty"}
	}
	if r.Value < 0 {
		return &RecordError{RecordID: r.ID, Message: fmt.Sprintf("Value must be positive, got %v", r.Value)}
	}
	if r.Category == "" {
		return &RecordError{RecordID: r.ID, Message: "Category cannot be empty"}
	}
	if r.Timestamp == "" {
		return &RecordError{RecordID: r.ID, Message: "Timestamp cannot be empty"}
	}
	return nil
}

// LogLines decodes and validates each line independently. Line numbers
// are 1-based positions in the input: a line that fails to decode counts
// as a validation error at its line, exactly like a schema failure.
func LogLines(lines []string, opts parse.Options) (validCount int, errs []string) {
	results := parse.LogLinesEach(lines, opts)
	for i, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err.Error())
			continue
		}
		if err := LogEntry(res.Entry); err != nil {
			errs = append(errs, fmt.Sprintf("Line %d: %s", i+1, err))
			continue
		}
		validCount++
	}
	return validCount, errs
}

// LogEntries validates already-decoded entries, numbering errors by
// 1-based position in the slice.
func LogEntries(entries []model.LogEntry) (validCount int, errs []string) {
	for i, e := range entries {
		if err := LogEntry(e); err != nil {
			errs = append(errs, fmt.Sprintf("Line %d: %s", i+1, err))
			continue
		}
		validCount++
	}
	return validCount, errs
}

// RecordLines decodes and validates generic-record lines independently,
// with the same 1-based line numbering contract as LogLines.
func RecordLines(lines []string, opts parse.Options) (validCount int, errs []string) {
	results := parse.RecordsEach(lines, opts)
	for i, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err.Error())
			continue
		}
		if err := Record(res.Record); err != nil {
			errs = append(errs, fmt.Sprintf("Line %d: %s", i+1, err))
			continue
		}
		validCount++
	}
	return validCount, errs
}

// Records validates a typed batch, reporting errors by record id.
func Records(records []model.DataRecord) (validCount int, errs []string) {
	for _, r := range records {
		if err := Record(r); err != nil {
			var re *RecordError
			if errors.As(err, &re) {
				errs = append(errs, fmt.Sprintf("Record %s: %s", re.RecordID, re.Message))
			} else {
				errs = append(errs, err.Error())
			}
			continue
		}
		validCount++
	}
	return validCount, errs
}
