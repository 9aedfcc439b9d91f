// Package parse decodes newline-delimited JSON batches into typed records.
//
// Every line is decoded independently, so large batches are split into
// per-worker chunks. Results are written back by line index: output order
// and 1-based line numbering never depend on scheduling.
package parse

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/valyala/fastjson"
	"golang.org/x/sync/errgroup"

	"github.com/coffersTech/logcrunch/internal/model"
)

// Options controls batch decoding.
type Options struct {
	// Workers is the number of parallel decode workers.
	// Zero or negative means runtime.GOMAXPROCS(0); 1 runs sequentially
	// with identical output.
	Workers int
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// LineError describes a decode failure on one input line.
type LineError struct {
	Line   int    // 1-based position in the input batch
	Detail string // decoder detail, e.g. "JSON parse error: ..."
}

func (e *LineError) Error() string {
	return fmt.Sprintf("Line %d: %s", e.Line, e.Detail)
}

// BatchError aggregates every line-level failure of a strict decode.
type BatchError struct {
	Lines []*LineError // ordered by line number
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Lines))
	for i, le := range e.Lines {
		msgs[i] = le.Error()
	}
	return fmt.Sprintf("%d malformed lines: %s", len(e.Lines), strings.Join(msgs, "; "))
}

// LogLines decodes each line into a LogEntry. Strict mode: any malformed
// line fails the whole batch with a *BatchError listing every bad line.
func LogLines(lines []string, opts Options) ([]model.LogEntry, error) {
	entries := make([]model.LogEntry, len(lines))
	errs := decodeAll(lines, opts, func(p *fastjson.Parser, i int) error {
		e, err := decodeLogEntry(p, lines[i])
		if err != nil {
			return err
		}
		entries[i] = e
		return nil
	})
	if len(errs) > 0 {
		return nil, &BatchError{Lines: errs}
	}
	return entries, nil
}

// LogLinesLenient decodes each line into a LogEntry, silently dropping
// malformed lines. Survivors keep their relative input order.
func LogLinesLenient(lines []string, opts Options) []model.LogEntry {
	entries := make([]model.LogEntry, len(lines))
	ok := make([]bool, len(lines))
	decodeAll(lines, opts, func(p *fastjson.Parser, i int) error {
		e, err := decodeLogEntry(p, lines[i])
		if err != nil {
			return err
		}
		entries[i] = e
		ok[i] = true
		return nil
	})
	return compactLogs(entries, ok)
}

// LineResult pairs one decoded line with its decode error, by input
// position. Exactly one of Entry/Err is meaningful.
type LineResult struct {
	Entry model.LogEntry
	Err   *LineError
}

// LogLinesEach decodes every line and reports the per-line outcome
// without dropping or failing anything. Used by batch validation, which
// pairs decode and schema errors line by line.
func LogLinesEach(lines []string, opts Options) []LineResult {
	results := make([]LineResult, len(lines))
	errs := decodeAll(lines, opts, func(p *fastjson.Parser, i int) error {
		e, err := decodeLogEntry(p, lines[i])
		if err != nil {
			return err
		}
		results[i].Entry = e
		return nil
	})
	for _, le := range errs {
		results[le.Line-1].Err = le
	}
	return results
}

// Records decodes each line into a DataRecord, strict mode.
func Records(lines []string, opts Options) ([]model.DataRecord, error) {
	records := make([]model.DataRecord, len(lines))
	errs := decodeAll(lines, opts, func(p *fastjson.Parser, i int) error {
		r, err := decodeDataRecord(p, lines[i])
		if err != nil {
			return err
		}
		records[i] = r
		return nil
	})
	if len(errs) > 0 {
		return nil, &BatchError{Lines: errs}
	}
	return records, nil
}

// RecordResult pairs one decoded record line with its decode error.
type RecordResult struct {
	Record model.DataRecord
	Err    *LineError
}

// RecordsEach decodes every record line and reports the per-line
// outcome without dropping or failing anything.
func RecordsEach(lines []string, opts Options) []RecordResult {
	results := make([]RecordResult, len(lines))
	errs := decodeAll(lines, opts, func(p *fastjson.Parser, i int) error {
		r, err := decodeDataRecord(p, lines[i])
		if err != nil {
			return err
		}
		results[i].Record = r
		return nil
	})
	for _, le := range errs {
		results[le.Line-1].Err = le
	}
	return results
}

// RecordsLenient decodes each line into a DataRecord, dropping malformed lines.
func RecordsLenient(lines []string, opts Options) []model.DataRecord {
	records := make([]model.DataRecord, len(lines))
	ok := make([]bool, len(lines))
	decodeAll(lines, opts, func(p *fastjson.Parser, i int) error {
		r, err := decodeDataRecord(p, lines[i])
		if err != nil {
			return err
		}
		records[i] = r
		ok[i] = true
		return nil
	})
	return compactRecords(records, ok)
}

// RecordArray decodes a JSON array of record objects, as submitted by
// typed-object callers. Element errors are reported by array position.
func RecordArray(data []byte) ([]model.DataRecord, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("JSON parse error: %v", err)
	}
	arr, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("expected a JSON array of records: %v", err)
	}
	records := make([]model.DataRecord, 0, len(arr))
	for i, el := range arr {
		r, err := recordFromValue(el)
		if err != nil {
			return nil, fmt.Errorf("record %d: %s", i+1, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// decodeAll runs fn over every line with chunked parallelism. Each worker
// owns a fastjson.Parser; per-line errors are collected by index so the
// returned slice is ordered by line number regardless of scheduling.
func decodeAll(lines []string, opts Options, fn func(p *fastjson.Parser, i int) error) []*LineError {
	n := len(lines)
	if n == 0 {
		return nil
	}
	lineErrs := make([]*LineError, n)

	workers := opts.workers()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		var p fastjson.Parser
		for i := 0; i < n; i++ {
			if err := fn(&p, i); err != nil {
				lineErrs[i] = &LineError{Line: i + 1, Detail: err.Error()}
			}
		}
		return compactErrors(lineErrs)
	}

	var g errgroup.Group
	chunk := (n + workers - 1) / workers
	for start := 0; start < n; start += chunk {
		start, end := start, start+chunk
		if end > n {
			end = n
		}
		g.Go(func() error {
			var p fastjson.Parser
			for i := start; i < end; i++ {
				if err := fn(&p, i); err != nil {
					lineErrs[i] = &LineError{Line: i + 1, Detail: err.Error()}
				}
			}
			return nil
		})
	}
	// Workers only write disjoint indices and never return errors.
	_ = g.Wait()
	return compactErrors(lineErrs)
}

func decodeLogEntry(p *fastjson.Parser, line string) (model.LogEntry, error) {
	v, err := p.Parse(line)
	if err != nil {
		return model.LogEntry{}, fmt.Errorf("JSON parse error: %v", err)
	}
	if v.Type() != fastjson.TypeObject {
		return model.LogEntry{}, fmt.Errorf("JSON parse error: expected object, got %s", v.Type())
	}

	e := model.LogEntry{UserID: string(v.GetStringBytes("user_id"))}

	ts, err := requiredString(v, "timestamp")
	if err != nil {
		return model.LogEntry{}, err
	}
	e.Timestamp = ts

	lvl, err := requiredString(v, "level")
	if err != nil {
		return model.LogEntry{}, err
	}
	e.Level = lvl

	msg, err := requiredString(v, "message")
	if err != nil {
		return model.LogEntry{}, err
	}
	e.Message = msg

	if dv := v.Get("duration_ms"); dv != nil && dv.Type() != fastjson.TypeNull {
		f, err := dv.Float64()
		if err != nil {
			return model.LogEntry{}, fmt.Errorf("field duration_ms must be a number")
		}
		e.DurationMS = &f
	}
	if sv := v.Get("status_code"); sv != nil && sv.Type() != fastjson.TypeNull {
		c, err := sv.Int()
		if err != nil {
			return model.LogEntry{}, fmt.Errorf("field status_code must be an integer")
		}
		e.StatusCode = &c
	}
	return e, nil
}

func decodeDataRecord(p *fastjson.Parser, line string) (model.DataRecord, error) {
	v, err := p.Parse(line)
	if err != nil {
		return model.DataRecord{}, fmt.Errorf("JSON parse error: %v", err)
	}
	return recordFromValue(v)
}

func recordFromValue(v *fastjson.Value) (model.DataRecord, error) {
	if v.Type() != fastjson.TypeObject {
		return model.DataRecord{}, fmt.Errorf("JSON parse error: expected object, got %s", v.Type())
	}

	var r model.DataRecord

	id, err := requiredString(v, "id")
	if err != nil {
		return model.DataRecord{}, err
	}
	r.ID = id

	val := v.Get("value")
	if val == nil {
		return model.DataRecord{}, fmt.Errorf("missing required field 'value'")
	}
	f, err := val.Float64()
	if err != nil {
		return model.DataRecord{}, fmt.Errorf("field value must be a number")
	}
	r.Value = f

	cat, err := requiredString(v, "category")
	if err != nil {
		return model.DataRecord{}, err
	}
	r.Category = cat

	ts, err := requiredString(v, "timestamp")
	if err != nil {
		return model.DataRecord{}, err
	}
	r.Timestamp = ts

	if mv := v.Get("metadata"); mv != nil && mv.Type() != fastjson.TypeNull {
		obj, err := mv.Object()
		if err != nil {
			return model.DataRecord{}, fmt.Errorf("field metadata must be an object")
		}
		meta := make(map[string]string, obj.Len())
		obj.Visit(func(key []byte, mval *fastjson.Value) {
			if err != nil {
				return
			}
			sb, serr := mval.StringBytes()
			if serr != nil {
				err = fmt.Errorf("metadata value for %q must be a string", string(key))
				return
			}
			meta[string(key)] = string(sb)
		})
		if err != nil {
			return model.DataRecord{}, err
		}
		r.Metadata = meta
	}
	return r, nil
}

func requiredString(v *fastjson.Value, field string) (string, error) {
	fv := v.Get(field)
	if fv == nil {
		return "", fmt.Errorf("missing required field '%s'", field)
	}
	sb, err := fv.StringBytes()
	if err != nil {
		return "", fmt.Errorf("field %s must be a string", field)
	}
	return string(sb), nil
}

func compactErrors(lineErrs []*LineError) []*LineError {
	var out []*LineError
	for _, le := range lineErrs {
		if le != nil {
			out = append(out, le)
		}
	}
	return out
}

func compactLogs(entries []model.LogEntry, ok []bool) []model.LogEntry {
	out := entries[:0:0]
	for i, keep := range ok {
		if keep {
			out = append(out, entries[i])
		}
	}
	return out
}

func compactRecords(records []model.DataRecord, ok []bool) []model.DataRecord {
	out := records[:0:0]
	for i, keep := range ok {
		if keep {
			out = append(out, records[i])
		}
	}
	return out
}
