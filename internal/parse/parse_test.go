package parse

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLines_Strict(t *testing.T) {
	lines := []string{
		`{"timestamp":"2024-01-15T10:00:00Z","level":"INFO","message":"ok","duration_ms":120.5,"status_code":200,"user_id":"u1"}`,
		`{"timestamp":"2024-01-15T10:00:01Z","level":"ERROR","message":"boom"}`,
	}

	entries, err := LogLines(lines, Options{Workers: 1})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "2024-01-15T10:00:00Z", entries[0].Timestamp)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "ok", entries[0].Message)
	require.NotNil(t, entries[0].DurationMS)
	assert.Equal(t, 120.5, *entries[0].DurationMS)
	require.NotNil(t, entries[0].StatusCode)
	assert.Equal(t, 200, *entries[0].StatusCode)
	assert.Equal(t, "u1", entries[0].UserID)

	assert.Nil(t, entries[1].DurationMS)
	assert.Nil(t, entries[1].StatusCode)
	assert.Empty(t, entries[1].UserID)
}

func TestLogLines_StrictFailsOnAnyBadLine(t *testing.T) {
	lines := []string{
		`{"timestamp":"t","level":"INFO","message":"a"}`,
		`not json`,
		`{"timestamp":"t","level":"WARN","message":"b"}`,
		`{"level":"INFO","message":"missing ts"}`,
	}

	entries, err := LogLines(lines, Options{Workers: 2})
	assert.Nil(t, entries)
	require.Error(t, err)

	var be *BatchError
	require.ErrorAs(t, err, &be)
	require.Len(t, be.Lines, 2)
	assert.Equal(t, 2, be.Lines[0].Line)
	assert.Equal(t, 4, be.Lines[1].Line)
	assert.Contains(t, be.Lines[1].Detail, "missing required field 'timestamp'")
}

func TestLogLinesLenient_DropsMalformedKeepsOrder(t *testing.T) {
	lines := []string{
		`{"timestamp":"t1","level":"INFO","message":"a"}`,
		`garbage`,
		`{"timestamp":"t2","level":"WARN","message":"b"}`,
		`{"timestamp":"t3"}`,
		`{"timestamp":"t4","level":"ERROR","message":"c"}`,
	}

	entries := LogLinesLenient(lines, Options{Workers: 3})
	require.Len(t, entries, 3)
	assert.Equal(t, "t1", entries[0].Timestamp)
	assert.Equal(t, "t2", entries[1].Timestamp)
	assert.Equal(t, "t4", entries[2].Timestamp)
}

func TestLogLines_FieldTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"non-string level", `{"timestamp":"t","level":5,"message":"m"}`, "field level must be a string"},
		{"non-number duration", `{"timestamp":"t","level":"INFO","message":"m","duration_ms":"fast"}`, "field duration_ms must be a number"},
		{"non-integer status", `{"timestamp":"t","level":"INFO","message":"m","status_code":"200"}`, "field status_code must be an integer"},
		{"array body", `[1,2,3]`, "expected object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LogLines([]string{tt.line}, Options{Workers: 1})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLogLines_NullOptionalFieldsIgnored(t *testing.T) {
	lines := []string{`{"timestamp":"t","level":"INFO","message":"m","duration_ms":null,"status_code":null}`}
	entries, err := LogLines(lines, Options{Workers: 1})
	require.NoError(t, err)
	assert.Nil(t, entries[0].DurationMS)
	assert.Nil(t, entries[0].StatusCode)
}

func TestRecords_Strict(t *testing.T) {
	lines := []string{
		`{"id":"r1","value":10.5,"category":"sensor","timestamp":"t1","metadata":{"host":"a"}}`,
		`{"id":"r2","value":3,"category":"sensor","timestamp":"t2"}`,
	}

	records, err := Records(lines, Options{Workers: 1})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "r1", records[0].ID)
	assert.Equal(t, 10.5, records[0].Value)
	assert.Equal(t, map[string]string{"host": "a"}, records[0].Metadata)
	assert.Nil(t, records[1].Metadata)
}

func TestRecords_MissingAndBadFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"missing id", `{"value":1,"category":"c","timestamp":"t"}`, "missing required field 'id'"},
		{"missing value", `{"id":"r","category":"c","timestamp":"t"}`, "missing required field 'value'"},
		{"bad value", `{"id":"r","value":"nope","category":"c","timestamp":"t"}`, "field value must be a number"},
		{"bad metadata", `{"id":"r","value":1,"category":"c","timestamp":"t","metadata":[1]}`, "field metadata must be an object"},
		{"bad metadata value", `{"id":"r","value":1,"category":"c","timestamp":"t","metadata":{"k":7}}`, `metadata value for "k" must be a string`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Records([]string{tt.line}, Options{Workers: 1})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRecordsLenient(t *testing.T) {
	lines := []string{
		`{"id":"r1","value":1,"category":"a","timestamp":"t"}`,
		`broken`,
		`{"id":"r3","value":3,"category":"b","timestamp":"t"}`,
	}
	records := RecordsLenient(lines, Options{Workers: 2})
	require.Len(t, records, 2)
	assert.Equal(t, "r1", records[0].ID)
	assert.Equal(t, "r3", records[1].ID)
}

func TestRecordArray(t *testing.T) {
	body := []byte(`[
		{"id":"r1","value":1,"category":"a","timestamp":"t"},
		{"id":"r2","value":2,"category":"b","timestamp":"t"}
	]`)
	records, err := RecordArray(body)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "r2", records[1].ID)

	_, err = RecordArray([]byte(`{"id":"r1"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a JSON array")

	_, err = RecordArray([]byte(`[{"id":"r1","value":1,"category":"a","timestamp":"t"},{"value":2}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2:")
}

func TestLogLinesEach_PairsErrorsByLine(t *testing.T) {
	lines := []string{
		`{"timestamp":"t","level":"INFO","message":"a"}`,
		`oops`,
	}
	results := LogLinesEach(lines, Options{Workers: 1})
	require.Len(t, results, 2)
	assert.Nil(t, results[0].Err)
	assert.Equal(t, "INFO", results[0].Entry.Level)
	require.NotNil(t, results[1].Err)
	assert.Equal(t, 2, results[1].Err.Line)
}

func TestDecode_ParallelMatchesSequential(t *testing.T) {
	var lines []string
	for i := 0; i < 1000; i++ {
		if i%7 == 0 {
			lines = append(lines, "bad line")
			continue
		}
		lines = append(lines, fmt.Sprintf(`{"timestamp":"t%d","level":"INFO","message":"m%d"}`, i, i))
	}

	seq := LogLinesLenient(lines, Options{Workers: 1})
	par := LogLinesLenient(lines, Options{Workers: 8})
	assert.Equal(t, seq, par)

	_, seqErr := LogLines(lines, Options{Workers: 1})
	_, parErr := LogLines(lines, Options{Workers: 8})
	require.Error(t, seqErr)
	require.Error(t, parErr)
	assert.Equal(t, seqErr.Error(), parErr.Error())
}

func TestDecode_EmptyBatch(t *testing.T) {
	entries, err := LogLines(nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, LogLinesLenient(nil, Options{}))
}

func TestLogEntry_JSONRoundTripOmitsAbsentFields(t *testing.T) {
	entries, err := LogLines([]string{`{"timestamp":"t","level":"INFO","message":"m"}`}, Options{Workers: 1})
	require.NoError(t, err)

	data, err := json.Marshal(entries[0])
	require.NoError(t, err)
	assert.NotContains(t, string(data), "duration_ms")
	assert.NotContains(t, string(data), "status_code")
	assert.NotContains(t, string(data), "user_id")
}
