package model

// LogEntry represents a structured log record.
// This is the logical view of one input row for the log-shaped pipeline;
// pointer fields distinguish "absent" from a zero value.
type LogEntry struct {
	Timestamp  string   `json:"timestamp"`
	Level      string   `json:"level"`
	Message    string   `json:"message"`
	DurationMS *float64 `json:"duration_ms,omitempty"`
	StatusCode *int     `json:"status_code,omitempty"`
	UserID     string   `json:"user_id,omitempty"`
}

// DataRecord represents a generic tagged measurement.
type DataRecord struct {
	ID        string            `json:"id"`
	Value     float64           `json:"value"`
	Category  string            `json:"category"`
	Timestamp string            `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Log levels, dictionary encoded. The numeric value doubles as the
// severity rank used by filtering.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// ValidLevels lists the accepted level strings in severity order.
var ValidLevels = []string{"ERROR", "WARN", "INFO", "DEBUG"}

// IsValidLevel reports whether l is one of the four accepted levels.
// Matching is exact: "error" or "WARNING" are not accepted.
func IsValidLevel(l string) bool {
	switch l {
	case "ERROR", "WARN", "INFO", "DEBUG":
		return true
	}
	return false
}

// LevelRank converts a level string to its severity rank.
// Unrecognized levels rank at 0, same as DEBUG, so a lenient pipeline
// never drops them by accident when no threshold is set.
func LevelRank(l string) int {
	switch l {
	case "ERROR":
		return LevelError
	case "WARN":
		return LevelWarn
	case "INFO":
		return LevelInfo
	case "DEBUG":
		return LevelDebug
	default:
		return LevelDebug
	}
}

// RankLevel converts a severity rank back to its level string.
func RankLevel(rank int) string {
	switch rank {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
