package query

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// maxStringLength caps each rendered text value so one wide column cannot
// flood the answer prompt.
const maxStringLength = 100

// FormatRows renders rows as a list of tuples, e.g. [(42,)] or
// [('Kerala', 3012.5), ('Goa', None)]. No rows render as the empty string.
func FormatRows(rows [][]any) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, value := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatValue(value))
		}
		if len(row) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	}
	b.WriteByte(']')
	return b.String()
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return "None"
	case string:
		return quoteString(truncate(typed))
	case []byte:
		return quoteString(truncate(string(typed)))
	case bool:
		if typed {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(typed)
	case int8:
		return strconv.FormatInt(int64(typed), 10)
	case int16:
		return strconv.FormatInt(int64(typed), 10)
	case int32:
		return strconv.FormatInt(int64(typed), 10)
	case int64:
		return strconv.FormatInt(typed, 10)
	case uint8:
		return strconv.FormatUint(uint64(typed), 10)
	case uint16:
		return strconv.FormatUint(uint64(typed), 10)
	case uint32:
		return strconv.FormatUint(uint64(typed), 10)
	case uint64:
		return strconv.FormatUint(typed, 10)
	case float32:
		return formatFloat(float64(typed))
	case float64:
		return formatFloat(typed)
	case time.Time:
		return quoteString(formatTime(typed))
	case []any:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, formatValue(item))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]any:
		names := make([]string, 0, len(typed))
		for name := range typed {
			names = append(names, name)
		}
		sort.Strings(names)
		fields := make([]string, 0, len(names))
		for _, name := range names {
			fields = append(fields, quoteString(name)+": "+formatValue(typed[name]))
		}
		return "{" + strings.Join(fields, ", ") + "}"
	case map[any]any:
		entries := make([]string, 0, len(typed))
		for key, entry := range typed {
			entries = append(entries, formatValue(key)+": "+formatValue(entry))
		}
		// Map iteration order is random; sort the rendered entries.
		sort.Strings(entries)
		return "{" + strings.Join(entries, ", ") + "}"
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}

func formatFloat(value float64) string {
	switch {
	case math.IsNaN(value):
		return "nan"
	case math.IsInf(value, 1):
		return "inf"
	case math.IsInf(value, -1):
		return "-inf"
	}
	abs := math.Abs(value)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(value, 'e', -1, 64)
	}
	rendered := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.ContainsAny(rendered, ".e") {
		rendered += ".0"
	}
	return rendered
}

func formatTime(value time.Time) string {
	if value.Hour() == 0 && value.Minute() == 0 && value.Second() == 0 && value.Nanosecond() == 0 {
		return value.Format(time.DateOnly)
	}
	return value.Format(time.DateTime)
}

func quoteString(value string) string {
	if strings.Contains(value, "'") && !strings.Contains(value, `"`) {
		return `"` + strings.ReplaceAll(value, `\`, `\\`) + `"`
	}
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	return "'" + escaped + "'"
}

func truncate(value string) string {
	runes := []rune(value)
	if len(runes) <= maxStringLength {
		return value
	}
	return string(runes[:maxStringLength]) + "..."
}
