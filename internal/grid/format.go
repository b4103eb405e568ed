package grid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/JonMunkholm/shiftboard/internal/core"
)

// TimeStyle selects how clock values such as "8AM" are displayed.
type TimeStyle string

const (
	// TimeCompact drops zero minutes and leading zeros: "8AM", "8:30PM".
	TimeCompact TimeStyle = "compact"
	// TimePadded always shows two-digit hours and minutes: "08:00AM".
	TimePadded TimeStyle = "padded"
)

// ParseTimeStyle validates a style name. Empty means TimeCompact.
func ParseTimeStyle(s string) (TimeStyle, error) {
	switch st := TimeStyle(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return TimeCompact, nil
	case TimeCompact, TimePadded:
		return st, nil
	default:
		return "", fmt.Errorf("unknown time style %q (want compact or padded)", s)
	}
}

var clockPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?::(\d{2}))?\s*([AP]M)\s*$`)

// FormatClock re-renders a 12-hour clock value in the given style.
// Values that are not 12-hour clock times are returned unchanged.
func FormatClock(value string, style TimeStyle) string {
	m := clockPattern.FindStringSubmatch(value)
	if m == nil {
		return value
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return value
	}
	meridiem := strings.ToUpper(m[3])

	if style == TimePadded {
		return fmt.Sprintf("%02d:%02d%s", hour, minute, meridiem)
	}
	if minute == 0 {
		return fmt.Sprintf("%d%s", hour, meridiem)
	}
	return fmt.Sprintf("%d:%02d%s", hour, minute, meridiem)
}

// ClockColumn is a Column that renders its field with FormatClock.
func ClockColumn(header, accessor string, style TimeStyle) Column {
	return Column{
		Header:   header,
		Accessor: accessor,
		Render: func(row core.Row) string {
			return FormatClock(row.String(accessor), style)
		},
	}
}
