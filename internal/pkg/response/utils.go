package response

import (
	"fmt"
	"strings"
)

// NormalizeClock приводит "7:00", " 07.00 " и т.п. к виду "07:00".
func NormalizeClock(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, ".", ":")
	value = strings.ReplaceAll(value, " ", "")
	if len(value) == 4 && value[1] == ':' {
		value = "0" + value
	}
	return value
}

func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0 мин"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%d ч %d мин", hours, mins)
	}
	return fmt.Sprintf("%d мин", mins)
}
