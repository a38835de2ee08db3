package core

import (
	"fmt"
	"strings"
)

// FormatDuration renders seconds as "1 day, 2 hours, 3 minutes and 4 seconds".
// Zero and negative inputs render as "0 seconds".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0 seconds"
	}
	minutes, secs := seconds/60, seconds%60
	hours, minutes := minutes/60, minutes%60
	days, hours := hours/24, hours%24

	parts := make([]string, 0, 4)
	for _, unit := range []struct {
		count int
		word  string
	}{
		{days, "day"},
		{hours, "hour"},
		{minutes, "minute"},
		{secs, "second"},
	} {
		if unit.count <= 0 {
			continue
		}
		word := unit.word
		if unit.count != 1 {
			word += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", unit.count, word))
	}

	if len(parts) > 2 {
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
	return strings.Join(parts, " and ")
}
