package render

import (
	"fmt"
	"strconv"
	"time"
)

var numberWords = [...]string{".", "a", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}

var timeScales = []struct {
	name string
	size time.Duration
}{
	{"year", 365 * 24 * time.Hour},
	{"month", 28 * 24 * time.Hour},
	{"week", 7 * 24 * time.Hour},
	{"day", 24 * time.Hour},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// RelativeTime describes how long before now t was, using the largest scale
// with a non-zero count: "last year", "yesterday", "about five hours ago".
func RelativeTime(now, t time.Time) string {
	delta := now.Sub(t)
	for _, scale := range timeScales {
		n := int64(delta / scale.size)
		if n <= 0 {
			continue
		}
		switch {
		case n == 1 && (scale.name == "year" || scale.name == "month" || scale.name == "week"):
			return "last " + scale.name
		case n == 1 && scale.name == "day":
			return "yesterday"
		case n == 1 && scale.name == "hour":
			return "about an hour ago"
		}

		count := strconv.FormatInt(n, 10)
		if n < int64(len(numberWords)) {
			count = numberWords[n]
		}
		plural := ""
		if n > 1 {
			plural = "s"
		}
		return fmt.Sprintf("about %s %s%s ago", count, scale.name, plural)
	}
	return "just now"
}
