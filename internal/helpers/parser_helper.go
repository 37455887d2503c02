package helpers

import (
	"strconv"
	"time"
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

func StringToFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// FormatTimestamp renders t the way every endpoint serializes timestamps:
// second precision, UTC, trailing Z.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
