package commands

import (
	"strconv"
	"time"
)

// helper functions for formatting floats and times
func f(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

func t(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
