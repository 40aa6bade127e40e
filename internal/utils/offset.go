package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var offsetRe = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

// FixedOffsetLocation builds a fixed-offset location from a "±HH:MM" string.
// The returned location never applies daylight saving.
func FixedOffsetLocation(offset string) (*time.Location, error) {
	m := offsetRe.FindStringSubmatch(offset)
	if m == nil {
		return nil, fmt.Errorf("invalid UTC offset %q, expected ±HH:MM", offset)
	}
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	if hours > 14 || minutes > 59 {
		return nil, fmt.Errorf("invalid UTC offset %q, expected ±HH:MM", offset)
	}
	seconds := hours*3600 + minutes*60
	if m[1] == "-" {
		seconds = -seconds
	}
	return time.FixedZone(offset, seconds), nil
}
