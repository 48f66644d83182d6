package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRate parses a bandwidth such as "512K", "10M", "1.5G" or "2048" into
// bytes per second. Units are powers of 1024; a trailing "B" or "/s" is
// accepted. The empty string and "0" mean unlimited.
func ParseRate(s string) (int64, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimSuffix(v, "/S")
	v = strings.TrimSuffix(v, "B")
	if v == "" {
		return 0, nil
	}

	multiplier := int64(1)
	switch v[len(v)-1] {
	case 'K':
		multiplier = 1 << 10
	case 'M':
		multiplier = 1 << 20
	case 'G':
		multiplier = 1 << 30
	}
	if multiplier > 1 {
		v = v[:len(v)-1]
	}

	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bandwidth %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid bandwidth %q: must not be negative", s)
	}

	return int64(n * float64(multiplier)), nil
}
