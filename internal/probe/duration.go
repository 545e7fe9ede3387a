package probe

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a k6 duration: a Go duration optionally preceded by
// a whole number of days, such as "1d", "2d12h" or "1h30m". The result must
// be positive.
func ParseDuration(s string) (time.Duration, error) {
	var d time.Duration
	rest := s

	if i := strings.IndexByte(s, 'd'); i >= 0 {
		days, err := strconv.ParseUint(s[:i], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		d = time.Duration(days) * 24 * time.Hour
		rest = s[i+1:]
	}

	if rest != "" || d == 0 {
		part, err := time.ParseDuration(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		if part < 0 {
			return 0, fmt.Errorf("duration %q must be positive", s)
		}
		d += part
	}

	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return d, nil
}
