package config

import (
	"fmt"
	"math"
	"strconv"
)

// ApplyArgs fills BaseURL, MaxConcurrency and MaxPages from the positional
// arguments. Exactly one argument (the base URL) or three arguments (base URL,
// max concurrency, max pages) are accepted.
func (c *Config) ApplyArgs(args []string) error {
	switch len(args) {
	case 0:
		return ErrNoBaseURL
	case 1:
		c.BaseURL = args[0]
		return nil
	case 3:
	default:
		return fmt.Errorf("%w (got %d)", ErrArgumentCount, len(args))
	}

	maxConcurrency, err := parsePositive(args[1])
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMaxConcurrency, args[1])
	}
	maxPages, err := parsePositive(args[2])
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMaxPages, args[2])
	}

	c.BaseURL = args[0]
	c.MaxConcurrency = maxConcurrency
	c.MaxPages = maxPages
	return nil
}

// parsePositive parses s as a finite, positive whole number.
// "3" and "3.0" are accepted; "NaN", "Inf", "0", "-1" and "2.5" are not.
func parsePositive(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %s", s)
	}
	if f <= 0 {
		return 0, fmt.Errorf("not positive: %s", s)
	}
	if f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("not a whole number in range: %s", s)
	}
	return int(f), nil
}
