package config

import (
	"fmt"
	"strings"
	"time"
)

// DurationOrDefault parses value as a duration, substituting defaultValue
// when value is blank. Timeouts are carried as strings in Config so yaml,
// env, and flag layers all merge uniformly; parsing happens here, once,
// at wiring time.
func DurationOrDefault(value, defaultValue string) (time.Duration, error) {
	candidate := strings.TrimSpace(value)
	if candidate == "" {
		candidate = strings.TrimSpace(defaultValue)
	}
	if candidate == "" {
		return 0, fmt.Errorf("duration value is empty")
	}

	d, err := time.ParseDuration(candidate)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", candidate, err)
	}
	return d, nil
}
