package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func orDefault(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func override(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func fromEnv(dst *string, key string) {
	override(dst, os.Getenv(key))
}

func intFromEnv(dst *int, key string) {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*dst = n
	}
}

// durations validates named duration strings in order.
func durations(fields ...[2]string) error {
	for _, f := range fields {
		if _, err := time.ParseDuration(f[1]); err != nil {
			return fmt.Errorf("invalid %s: %w", f[0], err)
		}
	}
	return nil
}

func duration(v string) time.Duration {
	d, _ := time.ParseDuration(v)
	return d
}
