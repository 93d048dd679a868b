package http

import (
	"time"

	xutil "BizPulse/pkg/util"
)

// ParseDate tries calendar dates (2006-01-02) first, then RFC3339 timestamps.
func ParseDate(s string) (time.Time, bool) { return xutil.ParseDate(s) }

// ParseDateDefault parses a date or returns default if empty/invalid.
func ParseDateDefault(s string, def time.Time) time.Time { return xutil.ParseDateDefault(s, def) }
