package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const SecondsPerDay int64 = 86400

// Unix seconds only reach 1e11 in the year 5138, so anything at or above it
// is a millisecond timestamp.
const millisecondThreshold int64 = 100_000_000_000

// NormalizeTimestamp converts a seconds-or-milliseconds unix timestamp to
// seconds.
func NormalizeTimestamp(ts int64) int64 {
	if ts >= millisecondThreshold || ts <= -millisecondThreshold {
		return ts / 1000
	}
	return ts
}

// DayKey truncates a unix timestamp (either unit) to 00:00 UTC of its day.
func DayKey(ts int64) int64 {
	ts = NormalizeTimestamp(ts)
	rem := ts % SecondsPerDay
	if rem < 0 {
		rem += SecondsPerDay
	}
	return ts - rem
}

// CalendarCutoff is the first day key inside the trailing window.
func CalendarCutoff(now time.Time, windowDays int) int64 {
	return DayKey(now.Unix() - int64(windowDays)*SecondsPerDay)
}

// FilterCalendar normalizes keys to UTC days, merges entries that land on the
// same day, and keeps only days inside the trailing window with activity.
func FilterCalendar(raw map[int64]int, now time.Time, windowDays int) map[int64]int {
	cutoff := CalendarCutoff(now, windowDays)
	out := make(map[int64]int)
	for ts, count := range raw {
		if count <= 0 {
			continue
		}
		day := DayKey(ts)
		if day < cutoff {
			continue
		}
		out[day] += count
	}
	return out
}

// RawCalendar decodes an upstream "timestamp -> count" calendar. Upstreams
// send it either as an object or as a JSON-encoded string of one, with keys
// in seconds or milliseconds and counts as numbers or strings.
type RawCalendar map[int64]int

func (c *RawCalendar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = RawCalendar{}
		return nil
	}
	if data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		if strings.TrimSpace(encoded) == "" {
			*c = RawCalendar{}
			return nil
		}
		return c.UnmarshalJSON([]byte(encoded))
	}

	var entries map[string]Metric
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("submission calendar: %w", err)
	}
	out := make(RawCalendar, len(entries))
	for key, value := range entries {
		ts, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			continue
		}
		count, ok := value.Int()
		if !ok {
			continue
		}
		out[ts] += int(count)
	}
	*c = out
	return nil
}
