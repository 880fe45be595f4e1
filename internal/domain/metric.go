package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NA is the placeholder rendered for any metric without data.
const NA = "NA"

// Metric is a rating/rank style value: a number, a label such as "expert",
// or NA. The zero value is NA.
type Metric struct {
	set     bool
	numeric bool
	num     float64
	text    string
}

func IntMetric(v int64) Metric {
	return Metric{set: true, numeric: true, num: float64(v)}
}

func FloatMetric(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}
	return Metric{set: true, numeric: true, num: v}
}

// TextMetric parses numeric strings as numbers; blank or "NA" yields NA.
func TextMetric(s string) Metric {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, NA) {
		return Metric{}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatMetric(v)
	}
	return Metric{set: true, text: s}
}

func (m Metric) IsNA() bool {
	return !m.set
}

// Int returns the integral value when the metric is numeric.
func (m Metric) Int() (int64, bool) {
	if !m.set || !m.numeric {
		return 0, false
	}
	return int64(math.Round(m.num)), true
}

func (m Metric) String() string {
	switch {
	case !m.set:
		return NA
	case m.numeric:
		return strconv.FormatFloat(m.num, 'f', -1, 64)
	default:
		return m.text
	}
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if m.set && m.numeric {
		return []byte(strconv.FormatFloat(m.num, 'f', -1, 64)), nil
	}
	return json.Marshal(m.String())
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = Metric{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = TextMetric(s)
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*m = FloatMetric(v)
	return nil
}
