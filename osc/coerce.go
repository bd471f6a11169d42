package osc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Coerce classifies one decoded JSON value into the OSC argument set used by
// this bridge: int32, float32 or string. The dispatch order is load-bearing:
// strings are never numerically sniffed, booleans always take the integer
// path, and integers outside the 32-bit range truncate rather than error.
//
// Values matching none of the scalar kinds (null, arrays, objects) fall back
// to their stringified form; the second return reports that downgrade so the
// caller can log it. Coerce itself never fails, so a message is never
// dropped for an unclassifiable argument.
func Coerce(v any) (any, bool) {
	switch t := v.(type) {
	case string:
		return t, false

	case bool:
		if t {
			return int32(1), false
		}
		return int32(0), false

	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int32(i), false
		}
		if f, err := t.Float64(); err == nil {
			return float32(f), false
		}
		return t.String(), true

	// Direct callers that bypass JSON decoding.
	case int:
		return int32(t), false
	case int32:
		return t, false
	case int64:
		return int32(t), false
	case float32:
		return t, false
	case float64:
		return float32(t), false
	}

	// Last attempt to keep the argument numeric before downgrading it to a
	// string.
	s := stringify(v)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
			return int32(int64(f)), false
		}
		return float32(f), false
	}
	return s, true
}

// stringify renders a value as the JSON text it decoded from, so the
// fallback encoding is independent of Go type internals.
func stringify(v any) string {
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}
