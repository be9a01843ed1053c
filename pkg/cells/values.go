package cells

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Placeholder is shown for empty cells and dictionary misses.
const Placeholder = "-"

// Canonical returns the string form of a raw row value. Numbers use their
// shortest decimal representation so that 1, 1.0 and json.Number("1") all
// yield "1", which is also the key used for dictionary lookups.
func Canonical(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return canonicalNumber(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return n.String()
}

// orPlaceholder applies the empty cell rule.
func orPlaceholder(raw any) string {
	text := Canonical(raw)
	if text == "" {
		return Placeholder
	}
	return text
}

// maxEpochSeconds bounds epoch values whose millisecond form fits an int64.
const maxEpochSeconds = math.MaxInt64 / 1000

var (
	errNotEpoch      = errors.New("cells: value is not an epoch number")
	errEpochOutRange = errors.New("cells: epoch value out of range")
)

// epochMillis interprets raw as Unix epoch seconds and returns milliseconds.
func epochMillis(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return intMillis(int64(v))
	case int8:
		return intMillis(int64(v))
	case int16:
		return intMillis(int64(v))
	case int32:
		return intMillis(int64(v))
	case int64:
		return intMillis(v)
	case uint:
		return uintMillis(uint64(v))
	case uint8:
		return uintMillis(uint64(v))
	case uint16:
		return uintMillis(uint64(v))
	case uint32:
		return uintMillis(uint64(v))
	case uint64:
		return uintMillis(v)
	case float32:
		return floatMillis(float64(v))
	case float64:
		return floatMillis(v)
	case json.Number:
		return stringMillis(v.String())
	case string:
		return stringMillis(v)
	default:
		return 0, errNotEpoch
	}
}

func intMillis(seconds int64) (int64, error) {
	if seconds > maxEpochSeconds || seconds < -maxEpochSeconds {
		return 0, errEpochOutRange
	}
	return seconds * 1000, nil
}

func uintMillis(seconds uint64) (int64, error) {
	if seconds > maxEpochSeconds {
		return 0, errEpochOutRange
	}
	return int64(seconds) * 1000, nil
}

func floatMillis(seconds float64) (int64, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, errEpochOutRange
	}
	if seconds > maxEpochSeconds || seconds < -maxEpochSeconds {
		return 0, errEpochOutRange
	}
	return int64(math.Round(seconds * 1000)), nil
}

func stringMillis(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, errNotEpoch
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return intMillis(i)
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, errNotEpoch
	}
	return floatMillis(f)
}
