package socialgraph

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ID is the canonical identifier for an account node. Raw snapshots identify
// accounts inconsistently (plain strings, bare numbers, or wrapper objects
// like {"id": 123}), so every raw identifier is normalized into an ID exactly
// once at ingestion. Downstream code only ever compares IDs, never raw values.
type ID string

// CanonicalID normalizes an already-decoded identifier value into an ID.
// It accepts strings (trimmed), integers, floats, [json.Number], and maps
// carrying an "id" entry. Returns false for nil, empty, non-finite, and
// unrecognized values.
func CanonicalID(raw any) (ID, bool) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", false
		}
		return ID(s), true
	case json.Number:
		return canonicalNumber(v)
	case float64:
		return canonicalFloat(v)
	case int:
		return ID(strconv.Itoa(v)), true
	case int64:
		return ID(strconv.FormatInt(v, 10)), true
	case uint64:
		return ID(strconv.FormatUint(v, 10)), true
	case map[string]any:
		inner, ok := v["id"]
		if !ok {
			return "", false
		}
		return CanonicalID(inner)
	default:
		return "", false
	}
}

// CanonicalIDJSON normalizes a raw JSON identifier value into an ID.
// Strings, numbers, and {"id": ...} wrapper objects (arbitrarily nested)
// are accepted; anything else returns false. Integer literals keep their
// exact digits, so 64-bit snowflake ids survive without float rounding.
func CanonicalIDJSON(raw json.RawMessage) (ID, bool) {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", false
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false
		}
		return CanonicalID(s)
	case '{':
		var wrapper struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil || len(wrapper.ID) == 0 {
			return "", false
		}
		return CanonicalIDJSON(wrapper.ID)
	case '[', 't', 'f':
		return "", false
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return "", false
		}
		return canonicalNumber(n)
	}
}

// canonicalNumber keeps integer literals verbatim and routes everything else
// through float formatting, so "123" and 123.0 land on the same key.
func canonicalNumber(n json.Number) (ID, bool) {
	s := n.String()
	if s == "" {
		return "", false
	}
	if !strings.ContainsAny(s, ".eE") {
		return ID(s), true
	}
	f, err := n.Float64()
	if err != nil {
		return "", false
	}
	return canonicalFloat(f)
}

func canonicalFloat(f float64) (ID, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	return ID(strconv.FormatFloat(f, 'f', -1, 64)), true
}
