package socialgraph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ScoreMap holds externally computed composite ranking scores keyed by raw
// identifier or username. Unlike a plain map it remembers entry order:
// ranked selection breaks score ties by the order entries arrived in, so
// the order is part of the data.
//
// The zero value is empty and ready to use.
type ScoreMap struct {
	keys   []string
	values map[string]float64
}

// NewScoreMap returns an empty score map.
func NewScoreMap() *ScoreMap {
	return &ScoreMap{values: make(map[string]float64)}
}

// Len returns the number of entries.
func (m *ScoreMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the raw keys in insertion order. The returned slice is a copy.
func (m *ScoreMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get returns the score for a raw key and whether it exists.
func (m *ScoreMap) Get(key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set inserts or updates a score. New keys append to the insertion order;
// updating an existing key keeps its original position.
func (m *ScoreMap) Set(key string, score float64) {
	if m.values == nil {
		m.values = make(map[string]float64)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = score
}

// UnmarshalJSON decodes a JSON object of key → number, preserving the
// object's textual key order. Entries whose value is not a number are
// skipped silently, matching the tolerant decoding of [Snapshot].
func (m *ScoreMap) UnmarshalJSON(data []byte) error {
	*m = ScoreMap{values: make(map[string]float64)}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("scores: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("scores: expected object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("scores: %w", err)
		}
		key, _ := keyTok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("scores value: %w", err)
		}
		var n json.Number
		if err := json.Unmarshal(value, &n); err != nil {
			continue
		}
		f, err := n.Float64()
		if err != nil {
			continue
		}
		m.Set(key, f)
	}
	return nil
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (m *ScoreMap) MarshalJSON() ([]byte, error) {
	if m == nil || len(m.keys) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
