package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/flockview/flockview/pkg/socialgraph"
)

// Position is one node's 2-D layout coordinate. The JSON form is the
// compact pair [x, y]; decoding also accepts {"x": ..., "y": ...} objects
// since previous-frame positions arrive from assorted renderers.
type Position struct {
	X float64 `bson:"x"`
	Y float64 `bson:"y"`
}

// MarshalJSON encodes the position as [x, y].
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes [x, y] pairs or {"x": ..., "y": ...} objects.
func (p *Position) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return fmt.Errorf("position object: %w", err)
		}
		p.X, p.Y = obj.X, obj.Y
		return nil
	}

	var pair []float64
	if err := json.Unmarshal(trimmed, &pair); err != nil {
		return fmt.Errorf("position pair: %w", err)
	}
	if len(pair) < 2 {
		return fmt.Errorf("position pair has %d coordinates, need 2", len(pair))
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

// PositionMap holds one frame of node positions keyed by canonical id.
type PositionMap map[socialgraph.ID]Position

// =============================================================================
// Position Serialization API
// =============================================================================

// MarshalPositions converts a position map to indented JSON bytes.
func MarshalPositions(m PositionMap) ([]byte, error) {
	var buf bytes.Buffer
	if err := writePositionsTo(m, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePositionsFile writes a position map to a JSON file.
// The file is created with 0644 permissions.
func WritePositionsFile(m PositionMap, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writePositionsTo(m, f)
}

// ReadPositionsFile reads a JSON file and returns the decoded position map.
func ReadPositionsFile(path string) (PositionMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPositions(f)
}

// ReadPositions decodes a JSON position map from an io.Reader.
func ReadPositions(r io.Reader) (PositionMap, error) {
	var m PositionMap
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return m, nil
}

func writePositionsTo(m PositionMap, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
