package socialgraph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Metrics bundles the per-node analytics computed upstream of this tool
// (never inside it). They are attached verbatim to view nodes for display.
// All maps are optional and keyed by canonical id.
type Metrics struct {
	Pagerank    map[ID]float64   `json:"pagerank,omitempty" bson:"pagerank,omitempty"`
	Betweenness map[ID]float64   `json:"betweenness,omitempty" bson:"betweenness,omitempty"`
	Engagement  map[ID]float64   `json:"engagement,omitempty" bson:"engagement,omitempty"`
	Communities map[ID]Community `json:"communities,omitempty" bson:"communities,omitempty"`
}

// Community is a cluster label. Upstream pipelines emit either numeric
// cluster indices or string labels; both decode into the string form.
type Community string

// UnmarshalJSON accepts a JSON string or number.
func (c *Community) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Community(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Community(n.String())
	return nil
}

// ReadMetricsFile reads a JSON metrics file: a single object holding the
// optional pagerank/betweenness/engagement/communities maps.
func ReadMetricsFile(path string) (*Metrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	var m Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &m, nil
}
