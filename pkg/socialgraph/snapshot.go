package socialgraph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Profile carries the raw attributes of a single account as decoded from a
// snapshot, keyed by its canonical [ID]. Snapshots come from best-effort
// collection, so every field except ID is optional.
type Profile struct {
	ID          ID     `json:"id" bson:"id"`
	Username    string `json:"username,omitempty" bson:"username,omitempty"`
	DisplayName string `json:"displayName,omitempty" bson:"displayName,omitempty"`
	Bio         string `json:"bio,omitempty" bson:"bio,omitempty"`
	Provenance  string `json:"provenance,omitempty" bson:"provenance,omitempty"`
	Shadow      bool   `json:"shadow,omitempty" bson:"shadow,omitempty"`
}

// IsShadow reports whether the profile came from shadow provenance.
// Shadow accounts are placeholders observed only through edges (never
// crawled directly) and are hidden from views unless explicitly requested.
func (p Profile) IsShadow() bool {
	return p.Shadow || strings.EqualFold(p.Provenance, "shadow")
}

// Edge is a directed relationship between two accounts. Mutual marks a
// reciprocal follow; only mutual edges participate in adjacency, distance,
// and connectivity computations. Shadow marks edges observed through shadow
// provenance.
type Edge struct {
	Source ID   `json:"source" bson:"source"`
	Target ID   `json:"target" bson:"target"`
	Mutual bool `json:"mutual,omitempty" bson:"mutual,omitempty"`
	Shadow bool `json:"shadow,omitempty" bson:"shadow,omitempty"`
}

// Snapshot is a decoded raw graph: the full set of known accounts and the
// directed edges between them, plus optional inline ranking scores, metric
// maps, and a seed list. It is the single input format of the view builder.
//
// Decoding is deliberately forgiving. Nodes may arrive as an array or as an
// object keyed by id; identifiers may be strings, numbers, or {"id": ...}
// wrappers. Nodes without any usable identifier and edges missing either
// endpoint are skipped silently and only counted, never raised as errors.
type Snapshot struct {
	Nodes []Profile
	Edges []Edge

	// Seeds optionally embeds the seed handles/ids the snapshot was
	// collected around. Callers may override them per build.
	Seeds []string

	// Tpotness optionally embeds externally computed composite ranking
	// scores, keyed by id or username. Entry order is preserved because
	// ranking ties resolve by it.
	Tpotness *ScoreMap

	// Metrics optionally embeds per-node analytics for attachment.
	Metrics *Metrics

	// SkippedNodes and SkippedEdges count entries dropped during decoding
	// (missing identifiers, duplicate ids, malformed values).
	SkippedNodes int
	SkippedEdges int
}

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// MarshalSnapshot converts a snapshot to indented JSON bytes.
// Nodes are always written in array form regardless of how they arrived.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeSnapshotTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSnapshotFile writes a snapshot to a JSON file.
// The file is created with 0644 permissions.
func WriteSnapshotFile(s *Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeSnapshotTo(s, f)
}

// ReadSnapshotFile reads a JSON file and returns the decoded snapshot.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// ReadSnapshot decodes a JSON snapshot from an io.Reader.
// Use ReadSnapshotFile for files or pass bytes.NewReader for in-memory data.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &s, nil
}

func writeSnapshotTo(s *Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// =============================================================================
// Decoding
// =============================================================================

type snapshotEnvelope struct {
	Nodes    json.RawMessage   `json:"nodes"`
	Edges    []json.RawMessage `json:"edges"`
	Seeds    []string          `json:"seeds"`
	Tpotness *ScoreMap         `json:"tpotness"`
	// Older snapshots used the long key.
	TpotnessScores *ScoreMap `json:"tpotnessScores"`
	Metrics        *Metrics  `json:"metrics"`
}

// rawProfile tolerates the field aliases seen in collected snapshots.
type rawProfile struct {
	ID          json.RawMessage `json:"id"`
	Username    string          `json:"username"`
	Handle      string          `json:"handle"`
	DisplayName string          `json:"displayName"`
	Name        string          `json:"name"`
	Bio         string          `json:"bio"`
	Provenance  string          `json:"provenance"`
	Shadow      bool            `json:"shadow"`
}

type rawEdge struct {
	Source json.RawMessage `json:"source"`
	Target json.RawMessage `json:"target"`
	Mutual bool            `json:"mutual"`
	Shadow bool            `json:"shadow"`
}

// UnmarshalJSON decodes the tolerant snapshot format described on [Snapshot].
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var env snapshotEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	*s = Snapshot{Seeds: env.Seeds, Metrics: env.Metrics}
	s.Tpotness = env.Tpotness
	if s.Tpotness == nil {
		s.Tpotness = env.TpotnessScores
	}

	if err := s.decodeNodes(env.Nodes); err != nil {
		return err
	}
	for _, raw := range env.Edges {
		var re rawEdge
		if err := json.Unmarshal(raw, &re); err != nil {
			s.SkippedEdges++
			continue
		}
		src, okS := CanonicalIDJSON(re.Source)
		dst, okT := CanonicalIDJSON(re.Target)
		if !okS || !okT {
			s.SkippedEdges++
			continue
		}
		s.Edges = append(s.Edges, Edge{Source: src, Target: dst, Mutual: re.Mutual, Shadow: re.Shadow})
	}
	return nil
}

// MarshalJSON writes the canonical snapshot form (nodes as an array).
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := struct {
		Nodes    []Profile `json:"nodes"`
		Edges    []Edge    `json:"edges"`
		Seeds    []string  `json:"seeds,omitempty"`
		Tpotness *ScoreMap `json:"tpotness,omitempty"`
		Metrics  *Metrics  `json:"metrics,omitempty"`
	}{
		Nodes:    s.Nodes,
		Edges:    s.Edges,
		Seeds:    s.Seeds,
		Tpotness: s.Tpotness,
		Metrics:  s.Metrics,
	}
	if out.Nodes == nil {
		out.Nodes = []Profile{}
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	return json.Marshal(out)
}

// decodeNodes handles both node container shapes. Array order, or object key
// order for the map form, becomes the snapshot's node order; fallback ranking
// depends on it, so it must survive decoding.
func (s *Snapshot) decodeNodes(data json.RawMessage) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	seen := make(map[ID]bool)
	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("nodes array: %w", err)
		}
		for _, item := range items {
			s.appendNode(item, "", seen)
		}
	case '{':
		dec := json.NewDecoder(bytes.NewReader(data))
		if _, err := dec.Token(); err != nil {
			return fmt.Errorf("nodes object: %w", err)
		}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return fmt.Errorf("nodes object: %w", err)
			}
			key, _ := keyTok.(string)
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return fmt.Errorf("nodes object value: %w", err)
			}
			s.appendNode(value, key, seen)
		}
	default:
		return fmt.Errorf("nodes: expected array or object")
	}
	return nil
}

// appendNode decodes one node value. The id is taken from the node's own id
// field, then the enclosing object key, then the username, in that order.
func (s *Snapshot) appendNode(raw json.RawMessage, key string, seen map[ID]bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		s.SkippedNodes++
		return
	}
	var rp rawProfile
	if err := json.Unmarshal(raw, &rp); err != nil {
		s.SkippedNodes++
		return
	}

	username := rp.Username
	if username == "" {
		username = rp.Handle
	}
	display := rp.DisplayName
	if display == "" {
		display = rp.Name
	}

	id, ok := CanonicalIDJSON(rp.ID)
	if !ok && key != "" {
		id, ok = CanonicalID(key)
	}
	if !ok && username != "" {
		id, ok = CanonicalID(username)
	}
	if !ok || seen[id] {
		s.SkippedNodes++
		return
	}

	seen[id] = true
	s.Nodes = append(s.Nodes, Profile{
		ID:          id,
		Username:    username,
		DisplayName: display,
		Bio:         rp.Bio,
		Provenance:  rp.Provenance,
		Shadow:      rp.Shadow,
	})
}
