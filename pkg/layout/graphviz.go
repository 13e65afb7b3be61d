package layout

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/flockview/flockview/pkg/socialgraph"
	"github.com/flockview/flockview/pkg/view"
)

// Engine names a Graphviz layout engine. Force-directed engines suit social
// graphs best; dot's layered layout is kept for debugging.
type Engine string

const (
	EngineNeato Engine = "neato"
	EngineFDP   Engine = "fdp"
	EngineSFDP  Engine = "sfdp"
	EngineCirco Engine = "circo"
	EngineTwopi Engine = "twopi"
	EngineDot   Engine = "dot"

	// DefaultEngine is used wherever callers leave the engine blank.
	DefaultEngine = EngineNeato
)

// ErrUnknownEngine is returned by [Compute] for engine names outside the
// supported set.
var ErrUnknownEngine = errors.New("unknown layout engine")

var engines = map[Engine]bool{
	EngineNeato: true,
	EngineFDP:   true,
	EngineSFDP:  true,
	EngineCirco: true,
	EngineTwopi: true,
	EngineDot:   true,
}

// Valid reports whether the engine is one of the supported names.
func (e Engine) Valid() bool { return engines[e] }

// Compute lays out a view's visible graph with Graphviz and returns fresh
// positions per node id, in layout units. The caller typically feeds the
// result through [Align] against the previous frame before rendering.
//
// Positions depend only on the view and the engine; Graphviz's default
// initial placement is deterministic, so identical inputs give identical
// output.
func Compute(ctx context.Context, v *view.View, engine Engine) (PositionMap, error) {
	if engine == "" {
		engine = DefaultEngine
	}
	if !engine.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
	if len(v.Nodes) == 0 {
		return PositionMap{}, nil
	}

	dot, ids := buildDOT(v, engine)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.Format("plain"), &buf); err != nil {
		return nil, fmt.Errorf("layout %s: %w", engine, err)
	}
	return parsePlain(buf.Bytes(), ids)
}

// buildDOT converts the view to DOT for position computation. Node names
// are synthetic indices into the returned id slice, which sidesteps every
// DOT quoting concern for arbitrary account ids. Node sizes follow the
// display hint so the overlap removal spreads large nodes further apart.
func buildDOT(v *view.View, engine Engine) (string, []socialgraph.ID) {
	ids := make([]socialgraph.ID, len(v.Nodes))
	index := make(map[socialgraph.ID]int, len(v.Nodes))

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", engine)
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=circle, fixedsize=true];\n")
	buf.WriteString("\n")

	for i := range v.Nodes {
		n := &v.Nodes[i]
		ids[i] = n.ID
		index[n.ID] = i
		size := 0.3 * n.Val
		if size <= 0 {
			size = 0.3
		}
		fmt.Fprintf(&buf, "  n%d [width=%.3f, height=%.3f];\n", i, size, size)
	}

	buf.WriteString("\n")
	for _, e := range v.Links {
		src, okSrc := index[e.Source]
		dst, okDst := index[e.Target]
		if !okSrc || !okDst {
			continue
		}
		fmt.Fprintf(&buf, "  n%d -- n%d;\n", src, dst)
	}

	buf.WriteString("}\n")
	return buf.String(), ids
}

// parsePlain extracts node coordinates from Graphviz "plain" output. Each
// node line reads "node name x y width height ...". Lines that do not parse
// are skipped; layout output is advisory and a missing position degrades to
// a renderer default downstream.
func parsePlain(out []byte, ids []socialgraph.ID) (PositionMap, error) {
	pos := make(PositionMap, len(ids))
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] != "node" {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(fields[1], "n"))
		if err != nil || idx < 0 || idx >= len(ids) {
			continue
		}
		x, errX := strconv.ParseFloat(fields[2], 64)
		y, errY := strconv.ParseFloat(fields[3], 64)
		if errX != nil || errY != nil {
			continue
		}
		pos[ids[idx]] = Position{X: x, Y: y}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan layout output: %w", err)
	}
	return pos, nil
}
