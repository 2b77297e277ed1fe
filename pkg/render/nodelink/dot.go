package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ttgen/pkg/layout"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds each node's size and resolved center to its label.
	Detailed bool
}

// ToDOT converts a layout tree to Graphviz DOT. placements, as returned by
// layout.Resolver, supply node centers for detailed labels and may be nil.
func ToDOT(root layout.Node, placements []layout.Placement, opts Options) string {
	at := make(map[string]layout.Placement, len(placements))
	for _, p := range placements {
		at[p.Path] = p
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges, refs []string
	seen := map[string]bool{}
	var walk func(n layout.Node)
	walk = func(n layout.Node) {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Path(), strings.Join(fmtAttrs(n, at, opts.Detailed), ", "))
		if key := refKey(n); key != "" {
			if !seen[key] {
				seen[key] = true
				fmt.Fprintf(&buf, "  %q [shape=ellipse, style=filled, fillcolor=lightgrey, label=%q];\n", key, key)
			}
			refs = append(refs, fmt.Sprintf("  %q -> %q [style=dashed, arrowhead=none];\n", n.Path(), key))
		}
		for _, c := range n.Children() {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", n.Path(), c.Path()))
			walk(c)
		}
	}
	walk(root)

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	for _, r := range refs {
		buf.WriteString(r)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func refKey(n layout.Node) string {
	switch v := n.(type) {
	case *layout.Item:
		return v.Key()
	case *layout.OpenDeck:
		return v.DeckKey()
	}
	return ""
}

func fmtLabel(n layout.Node, at map[string]layout.Placement, detailed bool) string {
	label := n.Tag()
	if !detailed {
		return label
	}
	parts := []string{n.Path(), fmt.Sprintf("%.2f × %.2f", n.Width(), n.Height())}
	if p, ok := at[n.Path()]; ok {
		parts = append(parts, fmt.Sprintf("at (%.2f, %.2f)", p.Rect.CenterX(), p.Rect.CenterY()))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n layout.Node, at map[string]layout.Placement, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, at, detailed))}
	if n.Tag() == layout.TagSpacer {
		attrs = append(attrs, "style=\"rounded,dashed\"", "fontcolor=grey40")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales from the
// origin with its natural size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
