// Package nodelink renders a built layout tree as a node-link diagram.
//
// Layout nodes appear as boxes connected top-down from the root; every
// component a node places is drawn once as an ellipse, linked to the nodes
// that reference it by a dashed edge.
//
//	dot := nodelink.ToDOT(res.Layout, res.Placements, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToDOT] produces plain Graphviz DOT that can also be fed to external
// Graphviz tools. [RenderSVG] renders in-process through
// [github.com/goccy/go-graphviz].
package nodelink
