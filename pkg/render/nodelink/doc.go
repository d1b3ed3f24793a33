// Package nodelink renders layer dependency graphs as node-link diagrams.
//
// # Overview
//
// Every layer named by an offering becomes a box; every declared dependency
// becomes an arrow from the layer to the layer it requires. Node styling
// reflects the resolved availability:
//
//   - available layers are filled
//   - unavailable layers are grey
//   - missing layers (required but never declared) are dashed
//
// # Usage
//
// Resolve first, then convert to DOT and render to SVG:
//
//	result := availability.Resolve(offerings)
//	dot := nodelink.ToDOT(offerings, result, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Alternatives
//
// A layer declared more than once is available if any one declaration is
// satisfied. With [Options.Detailed] set, edges are labelled with the index of
// the declaration they came from and node labels list the publishers that
// declared the layer.
//
// The DOT output is deterministic: nodes and edges are emitted in layer
// order, so it can be diffed or cached.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
