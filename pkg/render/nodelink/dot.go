package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/vmslayers/pkg/availability"
	"github.com/matzehuels/vmslayers/pkg/layer"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds publishers and declaration counts to node labels and
	// numbers the edges of layers with alternative declarations.
	Detailed bool
}

type decl struct {
	publishers []string
	requires   []layer.Layer
}

type edge struct {
	from, to layer.Layer
	alt      int
}

// graph is the deduplicated view of a set of offerings.
type graph struct {
	nodes layer.Set
	decls map[layer.Layer][]*decl
}

func build(offerings []layer.Offering, result availability.Result) graph {
	g := graph{
		nodes: layer.NewSet(result.Available()...),
		decls: make(map[layer.Layer][]*decl),
	}
	for _, l := range result.Unavailable() {
		g.nodes.Add(l)
	}
	byKey := make(map[string]*decl)
	for _, o := range offerings {
		for _, d := range o.Dependencies {
			g.nodes.Add(d.Layer)
			reqs := d.Requirements()
			for _, r := range reqs {
				g.nodes.Add(r)
			}
			k := d.Key()
			existing, ok := byKey[k]
			if !ok {
				existing = &decl{requires: reqs}
				byKey[k] = existing
				g.decls[d.Layer] = append(g.decls[d.Layer], existing)
			}
			if o.Publisher != "" && !slices.Contains(existing.publishers, o.Publisher) {
				existing.publishers = append(existing.publishers, o.Publisher)
			}
		}
	}
	for _, ds := range g.decls {
		slices.SortFunc(ds, func(a, b *decl) int {
			return slices.CompareFunc(a.requires, b.requires, layer.Compare)
		})
	}
	return g
}

func (g graph) edges() []edge {
	var out []edge
	for _, from := range g.nodes.Sorted() {
		for i, d := range g.decls[from] {
			for _, to := range d.requires {
				out = append(out, edge{from: from, to: to, alt: i + 1})
			}
		}
	}
	return out
}

// ToDOT converts offerings and their resolved availability to Graphviz DOT.
// The result's layers are always drawn, even when offerings is empty.
func ToDOT(offerings []layer.Offering, result availability.Result, opts Options) string {
	g := build(offerings, result)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, l := range g.nodes.Sorted() {
		label := fmtLabel(l, g.decls[l], opts.Detailed)
		attrs := fmtAttrs(l, result, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", l.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.edges() {
		if opts.Detailed && len(g.decls[e.from]) > 1 {
			fmt.Fprintf(&buf, "  %q -> %q [label=\"alt %d\"];\n", e.from.String(), e.to.String(), e.alt)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.from.String(), e.to.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(l layer.Layer, decls []*decl, detailed bool) string {
	if !detailed {
		return l.String()
	}
	var pubs []string
	for _, d := range decls {
		for _, p := range d.publishers {
			if !slices.Contains(pubs, p) {
				pubs = append(pubs, p)
			}
		}
	}
	slices.Sort(pubs)

	parts := []string{fmt.Sprintf("declarations: %d", len(decls))}
	if len(pubs) > 0 {
		parts = append(parts, "publishers: "+strings.Join(pubs, ", "))
	}
	return l.String() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(l layer.Layer, result availability.Result, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case result.IsAvailable(l):
		attrs = append(attrs, "fillcolor=\"#b7e4c7\"")
	case result.IsMissing(l):
		attrs = append(attrs, "style=\"rounded,dashed\"", "fontcolor=dimgray")
	default:
		attrs = append(attrs, "fillcolor=lightgrey", "fontcolor=dimgray")
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

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one anchored at the origin.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
