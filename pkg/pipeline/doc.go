// Package pipeline runs the resolve and render stages with caching.
//
// The CLI commands and the broker share one [Runner] so that resolution
// results and rendered graphs are cached the same way regardless of entry
// point.
//
// # Stages
//
//  1. Resolve: compute availability from a set of offerings
//  2. Render: draw the resolved dependency graph as DOT or SVG
//
// Each stage is cached under a key derived from the canonical offering set,
// so offerings that differ only in order, duplication or publisher names
// share entries.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, offerings, pipeline.Options{Format: pipeline.FormatSVG})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("layers.svg", result.Artifact, 0o644)
//
// Run a single stage:
//
//	avail, cached := runner.ResolveWithCacheInfo(ctx, offerings)
//	svg, err := runner.Render(ctx, offerings, avail, opts)
package pipeline
