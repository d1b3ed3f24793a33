// Package availability computes which VMS layers can currently be produced.
//
// Publishers declare, through [layer.Offering] values, that they can produce
// a layer once some other layers are available. Given the complete set of
// offerings, [Resolve] derives the layers whose requirements are satisfied,
// transitively, and the layers that are not.
//
// # Algorithm
//
// Resolution is a fixed-point closure over the dependency hypergraph:
//
//  1. Every declaration across every offering is collected by layer.
//     Identical declarations collapse into one.
//  2. Starting from an empty available set, each pass scans the declared
//     layers that are not yet available. A layer becomes available as soon as
//     any one of its declarations has all of its requirements available.
//     Layers with an empty requirement set are available in the first pass.
//  3. Passes repeat until one adds nothing.
//
// A layer that depends on itself, or on any cycle of layers with no way in
// from outside the cycle, never becomes available: no member of the cycle
// can be added before another member already has been.
//
// # Results
//
// A [Result] partitions every layer that appears in the input:
//
//   - Available: at least one declaration is fully satisfied.
//   - Unavailable: everything else, whether declared or only required.
//   - Missing: the unavailable layers that are required by some declaration
//     but declared by no offering.
//
// Results are values. The package holds no locks and keeps no global state;
// callers that share a [Resolver] between goroutines synchronize access
// themselves. [Diff] and [State] help callers that need to announce changes
// between successive resolutions.
package availability
