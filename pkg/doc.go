// Package pkg provides the libraries behind vmslayers.
//
// # Overview
//
// Publishers in a vehicle messaging system offer data layers. A layer can
// only be served when every layer it depends on is served too, and a layer
// may be declared several times with different requirements. vmslayers
// computes which layers are available given every publisher's offering.
//
// The packages are organized by role:
//
//  1. [layer] - Layers, dependency declarations and offerings
//  2. [availability] - Fixed-point resolution and sequenced availability state
//  3. [routing] - Subscriber bookkeeping and message fan-out
//  4. [broker] - Publisher registry tying offerings, resolution and routing together
//  5. [pipeline] - Cached resolve and render stages shared by CLI and broker
//  6. [io], [render/nodelink] - Offering files, reports and graph drawings
//  7. [cache], [errors], [observability], [buildinfo] - Infrastructure
//
// # Data Flow
//
//	offering files (TOML/JSON)
//	         ↓
//	io.ImportOfferings
//	         ↓
//	broker.SetOffering ──→ pipeline.Runner ──→ availability.Resolve
//	         ↓                     ↓
//	availability listeners    cache (file / redis)
//
// [layer]: github.com/matzehuels/vmslayers/pkg/layer
// [availability]: github.com/matzehuels/vmslayers/pkg/availability
// [routing]: github.com/matzehuels/vmslayers/pkg/routing
// [broker]: github.com/matzehuels/vmslayers/pkg/broker
// [pipeline]: github.com/matzehuels/vmslayers/pkg/pipeline
// [io]: github.com/matzehuels/vmslayers/pkg/io
// [render/nodelink]: github.com/matzehuels/vmslayers/pkg/render/nodelink
// [cache]: github.com/matzehuels/vmslayers/pkg/cache
// [errors]: github.com/matzehuels/vmslayers/pkg/errors
// [observability]: github.com/matzehuels/vmslayers/pkg/observability
// [buildinfo]: github.com/matzehuels/vmslayers/pkg/buildinfo
package pkg
