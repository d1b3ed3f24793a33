// Package layer defines the data model shared by every vmslayers component.
//
// A [Layer] identifies a stream of data a publisher can produce, keyed by an
// (id, version) pair. Publishers describe what they can produce with a
// [Dependency], which pairs a layer with the layers it needs before it can be
// produced, and submit those dependencies in bulk as an [Offering].
//
// # Text Form
//
// Layers are written as "id:version" in files and on the command line:
//
//	l, err := layer.Parse("1:2") // Layer{ID: 1, Version: 2}
//	fmt.Println(l)               // 1:2
//
// # Validation
//
// Callers that accept layers from outside the process call Validate at the
// boundary. Negative ids and versions are rejected with an
// errors.ErrCodeInvalidLayer coded error; downstream code (resolution,
// routing) assumes validated input and never fails.
package layer
