// Package broker is the publisher-facing side of VMS.
//
// A [Broker] keeps the latest [layer.Offering] of every registered publisher,
// recomputes layer availability whenever an offering changes, and tells
// availability listeners what became available or unavailable. It also
// routes published messages to the subscribers a [routing.Router] knows about.
//
// Resolution itself lives in package availability and is a pure function;
// the broker is the piece that owns synchronization and state. Offering
// updates are serialized, each availability change is stamped with a sequence
// number, and listeners receive states in sequence order. Reads such as
// [Broker.Availability] and [Broker.Publish] never wait for a resolution in
// progress.
//
// # Usage
//
//	b := broker.New(broker.Options{Logger: logger})
//	nav, _ := b.Register("navigation")
//	state, err := b.SetOffering(ctx, nav, layer.NewOffering(
//	    layer.NewDependency(layer.New(1, 0), layer.New(2, 0)),
//	    layer.NewDependency(layer.New(2, 0)),
//	))
//	fmt.Println(state.Sequence, state.Result.Available())
package broker
