// Package strategy holds the registry of logger strategies.
//
// A Descriptor bundles everything one logging framework needs: the marker
// annotation that selects it, the logger type of the generated field and the
// recipe for the initializer call. Descriptors are identified by an opaque
// Tag; generated declarations are stamped with that tag and looked up again
// in the second phase, so dispatch never depends on field names.
//
// Adding a framework means adding one Descriptor to the registry. The
// synthesizers iterate the registry and never switch on a concrete strategy.
package strategy
