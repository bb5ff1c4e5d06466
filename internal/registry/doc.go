// Package registry maps node type names to the sockets they declare and the
// behavior that computes their outputs.
//
// A Registry is an explicit value handed to whoever needs it; nothing is
// looked up through package-level state. Modules register their node types
// at startup. Bind then resolves the executor of every node of a tree once,
// before evaluation starts, so that dispatch during evaluation is a plain
// type switch over the two Executor variants.
package registry
