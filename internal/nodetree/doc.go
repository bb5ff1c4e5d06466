// Package nodetree is the in-memory node graph an evaluator walks.
//
// A Tree owns an ordered list of nodes. Each node has ordered input and
// output sockets with a value type, a stable identifier and an availability
// flag. An input socket is fed by at most one upstream source: an output
// socket of another node, or a GroupInput slot standing for an unconnected
// input of an enclosing group. Output sockets fan out to any number of
// inputs.
//
// Trees are assembled with a Builder and are read-only afterwards. The
// builder records links as given; Validate reports malformed shapes such as
// inputs with several upstream sources or dependency cycles, so consumers
// can decide how strict to be.
package nodetree
