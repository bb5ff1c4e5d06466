// Package evaluator computes socket values of a node tree on demand.
//
// Evaluation is pull based. Requesting an input socket computes the node
// feeding it, which in turn requests that node's own inputs, and so on up
// the tree. Computed outputs are forwarded to every linked input and parked
// in a table until read; reading removes the entry, so every value has
// exactly one owner at any time. A node reachable along several paths is
// computed once because all of its consumers are served by the first
// forward.
//
// All intermediate values live in an arena owned by the Evaluator. Values
// nobody consumed are destructed before Evaluate returns, on every exit
// path.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vk/geonodes/internal/arena"
	"github.com/vk/geonodes/internal/conversion"
	"github.com/vk/geonodes/internal/ctxlog"
	"github.com/vk/geonodes/internal/nodetree"
	"github.com/vk/geonodes/internal/registry"
	"github.com/vk/geonodes/internal/value"
)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithConversions replaces the default conversion registry.
func WithConversions(c *conversion.Registry) Option {
	return func(e *Evaluator) {
		e.conversions = c
	}
}

// WithArena makes the evaluator allocate from a.
func WithArena(a *arena.Arena) Option {
	return func(e *Evaluator) {
		e.arena = a
	}
}

// Evaluator runs one evaluation over a bound tree. It is single use and not
// safe for concurrent use.
type Evaluator struct {
	id          uuid.UUID
	binding     *registry.Binding
	conversions *conversion.Registry
	arena       *arena.Arena

	ctx    context.Context
	logger *slog.Logger
	table  map[*nodetree.InputSocket]value.Pointer
	used   bool

	diagnostics []Diagnostic
	executions  map[*nodetree.Node]int
}

// New creates an evaluator for the nodes resolved in binding.
func New(binding *registry.Binding, opts ...Option) *Evaluator {
	e := &Evaluator{
		id:         uuid.New(),
		binding:    binding,
		table:      make(map[*nodetree.InputSocket]value.Pointer),
		executions: make(map[*nodetree.Node]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.conversions == nil {
		e.conversions = conversion.Default()
	}
	if e.arena == nil {
		e.arena = arena.New()
	}
	return e
}

// ID returns the evaluation id attached to every log line.
func (e *Evaluator) ID() uuid.UUID { return e.id }

// Evaluate takes ownership of the initial values, forwards them to their
// linked inputs and returns one owned value per requested input, in order.
func (e *Evaluator) Evaluate(ctx context.Context, initial map[*nodetree.OutputSocket]value.Pointer, requested []*nodetree.InputSocket) []value.Pointer {
	if e.used {
		panic("evaluator: Evaluate called twice")
	}
	e.used = true
	e.ctx = ctxlog.With(ctx, "evaluation_id", e.id.String())
	e.logger = ctxlog.FromContext(e.ctx)
	defer e.destructPending()

	e.logger.Debug("Evaluation started.", "initial", len(initial), "requested", len(requested))
	for socket, v := range initial {
		e.forwardToInputs(socket, v)
	}

	results := make([]value.Pointer, len(requested))
	for i, socket := range requested {
		results[i] = e.getInputValue(socket)
	}

	stats := e.arena.Stats()
	e.logger.Debug("Evaluation finished.",
		"nodes_executed", len(e.executions),
		"allocations", stats.Allocations,
		"bytes", stats.Bytes,
		"diagnostics", len(e.diagnostics),
	)
	return results
}

// Diagnostics returns the type mismatches resolved with default values.
func (e *Evaluator) Diagnostics() []Diagnostic { return e.diagnostics }

// Executions returns how often n was executed.
func (e *Evaluator) Executions(n *nodetree.Node) int { return e.executions[n] }

// ArenaStats reports the evaluator's allocations.
func (e *Evaluator) ArenaStats() arena.Stats { return e.arena.Stats() }

func (e *Evaluator) getInputValue(socket *nodetree.InputSocket) value.Pointer {
	if v, ok := e.pop(socket); ok {
		return v
	}

	if count := socket.UpstreamCount(); count > 1 {
		panic(fmt.Sprintf("evaluator: input %s has %d upstream sources", socket, count))
	}

	if slots := socket.LinkedGroupInputs(); len(slots) == 1 {
		return e.groupInputValue(socket, slots[0])
	}

	linked := socket.LinkedSockets()
	if len(linked) == 0 {
		return e.copyDefault(socket.Type(), socket.DefaultValue())
	}

	e.computeAndForward(linked[0])
	v, ok := e.pop(socket)
	if !ok {
		panic(fmt.Sprintf("evaluator: computing %s did not produce a value for %s", linked[0], socket))
	}
	return v
}

func (e *Evaluator) groupInputValue(socket *nodetree.InputSocket, slot *nodetree.GroupInput) value.Pointer {
	if slot.Type().Equals(socket.Type()) {
		return e.copyDefault(socket.Type(), slot.DefaultValue())
	}
	return e.convertInto(slot.Type(), slot.DefaultValue(), socket, "group input "+slot.Identifier())
}

func (e *Evaluator) computeAndForward(from *nodetree.OutputSocket) {
	node := from.Node()
	exec, ok := e.binding.Executor(node)
	if !ok {
		panic(fmt.Sprintf("evaluator: node %s (%s) has no executor", node.ID(), node.Type()))
	}

	inputs := make(map[string]value.Pointer, len(node.Inputs()))
	for _, socket := range node.Inputs() {
		if !socket.Available() {
			continue
		}
		inputs[socket.Identifier()] = e.getInputValue(socket)
	}

	e.logger.Debug("Executing node.", "node", node.ID(), "type", node.Type())
	e.executions[node]++
	params := registry.NewParams(e.ctx, node, e.arena, inputs)
	registry.Execute(exec, params)

	for _, socket := range node.Outputs() {
		if !socket.Available() {
			continue
		}
		v, ok := params.ExtractOutput(socket.Identifier())
		if !ok {
			e.logger.Warn("Node did not set output, using default.", "node", node.ID(), "output", socket.Identifier())
			v = value.NewDefault(e.arena, socket.Type())
		}
		e.forwardToInputs(socket, v)
	}
	params.DiscardOutputs()
}

// forwardToInputs hands v to every available input linked to from. Inputs of
// another type get a converted value, or their type's default when no
// conversion exists. Inputs of the same type share v: the first one takes
// it, every further one gets a copy, and with no such input v is destructed.
func (e *Evaluator) forwardToInputs(from *nodetree.OutputSocket, v value.Pointer) {
	var sameType []*nodetree.InputSocket
	for _, to := range from.LinkedSockets() {
		if !to.Available() {
			continue
		}
		if to.Type().Equals(v.Type()) {
			sameType = append(sameType, to)
			continue
		}
		e.store(to, e.convertInto(v.Type(), v.Get(), to, from.String()))
	}

	if len(sameType) == 0 {
		v.Destruct()
		return
	}
	e.store(sameType[0], v)
	for _, to := range sameType[1:] {
		e.store(to, e.copyDefault(v.Type(), v.Get()))
	}
}

// convertInto returns a fresh value of to's type derived from src. When no
// conversion applies the target default is used and a diagnostic recorded.
func (e *Evaluator) convertInto(fromType *value.Type, src any, to *nodetree.InputSocket, origin string) value.Pointer {
	slot := value.Allocate(e.arena, to.Type())
	if e.conversions.IsConvertible(fromType, to.Type()) {
		err := e.conversions.Convert(fromType, to.Type(), src, slot)
		if err == nil {
			return value.NewPointer(to.Type(), slot)
		}
		e.diagnose(Diagnostic{Kind: ConversionFailed, From: origin, To: to.String(), FromType: fromType, ToType: to.Type(), Err: err})
	} else {
		e.diagnose(Diagnostic{Kind: NotConvertible, From: origin, To: to.String(), FromType: fromType, ToType: to.Type()})
	}
	to.Type().CopyToUninitialized(to.Type().DefaultValue(), slot)
	return value.NewPointer(to.Type(), slot)
}

func (e *Evaluator) copyDefault(t *value.Type, src any) value.Pointer {
	slot := value.Allocate(e.arena, t)
	t.CopyToUninitialized(src, slot)
	return value.NewPointer(t, slot)
}

func (e *Evaluator) diagnose(d Diagnostic) {
	e.logger.Debug("Using default for unconvertible value.", "from", d.From, "to", d.To,
		"from_type", d.FromType.Name(), "to_type", d.ToType.Name())
	e.diagnostics = append(e.diagnostics, d)
}

func (e *Evaluator) store(socket *nodetree.InputSocket, v value.Pointer) {
	if _, exists := e.table[socket]; exists {
		panic(fmt.Sprintf("evaluator: value for %s is already pending", socket))
	}
	e.table[socket] = v
}

func (e *Evaluator) pop(socket *nodetree.InputSocket) (value.Pointer, bool) {
	v, ok := e.table[socket]
	if ok {
		delete(e.table, socket)
	}
	return v, ok
}

// destructPending ends the lifetime of values nobody consumed.
func (e *Evaluator) destructPending() {
	if len(e.table) > 0 {
		e.logger.Debug("Destructing unconsumed values.", "count", len(e.table))
	}
	for socket, v := range e.table {
		v.Destruct()
		delete(e.table, socket)
	}
}
