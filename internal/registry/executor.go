package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/hashicorp/go-multierror"
	"github.com/vk/geonodes/internal/arena"
	"github.com/vk/geonodes/internal/ctxlog"
	"github.com/vk/geonodes/internal/multifn"
	"github.com/vk/geonodes/internal/nodetree"
	"github.com/vk/geonodes/internal/value"
)

// ErrSignatureMismatch is returned when a pure function does not fit the
// available sockets of a node.
var ErrSignatureMismatch = errors.New("function signature does not match node sockets")

// Executor is how a node computes its outputs. It is either CustomExecute
// or PureFunction.
type Executor interface {
	isExecutor()
}

// CustomExecute runs node specific code over the materialized inputs.
type CustomExecute struct {
	Fn func(p *Params)
}

// PureFunction evaluates a multi-function over a single row.
type PureFunction struct {
	Fn multifn.MultiFunction
}

func (CustomExecute) isExecutor() {}
func (PureFunction) isExecutor()  {}

// Binding holds the executor resolved for every node of one tree.
type Binding struct {
	executors map[*nodetree.Node]Executor
}

// Executor returns the executor bound to n. Group boundary nodes have none.
func (b *Binding) Executor(n *nodetree.Node) (Executor, bool) {
	e, ok := b.executors[n]
	return e, ok
}

// Bind resolves the executor of every node in t. All unknown types and
// mismatched signatures are reported together.
func (r *Registry) Bind(t *nodetree.Tree) (*Binding, error) {
	var result *multierror.Error
	b := &Binding{executors: make(map[*nodetree.Node]Executor)}

	for _, n := range t.Nodes() {
		if n.IsGroupInput() || n.IsGroupOutput() {
			continue
		}
		nt, ok := r.types[n.Type()]
		if !ok {
			result = multierror.Append(result, fmt.Errorf("node %s: %w: %s", n.ID(), ErrUnknownNodeType, n.Type()))
			continue
		}
		if pf, ok := nt.Executor.(PureFunction); ok {
			if err := checkSignature(n, pf.Fn.Signature()); err != nil {
				result = multierror.Append(result, fmt.Errorf("node %s: %w", n.ID(), err))
				continue
			}
		}
		b.executors[n] = nt.Executor
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return b, nil
}

func checkSignature(n *nodetree.Node, sig multifn.Signature) error {
	var inputs, outputs []*value.Type
	for _, s := range n.Inputs() {
		if s.Available() {
			inputs = append(inputs, s.Type())
		}
	}
	for _, s := range n.Outputs() {
		if s.Available() {
			outputs = append(outputs, s.Type())
		}
	}
	if err := matchParams(inputs, sig.Inputs()); err != nil {
		return fmt.Errorf("%w: %s inputs: %v", ErrSignatureMismatch, sig.Name, err)
	}
	if err := matchParams(outputs, sig.Outputs()); err != nil {
		return fmt.Errorf("%w: %s outputs: %v", ErrSignatureMismatch, sig.Name, err)
	}
	return nil
}

func matchParams(sockets []*value.Type, params []multifn.Param) error {
	if len(sockets) != len(params) {
		return fmt.Errorf("%d sockets for %d params", len(sockets), len(params))
	}
	for i, p := range params {
		if !p.Type.Equals(sockets[i]) {
			return fmt.Errorf("param %q is %s, socket is %s", p.Name, p.Type, sockets[i])
		}
	}
	return nil
}

// Execute runs e with p. On return every input of p has been consumed or
// destructed and the outputs are ready to collect.
func Execute(e Executor, p *Params) {
	switch e := e.(type) {
	case CustomExecute:
		e.Fn(p)
	case PureFunction:
		executePure(e.Fn, p)
	default:
		panic(fmt.Sprintf("registry: unsupported executor %T", e))
	}
	p.release()
}

// executePure calls fn over a single row: one read-only input per available
// input socket, one uninitialized output per available output socket.
func executePure(fn multifn.MultiFunction, p *Params) {
	logger := ctxlog.FromContext(p.ctx)
	builder := multifn.NewParamsBuilder(fn, 1)

	var consumed []value.Pointer
	for _, s := range p.node.Inputs() {
		if !s.Available() {
			continue
		}
		v := p.ExtractInput(s.Identifier())
		builder.AddReadonlySingleInput(multifn.NewSpan(v.Type(), v.Get()))
		consumed = append(consumed, v)
	}

	type pending struct {
		identifier string
		ptr        value.Pointer
	}
	var produced []pending
	for _, s := range p.node.Outputs() {
		if !s.Available() {
			continue
		}
		slot := value.Allocate(p.arena, s.Type())
		builder.AddUninitializedSingleOutput(multifn.NewMutableSpan(s.Type(), slot))
		produced = append(produced, pending{s.Identifier(), value.NewPointer(s.Type(), slot)})
	}

	fn.Call(multifn.Range(1), builder.Build())
	logger.Debug("Called multi-function.", "node", p.node.ID(), "function", fn.Signature().Name)

	for _, v := range consumed {
		v.Destruct()
	}
	for _, o := range produced {
		p.outputs[o.identifier] = o.ptr
	}
}

// Params is what a node sees while it executes: its own inputs, already
// owned by the node, and the outputs it has to produce.
type Params struct {
	ctx     context.Context
	node    *nodetree.Node
	arena   *arena.Arena
	inputs  map[string]value.Pointer
	outputs map[string]value.Pointer
}

// NewParams takes ownership of inputs, keyed by socket identifier.
func NewParams(ctx context.Context, node *nodetree.Node, a *arena.Arena, inputs map[string]value.Pointer) *Params {
	return &Params{
		ctx:     ctx,
		node:    node,
		arena:   a,
		inputs:  inputs,
		outputs: make(map[string]value.Pointer),
	}
}

// Node returns the node being executed.
func (p *Params) Node() *nodetree.Node { return p.node }

// Logger returns the evaluation logger.
func (p *Params) Logger() *slog.Logger { return ctxlog.FromContext(p.ctx) }

// Context returns the evaluation context.
func (p *Params) Context() context.Context { return p.ctx }

// ExtractInput moves the input out of the map. The caller owns the result.
// It panics when the input is absent or was already extracted.
func (p *Params) ExtractInput(identifier string) value.Pointer {
	v, ok := p.inputs[identifier]
	if !ok {
		panic(fmt.Sprintf("node %s: input %q missing or already extracted", p.node.ID(), identifier))
	}
	delete(p.inputs, identifier)
	return v
}

// Input extracts an input and moves its value out as T.
func Input[T any](p *Params, identifier string) T {
	v := p.ExtractInput(identifier)
	return v.Take().(T)
}

// SetOutput moves v into a fresh slot for the output socket identifier. It
// panics on unknown sockets, wrong value types and repeated calls.
func (p *Params) SetOutput(identifier string, v any) {
	s, ok := p.node.Output(identifier)
	if !ok {
		panic(fmt.Sprintf("node %s: no output %q", p.node.ID(), identifier))
	}
	if _, dup := p.outputs[identifier]; dup {
		panic(fmt.Sprintf("node %s: output %q set twice", p.node.ID(), identifier))
	}
	if got := reflect.TypeOf(v); got != s.Type().GoType() {
		panic(fmt.Sprintf("node %s: output %q expects %s, got %v", p.node.ID(), identifier, s.Type().GoType(), got))
	}
	p.outputs[identifier] = value.New(p.arena, s.Type(), v)
}

// ExtractOutput moves a produced output out of the map.
func (p *Params) ExtractOutput(identifier string) (value.Pointer, bool) {
	v, ok := p.outputs[identifier]
	if ok {
		delete(p.outputs, identifier)
	}
	return v, ok
}

// release destructs inputs the node never extracted.
func (p *Params) release() {
	for id, v := range p.inputs {
		v.Destruct()
		delete(p.inputs, id)
	}
}

// DiscardOutputs destructs outputs nobody collected.
func (p *Params) DiscardOutputs() {
	for id, v := range p.outputs {
		v.Destruct()
		delete(p.outputs, id)
	}
}
