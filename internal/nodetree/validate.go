package nodetree

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrMultipleUpstream is reported for an input fed by more than one source.
	ErrMultipleUpstream = errors.New("input has more than one upstream source")
	// ErrCycle is reported when the links form a cycle.
	ErrCycle = errors.New("cycle detected")
)

// Validate checks the tree for shapes an evaluator cannot handle. All
// problems are returned together.
func (t *Tree) Validate() error {
	var result *multierror.Error

	for _, n := range t.nodes {
		for _, in := range n.inputs {
			if count := in.UpstreamCount(); count > 1 {
				result = multierror.Append(result, fmt.Errorf("%w: %s has %d", ErrMultipleUpstream, in, count))
			}
		}
	}
	if err := t.detectCycles(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// detectCycles walks upstream links depth first.
func (t *Tree) detectCycles() error {
	visiting := make(map[*Node]bool)
	visited := make(map[*Node]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		visiting[n] = true
		for _, in := range n.inputs {
			for _, from := range in.linked {
				dep := from.node
				if visiting[dep] {
					return fmt.Errorf("%w involving '%s'", ErrCycle, dep.id)
				}
				if !visited[dep] {
					if err := visit(dep); err != nil {
						return err
					}
				}
			}
		}
		delete(visiting, n)
		visited[n] = true
		return nil
	}

	for _, n := range t.nodes {
		if !visited[n] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}
