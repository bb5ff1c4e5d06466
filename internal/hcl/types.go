// This file turns HCL type keywords and literals into socket types and Go
// values.

package hcl

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/geonodes/internal/ctxlog"
	"github.com/vk/geonodes/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// typeExprToSocketType resolves a bare type keyword such as `float` or
// `geometry`.
func typeExprToSocketType(ctx context.Context, expr hcl.Expression) (*value.Type, error) {
	logger := ctxlog.FromContext(ctx)

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return nil, fmt.Errorf("%w: traversal path is not a single identifier", ErrUnknownType)
		}
		rootName := v.Traversal.RootName()
		t, ok := value.Lookup(rootName)
		if !ok {
			return nil, fmt.Errorf("%w: %q, expected one of %v", ErrUnknownType, rootName, value.Names())
		}
		logger.Debug("Parsed socket type.", "keyword", rootName)
		return t, nil
	case nil:
		return nil, fmt.Errorf("%w: missing type", ErrUnknownType)
	default:
		return nil, fmt.Errorf("%w: unsupported expression for type definition: %T", ErrUnknownType, v)
	}
}

// literalExpr evaluates an optional literal expression. A missing or null
// literal yields nil so that the socket falls back to its type default.
func literalExpr(ctx context.Context, expr hcl.Expression, t *value.Type) (any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	return decodeLiteral(ctx, val, t)
}

// decodeLiteral converts val to the cty type of t and then into a fresh
// value of t's Go type.
func decodeLiteral(ctx context.Context, val cty.Value, t *value.Type) (any, error) {
	logger := ctxlog.FromContext(ctx)
	target := t.CtyType()
	if target.IsCapsuleType() {
		return nil, fmt.Errorf("%w: %s", ErrLiteralType, t)
	}

	converted, err := convert.Convert(val, target)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s to socket type %s: %w", val.Type().FriendlyName(), t, err)
	}
	if !val.Type().Equals(converted.Type()) {
		logger.Debug("Implicitly converted literal.",
			"from", val.Type().FriendlyName(),
			"to", converted.Type().FriendlyName(),
		)
	}

	ptr := reflect.New(t.GoType())
	if err := gocty.FromCtyValue(converted, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("cannot decode literal as %s: %w", t, err)
	}
	return ptr.Elem().Interface(), nil
}
