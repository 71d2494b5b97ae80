// This file converts HCL expressions into plain Go values (string, bool,
// int, float64, []any, map[string]any) for config.FromMap.

package hcl_adapter

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// exprToNative evaluates expr without variables. Object and tuple
// constructors are walked item by item so that every number keeps the
// integer-or-float distinction of its own source text.
func exprToNative(src []byte, expr hcl.Expression) (any, error) {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		out := make(map[string]any, len(e.Items))
		for _, item := range e.Items {
			kv, diags := item.KeyExpr.Value(nil)
			if diags.HasErrors() {
				return nil, diags
			}
			key, err := convert.Convert(kv, cty.String)
			if err != nil || key.IsNull() {
				return nil, fmt.Errorf("object key at %s must be a string", item.KeyExpr.Range())
			}
			v, err := exprToNative(src, item.ValueExpr)
			if err != nil {
				return nil, fmt.Errorf("in key %q: %w", key.AsString(), err)
			}
			out[key.AsString()] = v
		}
		return out, nil

	case *hclsyntax.TupleConsExpr:
		out := make([]any, 0, len(e.Exprs))
		for i, elem := range e.Exprs {
			v, err := exprToNative(src, elem)
			if err != nil {
				return nil, fmt.Errorf("in element %d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if val.Type().Equals(cty.Number) && isIntegerText(sourceText(src, expr.Range())) {
		var i int64
		if err := gocty.FromCtyValue(val, &i); err == nil {
			return int(i), nil
		}
	}
	return ctyToNative(val)
}

// sourceText returns the bytes of rng, or "" if the range is out of bounds.
func sourceText(src []byte, rng hcl.Range) string {
	if rng.Start.Byte < 0 || rng.End.Byte > len(src) || rng.End.Byte <= rng.Start.Byte {
		return ""
	}
	return string(src[rng.Start.Byte:rng.End.Byte])
}

// isIntegerText reports whether a number was written without a decimal
// point or exponent, e.g. `1` or `-30` but not `1.0` or `1e3`.
func isIntegerText(text string) bool {
	return text != "" && !strings.ContainsAny(text, ".eE")
}

// ctyToNative converts a known cty value into plain Go types. Numbers that
// reach this point are floats.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return v.AsString(), nil

	case ty.Equals(cty.Number):
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty.Equals(cty.Bool):
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			n, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			n, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out[key.AsString()] = n
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
