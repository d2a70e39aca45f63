package hcl

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeExpr evaluates a constant expression and decodes it into the Go
// value goVal points to, converting to the cty type implied by goVal.
// It reports false when the expression is absent or null.
func decodeExpr(ctx context.Context, expr hcl.Expression, goVal any) (bool, error) {
	if expr == nil {
		return false, nil
	}
	logger := ctxlog.FromContext(ctx)

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return false, diags
	}
	if val.IsNull() {
		return false, nil
	}

	valPtr := reflect.ValueOf(goVal)
	if valPtr.Kind() != reflect.Ptr {
		return false, fmt.Errorf("target for decoding must be a pointer, got %T", goVal)
	}
	impliedType, err := gocty.ImpliedType(valPtr.Elem().Interface())
	if err != nil {
		return false, fmt.Errorf("cannot imply cty type of %T: %w", goVal, err)
	}

	converted, err := convert.Convert(val, impliedType)
	if err != nil {
		return false, fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	if !val.Type().Equals(converted.Type()) {
		logger.Debug("Implicitly converted value type.",
			"from", val.Type().FriendlyName(),
			"to", converted.Type().FriendlyName(),
		)
	}
	if err := gocty.FromCtyValue(converted, goVal); err != nil {
		return false, err
	}
	return true, nil
}
