// Package value validates leaf literals against their built-in type and facets.
// Every check is a pure function of the type and the literal.
package value

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/reoring/datatree/internal/fault"
	"github.com/reoring/datatree/schema"
)

// Validate checks literal against t and returns the accepted value in
// canonical form: integers without sign or leading zeros, decimal64 with
// exactly the declared fraction digits. node names the leaf in failure
// messages. Failures are *fault.Fault with one of the codes invalid_value,
// invalid_width, out_of_range or invalid_facet.
func Validate(node string, t *schema.Type, literal string) (string, error) {
	if t == nil {
		return "", invalid(node, schema.TypeNone, literal)
	}
	switch t.Base {
	case schema.TypeBoolean:
		return validateBoolean(node, literal)
	case schema.TypeEmpty:
		return validateEmpty(node, literal)
	case schema.TypeBits:
		return validateBits(node, t, literal)
	case schema.TypeEnumeration:
		return validateEnum(node, t, literal)
	case schema.TypeInt8, schema.TypeInt16, schema.TypeInt32, schema.TypeInt64,
		schema.TypeUint8, schema.TypeUint16, schema.TypeUint32, schema.TypeUint64:
		return validateInteger(node, t, literal)
	case schema.TypeDecimal64:
		return validateDecimal(node, t, literal)
	case schema.TypeIdentityRef:
		return validateIdentity(node, t, literal)
	case schema.TypeString:
		return validateString(node, t, literal)
	}
	return "", invalid(node, t.Base, literal)
}

func validateBoolean(node, literal string) (string, error) {
	if literal == "true" || literal == "false" {
		return literal, nil
	}
	return "", invalid(node, schema.TypeBoolean, literal)
}

func validateEmpty(node, literal string) (string, error) {
	if literal == "" {
		return literal, nil
	}
	return "", invalid(node, schema.TypeEmpty, literal)
}

// validateBits accepts a space separated set of declared bit names. The
// accepted value is normalized to single spaces.
func validateBits(node string, t *schema.Type, literal string) (string, error) {
	names := strings.Fields(literal)
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if !t.HasBit(n) {
			return "", invalid(node, schema.TypeBits, literal)
		}
		if _, dup := seen[n]; dup {
			return "", invalid(node, schema.TypeBits, literal)
		}
		seen[n] = struct{}{}
	}
	return strings.Join(names, " "), nil
}

func validateEnum(node string, t *schema.Type, literal string) (string, error) {
	if t.HasEnum(literal) {
		return literal, nil
	}
	return "", invalid(node, schema.TypeEnumeration, literal)
}

func validateInteger(node string, t *schema.Type, literal string) (string, error) {
	n, err := schema.ParseInteger(literal)
	if err = checkNumber(node, t, literal, n, err); err != nil {
		return "", err
	}
	return n.String(), nil
}

func validateDecimal(node string, t *schema.Type, literal string) (string, error) {
	n, err := schema.ParseDecimal(literal, t.FractionDigits)
	if err = checkNumber(node, t, literal, n, err); err != nil {
		return "", err
	}
	return n.Decimal(t.FractionDigits), nil
}

// checkNumber applies the width check and then the declared range.
func checkNumber(node string, t *schema.Type, literal string, n schema.Number, err error) error {
	switch {
	case errors.Is(err, schema.ErrNumberOverflow):
		return outOfWidth(node, t.Base, literal)
	case err != nil:
		return invalid(node, t.Base, literal)
	}
	if bounds, ok := schema.Bounds(t.Base); ok && !bounds.Contains(n) {
		return outOfWidth(node, t.Base, literal)
	}
	rng, err := rangeOf(node, t)
	if err != nil {
		return err
	}
	if !rng.Contains(n) {
		return outOfRange(node, t, literal)
	}
	return nil
}

// rangeOf returns the compiled range of t. Types that did not pass through
// Registry.Compile carry only RangeExpr, which is compiled here on every
// call. t is never written.
func rangeOf(node string, t *schema.Type) (schema.Range, error) {
	if t.Range != nil || t.RangeExpr == "" {
		return t.Range, nil
	}
	rng, err := schema.ParseRange(t.RangeExpr, t.Base, t.FractionDigits)
	if err != nil {
		return nil, fault.New(fault.CodeInvalidFacet, map[string]string{
			"node": node, "facet": quote(t.RangeExpr), "reason": err.Error(),
		})
	}
	return rng, nil
}

func validateIdentity(node string, t *schema.Type, literal string) (string, error) {
	if t.Identity == nil {
		return "", invalid(node, schema.TypeIdentityRef, literal)
	}
	if _, ok := t.Identity.FindDerived(literal); !ok {
		return "", invalid(node, schema.TypeIdentityRef, literal)
	}
	return literal, nil
}

// validateString applies a declared length range, counted in characters.
func validateString(node string, t *schema.Type, literal string) (string, error) {
	if !utf8.ValidString(literal) {
		return "", invalid(node, schema.TypeString, literal)
	}
	rng, err := rangeOf(node, t)
	if err != nil {
		return "", err
	}
	if !rng.Contains(schema.Uint(uint64(utf8.RuneCountInString(literal)))) {
		return "", outOfRange(node, t, literal)
	}
	return literal, nil
}

func invalid(node string, base schema.BuiltinType, literal string) *fault.Fault {
	return fault.New(fault.CodeInvalidValue, map[string]string{
		"node": node, "value": quote(literal), "type": base.String(),
	})
}

func outOfWidth(node string, base schema.BuiltinType, literal string) *fault.Fault {
	return fault.New(fault.CodeInvalidWidth, map[string]string{
		"node": node, "value": quote(literal), "type": base.String(),
	})
}

func outOfRange(node string, t *schema.Type, literal string) *fault.Fault {
	return fault.New(fault.CodeOutOfRange, map[string]string{
		"node": node, "value": quote(literal), "type": t.Base.String(), "range": t.RangeExpr,
	})
}

func quote(s string) string { return `"` + s + `"` }
