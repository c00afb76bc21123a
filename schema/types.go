package schema

import (
	"fmt"
	"strings"
)

// BuiltinType enumerates the primitive leaf value types.
type BuiltinType int

const (
	TypeNone BuiltinType = iota
	TypeBoolean
	TypeEmpty
	TypeBits
	TypeEnumeration
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeDecimal64
	TypeIdentityRef
	TypeString
)

var builtinNames = map[BuiltinType]string{
	TypeNone:        "none",
	TypeBoolean:     "boolean",
	TypeEmpty:       "empty",
	TypeBits:        "bits",
	TypeEnumeration: "enumeration",
	TypeInt8:        "int8",
	TypeInt16:       "int16",
	TypeInt32:       "int32",
	TypeInt64:       "int64",
	TypeUint8:       "uint8",
	TypeUint16:      "uint16",
	TypeUint32:      "uint32",
	TypeUint64:      "uint64",
	TypeDecimal64:   "decimal64",
	TypeIdentityRef: "identityref",
	TypeString:      "string",
}

func (t BuiltinType) String() string {
	if s, ok := builtinNames[t]; ok {
		return s
	}
	return fmt.Sprintf("builtin-%d", int(t))
}

// ParseBuiltinType maps a YANG built-in type name to a BuiltinType.
func ParseBuiltinType(name string) (BuiltinType, error) {
	n := strings.TrimSpace(name)
	// "bit" and "bits" are both seen in schema sources.
	if n == "bit" {
		return TypeBits, nil
	}
	for t, s := range builtinNames {
		if s == n && t != TypeNone {
			return t, nil
		}
	}
	return TypeNone, fmt.Errorf("schema: unknown built-in type %q", name)
}

// IsInteger reports whether t is one of the intN/uintN types.
func (t BuiltinType) IsInteger() bool { return t >= TypeInt8 && t <= TypeUint64 }

// IsUnsigned reports whether t is one of the uintN types.
func (t BuiltinType) IsUnsigned() bool { return t >= TypeUint8 && t <= TypeUint64 }

// BitSize returns the width of an integer type, 64 for decimal64 and 0 otherwise.
func (t BuiltinType) BitSize() int {
	switch t {
	case TypeInt8, TypeUint8:
		return 8
	case TypeInt16, TypeUint16:
		return 16
	case TypeInt32, TypeUint32:
		return 32
	case TypeInt64, TypeUint64, TypeDecimal64:
		return 64
	}
	return 0
}

// Literal is a named member of an enumeration or bits type. Value holds the
// enum value or the bit position.
type Literal struct {
	Name  string
	Value int64
}

// Type is the built-in type of a leaf together with its facets.
type Type struct {
	Base BuiltinType
	// RangeExpr is the declared range (integers, decimal64) or length (string)
	// expression. Empty means the type bounds.
	RangeExpr string
	// Range is filled by Registry.Compile from RangeExpr.
	Range Range
	// FractionDigits applies to decimal64 only (1..18).
	FractionDigits int
	Enums          []Literal
	Bits           []Literal
	// IdentityBase names the base identity of an identityref, optionally
	// prefixed with the defining module ("module:identity").
	IdentityBase string
	// Identity is the resolved base identity, filled by Registry.Compile.
	Identity *Identity
}

// HasEnum reports whether name is a declared enumeration literal.
func (t *Type) HasEnum(name string) bool {
	for _, e := range t.Enums {
		if e.Name == name {
			return true
		}
	}
	return false
}

// HasBit reports whether name is a declared bit.
func (t *Type) HasBit(name string) bool {
	for _, b := range t.Bits {
		if b.Name == name {
			return true
		}
	}
	return false
}

func (t *Type) String() string {
	if t == nil {
		return TypeNone.String()
	}
	return t.Base.String()
}

// Boolean returns a boolean type.
func Boolean() *Type { return &Type{Base: TypeBoolean} }

// Empty returns an empty type.
func Empty() *Type { return &Type{Base: TypeEmpty} }

// String returns a string type with an optional length expression.
func String(length ...string) *Type {
	return &Type{Base: TypeString, RangeExpr: strings.Join(length, " | ")}
}

// Integer returns an integer type of the given base with an optional range expression.
func Integer(base BuiltinType, rangeExpr string) *Type {
	return &Type{Base: base, RangeExpr: rangeExpr}
}

// Decimal64 returns a decimal64 type.
func Decimal64(fractionDigits int, rangeExpr string) *Type {
	return &Type{Base: TypeDecimal64, FractionDigits: fractionDigits, RangeExpr: rangeExpr}
}

// Enumeration returns an enumeration whose literals are numbered in declaration order.
func Enumeration(names ...string) *Type {
	t := &Type{Base: TypeEnumeration}
	for i, n := range names {
		t.Enums = append(t.Enums, Literal{Name: n, Value: int64(i)})
	}
	return t
}

// Bits returns a bits type whose positions follow declaration order.
func Bits(names ...string) *Type {
	t := &Type{Base: TypeBits}
	for i, n := range names {
		t.Bits = append(t.Bits, Literal{Name: n, Value: int64(i)})
	}
	return t
}

// IdentityRef returns an identityref type derived from base.
func IdentityRef(base string) *Type { return &Type{Base: TypeIdentityRef, IdentityBase: base} }
