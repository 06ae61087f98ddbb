package runtime

import (
	"fmt"
	"math"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindVoid Kind = iota
	KindNumber
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

// NumberValue is the only numeric type; literals are integers but division
// produces fractions.
type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

// VoidValue is the result of calls that do not return and of declarations
// without an initializer.
type VoidValue struct{}

func (VoidValue) Kind() Kind { return KindVoid }

// Void is the shared void value.
var Void Value = VoidValue{}

func Number(v float64) NumberValue { return NumberValue{Val: v} }
func String(v string) StringValue  { return StringValue{Val: v} }
func Bool(v bool) BoolValue        { return BoolValue{Val: v} }

// Truthy reports whether v counts as true in a condition.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case BoolValue:
		return val.Val
	case NumberValue:
		return val.Val != 0 && !math.IsNaN(val.Val)
	case StringValue:
		return val.Val != ""
	default:
		return false
	}
}

// Equal is strict equality: both kind and value must match.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case NumberValue:
		return av.Val == b.(NumberValue).Val
	case StringValue:
		return av.Val == b.(StringValue).Val
	case BoolValue:
		return av.Val == b.(BoolValue).Val
	case VoidValue:
		return true
	default:
		return false
	}
}
