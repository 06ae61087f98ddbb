package interpreter

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"mini/interpreter-go/pkg/runtime"
)

// FormatValue renders a value the way print shows it.
func FormatValue(val runtime.Value) string {
	switch v := val.(type) {
	case runtime.StringValue:
		return v.Val
	case runtime.BoolValue:
		if v.Val {
			return "true"
		}
		return "false"
	case runtime.NumberValue:
		return formatNumber(v.Val)
	case runtime.VoidValue, nil:
		return "undefined"
	default:
		return fmt.Sprintf("[%s]", v.Kind())
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case math.Abs(f) >= 1e-6 && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return exponentForm(f)
	}
}

// exponentForm renders f as "1.5e-7" or "1e+21": shortest mantissa, signed
// exponent without leading zeros.
func exponentForm(f float64) string {
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok || len(exp) < 2 {
		return s
	}
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + exp[:1] + digits
}

// WriterSink prints each value on its own line.
func WriterSink(w io.Writer) Sink {
	return func(val runtime.Value) error {
		_, err := fmt.Fprintln(w, FormatValue(val))
		return err
	}
}

// CollectSink appends the printed form of each value to out.
func CollectSink(out *[]string) Sink {
	return func(val runtime.Value) error {
		*out = append(*out, FormatValue(val))
		return nil
	}
}
