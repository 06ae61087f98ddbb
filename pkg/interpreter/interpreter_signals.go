package interpreter

import "mini/interpreter-go/pkg/runtime"

type outcomeKind int

const (
	outcomeNormal outcomeKind = iota
	outcomeReturning
)

// outcome is the result of executing a statement. A returning outcome stops
// every enclosing block until the call boundary unwraps it.
type outcome struct {
	kind  outcomeKind
	value runtime.Value
}

func normal(val runtime.Value) outcome {
	return outcome{kind: outcomeNormal, value: val}
}

func returning(val runtime.Value) outcome {
	return outcome{kind: outcomeReturning, value: val}
}

func (o outcome) isReturning() bool {
	return o.kind == outcomeReturning
}
