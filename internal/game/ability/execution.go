package ability

import "github.com/udisondev/gas2go/internal/game/attribute"

// ExecutionOutput is one (attribute, magnitude) pair produced by an
// execution calculation.
type ExecutionOutput struct {
	Attribute string
	Magnitude float64
}

// Execution is the calculation plugin hook for instant effects that need
// more than per-modifier arithmetic (e.g. damage formulas reading several
// source and target attributes). Invoked only on the instant branch of the
// application state machine.
type Execution interface {
	Execute(spec *EffectSpec) []ExecutionOutput
}

// ExecutionFunc adapts a plain function to Execution.
type ExecutionFunc func(spec *EffectSpec) []ExecutionOutput

func (f ExecutionFunc) Execute(spec *EffectSpec) []ExecutionOutput { return f(spec) }

// PostExecuteHooks is optionally implemented by a game attribute set that
// wants to own the commit of execution output (damage mitigation, kill
// handling). When the target set implements it and returns true, the core
// skips its default base-value modification for that output.
type PostExecuteHooks interface {
	PostEffectExecute(spec *EffectSpec, a *attribute.Attribute, magnitude float64) bool
}
