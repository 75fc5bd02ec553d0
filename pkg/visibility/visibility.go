// Package visibility decides whether a conditional question is shown. The
// model is deliberately small: a question is either unconditional or gated on
// one earlier boolean answer.
package visibility

import "github.com/goliatone/go-intake/pkg/question"

// Lookup resolves the raw answer (string or bool) recorded for a question id.
type Lookup interface {
	Lookup(id string) (any, bool)
}

// LookupFunc adapts a function into a Lookup.
type LookupFunc func(id string) (any, bool)

// Lookup delegates to the underlying function.
func (fn LookupFunc) Lookup(id string) (any, bool) {
	return fn(id)
}

// Context carries the committed answers plus an optional pending value that
// shadows the committed one for the same id. The pending slot lets the flow
// controller evaluate the next question against an answer it has just been
// handed without waiting for a second pass.
type Context struct {
	Values  Lookup
	pending *pendingValue
}

type pendingValue struct {
	id    string
	value any
}

// NewContext wraps a lookup.
func NewContext(values Lookup) Context {
	return Context{Values: values}
}

// WithPending returns a copy of ctx where id resolves to value.
func (c Context) WithPending(id string, value any) Context {
	c.pending = &pendingValue{id: id, value: value}
	return c
}

// Value resolves id, preferring the pending override.
func (c Context) Value(id string) (any, bool) {
	if c.pending != nil && c.pending.id == id {
		return c.pending.value, c.pending.value != nil
	}
	if c.Values == nil {
		return nil, false
	}
	return c.Values.Lookup(id)
}

// Evaluator determines whether a question is visible in ctx.
type Evaluator interface {
	Visible(q question.Question, ctx Context) bool
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(q question.Question, ctx Context) bool

// Visible delegates to the underlying function.
func (fn EvaluatorFunc) Visible(q question.Question, ctx Context) bool {
	return fn(q, ctx)
}

// Gate is the default evaluator: unconditional questions are visible, gated
// questions are visible only when the dependency holds a boolean equal to
// ShowIf. Missing answers and non-boolean answers hide the question.
type Gate struct{}

// Visible implements Evaluator.
func (Gate) Visible(q question.Question, ctx Context) bool {
	cond := q.Conditional
	if cond == nil {
		return true
	}
	raw, ok := ctx.Value(cond.DependsOn)
	if !ok {
		return false
	}
	got, isBool := raw.(bool)
	return isBool && got == cond.ShowIf
}

// Default is the evaluator used when callers do not supply one.
var Default Evaluator = Gate{}
