// Package flow is the question-flow controller. It linearises a question set
// with single-parent boolean gates into a forward/backward navigable
// sequence. All transitions go through Controller.Reduce, a pure function of
// (Snapshot, Event) that returns the next Snapshot plus an Effect telling the
// caller whether the submission pipeline must run.
package flow
