// Package rulegraph owns the rule-graph document: append-only construction
// through a Builder with idempotent accessors for structural anchors, and a
// post-hoc consistency pass over the finished graph.
package rulegraph

import (
	"github.com/google/uuid"

	"github.com/homepresso/formgraph/model"
)

// BaseStateName is the structural anchor every emitted event hangs off.
const BaseStateName = "Base"

// Builder appends nodes to a rule-graph document. Every emission mints a
// fresh DefinitionID, even for nodes semantically equivalent to earlier
// ones; the target runtime treats definition identifiers as single-use.
type Builder struct {
	graph *model.RuleGraph
}

// New creates a Builder over a fresh document for the given form.
func New(formID, formName string) *Builder {
	return &Builder{graph: &model.RuleGraph{
		FormID:   formID,
		FormName: formName,
	}}
}

// Attach wraps an existing document, verifying its structural anchors. A
// document that is missing and cannot be synthesized is a StructuralGap:
// rule generation for the form aborts.
func Attach(graph *model.RuleGraph) (*Builder, error) {
	if graph == nil {
		return nil, model.Diagnostic{
			Code:    model.DiagStructuralGap,
			Message: "rule-graph document is absent and cannot be synthesized",
		}
	}
	if graph.FormID == "" {
		return nil, model.Diagnostic{
			Code:    model.DiagStructuralGap,
			Message: "rule-graph document has no form identifier",
		}
	}
	return &Builder{graph: graph}, nil
}

// Graph returns the document under construction.
func (b *Builder) Graph() *model.RuleGraph {
	return b.graph
}

// node mints identifiers for one emission. DefinitionID is never reused.
func node() model.Node {
	return model.Node{
		ID:           uuid.NewString(),
		DefinitionID: uuid.NewString(),
	}
}

// BaseState returns the base state container, creating it on first use.
// Repeated calls return the same node.
func (b *Builder) BaseState() *model.State {
	for _, s := range b.graph.States {
		if s.Name == BaseStateName {
			return s
		}
	}
	s := &model.State{Node: node(), Name: BaseStateName}
	b.graph.States = append(b.graph.States, s)
	return s
}

// Event appends a new event to the base state.
func (b *Builder) Event(name string, trigger model.EventTrigger, controlID, viewInstanceID string) *model.Event {
	ev := &model.Event{
		Node:                 node(),
		Name:                 name,
		Trigger:              trigger,
		SourceControlID:      controlID,
		SourceViewInstanceID: viewInstanceID,
	}
	st := b.BaseState()
	st.Events = append(st.Events, ev)
	return ev
}

// Handler appends a new handler to an event.
func (b *Builder) Handler(ev *model.Event, name string, exec model.ExecutionMode) *model.Handler {
	h := &model.Handler{Node: node(), Name: name, Execution: exec}
	ev.Handlers = append(ev.Handlers, h)
	return h
}

// Action creates a detached action node with fresh identifiers. Callers
// attach it with Append or AppendChild.
func Action(kind model.ActionKind, name string) *model.Action {
	return &model.Action{
		Node:      node(),
		Name:      name,
		Kind:      kind,
		Execution: model.ExecSynchronous,
	}
}

// Append attaches an action to a handler's ordered sequence.
func Append(h *model.Handler, a *model.Action) *model.Action {
	h.Actions = append(h.Actions, a)
	return a
}

// AppendChild nests an action under a parent, used for for-each iteration.
func AppendChild(parent, child *model.Action) *model.Action {
	parent.Actions = append(parent.Actions, child)
	return child
}

// Param attaches a parameter to an action with fresh identifiers.
func Param(a *model.Action, p model.Parameter) *model.Parameter {
	p.Node = node()
	attached := p
	a.Parameters = append(a.Parameters, &attached)
	return &attached
}

// Variable declares a form-scoped variable, once per name.
func (b *Builder) Variable(name, typ string) {
	for _, v := range b.graph.Variables {
		if v.Name == name {
			return
		}
	}
	b.graph.Variables = append(b.graph.Variables, model.Variable{Name: name, Type: typ})
}

// Expression appends a form-level expression.
func (b *Builder) Expression(name, function string, operands []model.Operand) *model.Expression {
	e := &model.Expression{
		Node:     node(),
		Name:     name,
		Function: function,
		Operands: operands,
	}
	b.graph.Expressions = append(b.graph.Expressions, e)
	return e
}
