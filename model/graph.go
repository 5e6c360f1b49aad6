package model

// ExecutionMode instructs the target runtime how to schedule an emitted
// handler or action. It is metadata only; the generator itself is
// single-threaded.
type ExecutionMode string

const (
	ExecSynchronous ExecutionMode = "synchronous"
	ExecParallel    ExecutionMode = "parallel"
)

// ActionKind enumerates the action node types the target runtime interprets.
type ActionKind string

const (
	ActionShowView      ActionKind = "show-view"
	ActionHideView      ActionKind = "hide-view"
	ActionAppendRow     ActionKind = "append-row"
	ActionTransferValue ActionKind = "transfer-value"
	ActionAcceptRow     ActionKind = "accept-row"
	ActionClearView     ActionKind = "clear-view"
	ActionCreateRecord  ActionKind = "create-record"
	ActionForEachRow    ActionKind = "for-each-row"
	ActionInvokeRule    ActionKind = "invoke-rule"
)

// EventTrigger enumerates the user gestures that fire an event.
type EventTrigger string

const (
	TriggerClick  EventTrigger = "click"
	TriggerSubmit EventTrigger = "submit"
)

// RowStateAdded marks list rows not yet persisted by the target runtime.
const RowStateAdded = "added"

// Node carries the identifiers common to every rule-graph node. ID is
// globally unique; DefinitionID is freshly generated on every emission and
// never reused, even for semantically equivalent nodes. The target runtime
// depends on that, so regeneration is never idempotent.
type Node struct {
	ID           string `json:"id"`
	DefinitionID string `json:"definition_id"`
}

// RuleGraph is the emitted artifact: a tree of states, events, handlers,
// actions, and parameters, plus form-level expressions. Nodes are
// append-only; nothing is mutated after insertion except attachment of
// child nodes.
type RuleGraph struct {
	FormID      string        `json:"form_id"`
	FormName    string        `json:"form_name"`
	States      []*State      `json:"states"`
	Variables   []Variable    `json:"variables,omitempty"`
	Expressions []*Expression `json:"expressions,omitempty"`
}

// State is a top-level container of events.
type State struct {
	Node
	Name   string   `json:"name"`
	Events []*Event `json:"events"`
}

// Event fires on a user gesture against a specific control instance.
type Event struct {
	Node
	Name                 string       `json:"name"`
	Trigger              EventTrigger `json:"trigger"`
	SourceControlID      string       `json:"source_control_id"`
	SourceViewInstanceID string       `json:"source_view_instance_id,omitempty"`
	Handlers             []*Handler   `json:"handlers"`
}

// Handler is an ordered action sequence, optionally guarded by conditions.
type Handler struct {
	Node
	Name       string        `json:"name"`
	Execution  ExecutionMode `json:"execution"`
	Conditions []*Condition  `json:"conditions,omitempty"`
	Actions    []*Action     `json:"actions"`
}

// Condition guards a handler's execution.
type Condition struct {
	Node
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value,omitempty"`
}

// Action is one imperative step. ForEachRow actions nest child actions that
// the runtime executes once per matching row.
type Action struct {
	Node
	Name      string        `json:"name"`
	Kind      ActionKind    `json:"kind"`
	Execution ExecutionMode `json:"execution"`

	TargetViewInstanceID string `json:"target_view_instance_id,omitempty"`
	TargetControlID      string `json:"target_control_id,omitempty"`
	TargetEntity         string `json:"target_entity,omitempty"`
	TargetRule           string `json:"target_rule,omitempty"`
	// RowState filters ForEachRow iteration to rows in the given state.
	RowState string `json:"row_state,omitempty"`
	// ResultVariable names the form variable a create-record action writes
	// the new record identifier into.
	ResultVariable string `json:"result_variable,omitempty"`

	Parameters []*Parameter `json:"parameters,omitempty"`
	Actions    []*Action    `json:"actions,omitempty"`
}

// Parameter binds one value flowing into an action: either a control
// instance source, a literal value, or a variable reference.
type Parameter struct {
	Node
	Name                 string `json:"name"`
	TargetField          string `json:"target_field,omitempty"`
	SourceControlID      string `json:"source_control_id,omitempty"`
	SourceViewInstanceID string `json:"source_view_instance_id,omitempty"`
	SourceVariable       string `json:"source_variable,omitempty"`
	// SourceRowField draws the value from the current iteration row of the
	// named enclosing for-each scope instead of a fixed control instance.
	SourceRowField string `json:"source_row_field,omitempty"`
	SourceRowScope string `json:"source_row_scope,omitempty"`
	Value          string `json:"value,omitempty"`
	// DataType is the declared type of the target field, resolved through
	// the field-metadata lookup.
	DataType string `json:"data_type,omitempty"`
}

// Variable is a form-scoped named slot written by create-record actions.
type Variable struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Expression is a form-level derived-value definition.
type Expression struct {
	Node
	Name     string    `json:"name"`
	Function string    `json:"function"`
	Operands []Operand `json:"operands"`
}

// Operand references one physical control instance feeding an expression.
type Operand struct {
	FieldName      string `json:"field_name"`
	ControlID      string `json:"control_id"`
	ViewInstanceID string `json:"view_instance_id"`
}
