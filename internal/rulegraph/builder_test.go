package rulegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homepresso/formgraph/model"
)

func TestBaseState_getOrCreateIsIdempotent(t *testing.T) {
	b := New("form-1", "ExpenseReport")

	first := b.BaseState()
	second := b.BaseState()

	assert.Same(t, first, second, "repeated calls must return the same node")
	assert.Len(t, b.Graph().States, 1)
	assert.Equal(t, BaseStateName, first.Name)
	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, first.DefinitionID)
}

func TestAttach_missingDocumentIsStructuralGap(t *testing.T) {
	_, err := Attach(nil)
	require.Error(t, err)

	diag, ok := err.(model.Diagnostic)
	require.True(t, ok, "error should be a diagnostic")
	assert.Equal(t, model.DiagStructuralGap, diag.Code)
	assert.True(t, diag.Fatal())

	_, err = Attach(&model.RuleGraph{})
	require.Error(t, err, "document without a form identifier cannot be attached")
}

func TestEvent_appendsToBaseState(t *testing.T) {
	b := New("form-1", "ExpenseReport")

	ev := b.Event("Submit", model.TriggerSubmit, "ctl-1", "vi-1")
	h := b.Handler(ev, "SubmitForm", model.ExecSynchronous)

	st := b.BaseState()
	require.Len(t, st.Events, 1)
	assert.Same(t, ev, st.Events[0])
	require.Len(t, ev.Handlers, 1)
	assert.Same(t, h, ev.Handlers[0])
	assert.Equal(t, "ctl-1", ev.SourceControlID)
}

// Every emission mints a fresh definition identifier, even for nodes that
// are semantically identical.
func TestDefinitionIDs_neverReused(t *testing.T) {
	b := New("form-1", "ExpenseReport")

	seen := map[string]bool{}
	record := func(n model.Node) {
		assert.NotEmpty(t, n.ID)
		assert.NotEmpty(t, n.DefinitionID)
		assert.False(t, seen[n.DefinitionID], "definition id %s reused", n.DefinitionID)
		seen[n.DefinitionID] = true
	}

	ev := b.Event("Click", model.TriggerClick, "c", "v")
	record(ev.Node)
	for i := 0; i < 10; i++ {
		h := b.Handler(ev, "H", model.ExecSynchronous)
		record(h.Node)
		a := Append(h, Action(model.ActionShowView, "Show"))
		record(a.Node)
		p := Param(a, model.Parameter{Name: "x"})
		record(p.Node)
	}
}

func TestVariable_declaredOncePerName(t *testing.T) {
	b := New("form-1", "ExpenseReport")

	b.Variable("RootRecordID", "identifier")
	b.Variable("RootRecordID", "identifier")
	b.Variable("Other", "text")

	assert.Len(t, b.Graph().Variables, 2)
}

func TestAppendChild_nestsActions(t *testing.T) {
	outer := Action(model.ActionForEachRow, "EachRow")
	inner := AppendChild(outer, Action(model.ActionCreateRecord, "Create"))

	require.Len(t, outer.Actions, 1)
	assert.Same(t, inner, outer.Actions[0])
}

func TestExpression_appendsWithOperands(t *testing.T) {
	b := New("form-1", "ExpenseReport")

	e := b.Expression("Total", "SUM", []model.Operand{
		{FieldName: "Amount", ControlID: "c1", ViewInstanceID: "v1"},
	})

	require.Len(t, b.Graph().Expressions, 1)
	assert.Same(t, e, b.Graph().Expressions[0])
	assert.Equal(t, "SUM", e.Function)
	assert.Len(t, e.Operands, 1)
}
