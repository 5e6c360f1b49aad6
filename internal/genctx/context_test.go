package genctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homepresso/formgraph/internal/heuristics"
	"github.com/homepresso/formgraph/model"
)

func TestNew_nilLoggerGetsNop(t *testing.T) {
	c := New(nil, heuristics.NewNames(heuristics.DefaultVocabulary()))
	require.NotNil(t, c.Log)
	require.NotNil(t, c.Report)
	assert.Empty(t, c.Report.Diagnostics)
}

func TestButtonRegistry(t *testing.T) {
	c := New(nil, heuristics.NewNames(heuristics.DefaultVocabulary()))

	_, ok := c.ViewButtons("LineItems_Item")
	assert.False(t, ok)

	c.RegisterViewButtons("LineItems_Item", model.ViewButtons{AddID: "btn-add"})
	b, ok := c.ViewButtons("LineItems_Item")
	require.True(t, ok)
	assert.Equal(t, "btn-add", b.AddID)
}

func TestViewIdentifierRegistry(t *testing.T) {
	c := New(nil, heuristics.NewNames(heuristics.DefaultVocabulary()))

	ids := model.ViewIdentifiers{ViewID: "vw-1", ViewInstanceID: "vi-1"}
	c.RegisterViewIdentifiers("LineItems_List", ids, "LineItems")

	got, ok := c.ViewIdentifiers("LineItems_List")
	require.True(t, ok)
	assert.Equal(t, ids, got)

	assert.Equal(t, "LineItems", c.GroupForInstance("vi-1"))
	assert.Empty(t, c.GroupForInstance("vi-unknown"))
}

func TestGroupForInstance_primaryViewsUnmapped(t *testing.T) {
	c := New(nil, heuristics.NewNames(heuristics.DefaultVocabulary()))

	c.RegisterViewIdentifiers("Main", model.ViewIdentifiers{ViewID: "vw-m", ViewInstanceID: "vi-m"}, "")
	assert.Empty(t, c.GroupForInstance("vi-m"))
}
