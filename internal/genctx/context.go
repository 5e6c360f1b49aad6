// Package genctx carries the per-run generation state shared across
// pipeline stages: the button and view-identifier registries, the
// diagnostics report, and the heuristics set. One Context exists per run
// and replaces any process-wide registry; the write-before-read ordering
// contract between view generation and rule generation still holds because
// the pipeline is single-threaded.
package genctx

import (
	"go.uber.org/zap"

	"github.com/homepresso/formgraph/internal/heuristics"
	"github.com/homepresso/formgraph/model"
)

// Context is the state threaded through one generation run.
type Context struct {
	Log        *zap.Logger
	Heuristics heuristics.Set
	Report     *model.Report

	buttons map[string]model.ViewButtons
	views   map[string]model.ViewIdentifiers
	// groupByInstance maps a deployed view instance back to its repeating
	// group, read by the calculation stage's exclusion heuristic.
	groupByInstance map[string]string
}

// New creates a fresh Context for one run.
func New(log *zap.Logger, h heuristics.Set) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{
		Log:             log,
		Heuristics:      h,
		Report:          &model.Report{},
		buttons:         make(map[string]model.ViewButtons),
		views:           make(map[string]model.ViewIdentifiers),
		groupByInstance: make(map[string]string),
	}
}

// RegisterViewButtons records the navigation controls generated into a view.
func (c *Context) RegisterViewButtons(viewName string, b model.ViewButtons) {
	c.buttons[viewName] = b
}

// ViewButtons returns the registered buttons for a view.
func (c *Context) ViewButtons(viewName string) (model.ViewButtons, bool) {
	b, ok := c.buttons[viewName]
	return b, ok
}

// RegisterViewIdentifiers records a deployed view's runtime identifiers.
func (c *Context) RegisterViewIdentifiers(viewName string, ids model.ViewIdentifiers, groupName string) {
	c.views[viewName] = ids
	if groupName != "" && ids.ViewInstanceID != "" {
		c.groupByInstance[ids.ViewInstanceID] = groupName
	}
}

// ViewIdentifiers resolves a view's runtime identifiers by name.
func (c *Context) ViewIdentifiers(viewName string) (model.ViewIdentifiers, bool) {
	ids, ok := c.views[viewName]
	return ids, ok
}

// GroupForInstance returns the repeating group owning a view instance, or
// empty for primary views.
func (c *Context) GroupForInstance(viewInstanceID string) string {
	return c.groupByInstance[viewInstanceID]
}
