// Package deploy pushes generated view documents to the target forms
// runtime and returns the runtime identifiers the rule generators bind
// against. The HTTP client resolves its endpoint through an OpenAPI index
// and authenticates with a signed bearer token; the dry-run deployer
// assigns deterministic synthetic identifiers for offline compilation.
package deploy

import (
	"context"

	"github.com/homepresso/formgraph/internal/sanitize"
	"github.com/homepresso/formgraph/model"
)

// Deployer publishes one generated view and resolves its runtime
// identifiers. Implementations report per-view failures as errors; the
// pipeline records them as diagnostics and continues with the remaining
// views.
type Deployer interface {
	DeployView(ctx context.Context, formName string, view *model.View) (model.ViewIdentifiers, error)
}

// DryRun assigns deterministic synthetic identifiers derived from the form
// and view names. Re-running over the same input yields the same
// identifiers, which keeps offline artifacts diffable.
type DryRun struct{}

// NewDryRun creates a dry-run deployer.
func NewDryRun() *DryRun {
	return &DryRun{}
}

// DeployView assigns synthetic identifiers without touching the network.
func (d *DryRun) DeployView(_ context.Context, formName string, view *model.View) (model.ViewIdentifiers, error) {
	slug := sanitize.FileName(formName) + "-" + sanitize.FileName(view.Name)
	return model.ViewIdentifiers{
		ViewID:         "vw-" + slug,
		ViewInstanceID: "vi-" + slug,
	}, nil
}
