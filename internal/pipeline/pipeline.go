// Package pipeline drives one generation run: load and validate the input
// documents, build each form's structural model, deploy its views, emit
// its rule graph, and write the artifacts. The pipeline is single-threaded
// and deterministic; stages run in a fixed order because later stages read
// registries populated by earlier ones.
package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/homepresso/formgraph/internal/calc"
	"github.com/homepresso/formgraph/internal/config"
	"github.com/homepresso/formgraph/internal/deploy"
	"github.com/homepresso/formgraph/internal/fieldmeta"
	"github.com/homepresso/formgraph/internal/formmodel"
	"github.com/homepresso/formgraph/internal/genctx"
	"github.com/homepresso/formgraph/internal/heuristics"
	"github.com/homepresso/formgraph/internal/mapping"
	"github.com/homepresso/formgraph/internal/navigation"
	"github.com/homepresso/formgraph/internal/nesting"
	"github.com/homepresso/formgraph/internal/observability"
	"github.com/homepresso/formgraph/internal/rulegraph"
	"github.com/homepresso/formgraph/internal/submit"
	"github.com/homepresso/formgraph/internal/viewgen"
	"github.com/homepresso/formgraph/model"
)

// CompiledForm is one form's finished output.
type CompiledForm struct {
	Form       *model.Form
	Graph      *model.RuleGraph
	SourceFile string
}

// Result aggregates one run's output across all input documents.
type Result struct {
	Forms  []*CompiledForm
	Report *model.Report
}

// Pipeline compiles form-model documents into deployed views and rule
// graphs.
type Pipeline struct {
	cfg      *config.Config
	log      *zap.Logger
	deployer deploy.Deployer
}

// New creates a Pipeline.
func New(cfg *config.Config, log *zap.Logger, deployer deploy.Deployer) *Pipeline {
	return &Pipeline{cfg: cfg, log: log, deployer: deployer}
}

// Run executes the full pipeline over every configured model directory.
// Invalid input documents fail the run before any generation starts;
// everything after that is best-effort per form, collected in the report.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx, span := observability.StartSpan(ctx, "pipeline.run")
	var runErr error
	defer func() { observability.EndSpanWithError(span, runErr) }()

	docs, err := formmodel.NewLoader().LoadAll(p.cfg.Models.Directories)
	if err != nil {
		runErr = err
		return nil, err
	}
	if len(docs) == 0 {
		runErr = fmt.Errorf("pipeline: no form-model documents found in %v", p.cfg.Models.Directories)
		return nil, runErr
	}

	if verrs := formmodel.NewValidator().Validate(docs); len(verrs) > 0 {
		for _, ve := range verrs {
			p.log.Error("invalid input document", zap.String("path", ve.Path), zap.String("code", ve.Code), zap.String("message", ve.Message))
		}
		runErr = fmt.Errorf("pipeline: %d validation errors in input documents", len(verrs))
		return nil, runErr
	}

	result := &Result{Report: &model.Report{}}
	for _, doc := range docs {
		for _, name := range sortedFormNames(doc) {
			compiled, diags := p.compileForm(ctx, name, doc.Forms[name])
			for _, d := range diags {
				result.Report.Add(d)
			}
			if compiled != nil {
				compiled.SourceFile = doc.SourceFile
				result.Forms = append(result.Forms, compiled)
			}
		}
	}

	p.log.Info("generation run finished",
		zap.Int("forms", len(result.Forms)),
		zap.Int("diagnostics", len(result.Report.Diagnostics)),
		zap.String("trace_id", observability.TraceIDFromContext(ctx)),
	)
	return result, nil
}

// compileForm runs the fixed stage order for one form: build controls and
// segments, resolve nesting, deploy views, build mappings, emit navigation
// then submit/clear rules, synthesize calculations, and validate the
// finished graph. Only a StructuralGap aborts the form.
func (p *Pipeline) compileForm(ctx context.Context, displayName string, input model.FormInput) (*CompiledForm, []model.Diagnostic) {
	h := heuristics.NewNames(p.cfg.Heuristics)
	gctx := genctx.New(p.log.With(zap.String("form", displayName)), h)

	ctx, span := observability.StartSpan(ctx, "pipeline.compile_form",
		observability.AttrForm.String(displayName))
	defer span.End()

	form, soleTopLevel := viewgen.NewGenerator(gctx).BuildForm(displayName, input)

	overrides := make(map[string]string, len(input.Nesting))
	for child, parent := range input.Nesting {
		overrides[h.NormalizeGroupName(child)] = h.NormalizeGroupName(parent)
	}
	for _, d := range nesting.Resolve(form.Groups, overrides, soleTopLevel) {
		d.Form = form.Name
		gctx.Report.Add(d)
	}

	p.deployViews(ctx, gctx, form)

	for _, pair := range form.Pairs {
		for _, d := range mapping.Build(pair) {
			d.Form = form.Name
			gctx.Report.Add(d)
		}
	}

	graph, err := p.emitRules(ctx, gctx, form, fieldmeta.NewStatic(input.Data))
	if err != nil {
		var d model.Diagnostic
		if diag, ok := err.(model.Diagnostic); ok {
			d = diag
		} else {
			d = model.Diagnostic{Code: model.DiagStructuralGap, Message: err.Error()}
		}
		d.Form = form.Name
		gctx.Report.Add(d)
		p.log.Error("rule generation aborted", zap.String("form", form.Name), zap.Error(err))
		return nil, gctx.Report.Diagnostics
	}

	return &CompiledForm{Form: form, Graph: graph}, gctx.Report.Diagnostics
}

// deployViews pushes every generated view and registers the identifiers it
// came back with. A failed view is diagnosed and skipped; the remaining
// views still deploy.
func (p *Pipeline) deployViews(ctx context.Context, gctx *genctx.Context, form *model.Form) {
	ctx, span := observability.StartSpan(ctx, "pipeline.deploy_views",
		observability.AttrForm.String(form.Name),
		observability.AttrStage.String("deploy"))
	defer span.End()

	for _, v := range form.Views {
		ids, err := p.deployer.DeployView(ctx, form.Name, v)
		if err != nil {
			gctx.Report.Add(model.Diagnostic{
				Code:    model.DiagDeploymentFailure,
				Form:    form.Name,
				View:    v.Name,
				Message: err.Error(),
			})
			p.log.Error("view deployment failed", zap.String("form", form.Name), zap.String("view", v.Name), zap.Error(err))
			continue
		}
		gctx.RegisterViewIdentifiers(v.Name, ids, v.GroupName)
	}

	for _, pair := range form.Pairs {
		if ids, ok := gctx.ViewIdentifiers(pair.Item.Name); ok {
			pair.ItemIDs = ids
		}
		if ids, ok := gctx.ViewIdentifiers(pair.List.Name); ok {
			pair.ListIDs = ids
		}
	}
}

// emitRules builds the form's rule graph in the fixed generator order and
// runs the consistency pass over the result.
func (p *Pipeline) emitRules(ctx context.Context, gctx *genctx.Context, form *model.Form, meta fieldmeta.Lookup) (*model.RuleGraph, error) {
	_, span := observability.StartSpan(ctx, "pipeline.emit_rules",
		observability.AttrForm.String(form.Name),
		observability.AttrStage.String("rules"))
	defer span.End()

	b := rulegraph.New(form.ID, form.Name)
	if _, err := rulegraph.Attach(b.Graph()); err != nil {
		return nil, err
	}

	for _, pair := range form.Pairs {
		if pair.ItemIDs.ViewInstanceID == "" || pair.ListIDs.ViewInstanceID == "" {
			// Deployment already diagnosed the missing views.
			p.log.Warn("view pair not fully deployed; navigation rules skipped",
				zap.String("form", form.Name), zap.String("group", pair.Group.Name))
			continue
		}
		navigation.Generate(b, gctx, pair)
	}

	clearEmitted := submit.GenerateClear(b, gctx, form)
	submit.GenerateSubmit(b, gctx, form, meta, clearEmitted)
	calc.Synthesize(b, gctx, form)

	targets := rulegraph.NewTargets()
	for _, v := range form.Views {
		if ids, ok := gctx.ViewIdentifiers(v.Name); ok {
			targets.AddView(ids, v.Controls)
		}
	}
	for _, d := range rulegraph.Validate(b.Graph(), targets) {
		gctx.Report.Add(d)
	}

	return b.Graph(), nil
}

func sortedFormNames(doc model.Document) []string {
	names := make([]string, 0, len(doc.Forms))
	for name := range doc.Forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
