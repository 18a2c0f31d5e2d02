package scaffold

import (
	"context"

	"github.com/kraftdev/kraft/internal/output"
	"github.com/kraftdev/kraft/internal/templates"
)

// Phase is a step of the generation pipeline.
type Phase int

const (
	PhaseResolve Phase = iota + 1
	PhaseCompose
	PhaseRender
	PhaseWrite
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseResolve:
		return "resolve"
	case PhaseCompose:
		return "compose"
	case PhaseRender:
		return "render"
	case PhaseWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Observer is notified when a phase begins.
type Observer func(Phase)

// Option configures a Generator.
type Option func(*Generator)

// WithObserver registers fn to be called at each phase boundary.
func WithObserver(fn Observer) Option {
	return func(g *Generator) {
		g.observe = fn
	}
}

// Request is a single generation request.
type Request struct {
	// ServiceType is the template ID.
	ServiceType string

	// Variables is the render context, usually built by NewVariables.
	Variables Variables

	// Addons lists the requested add-on IDs.
	Addons []string

	// Target is the output directory. It must not exist.
	Target string

	// DryRun stops after rendering; nothing is written.
	DryRun bool
}

// Result describes a completed (or planned) generation.
type Result struct {
	Template templates.Descriptor
	Target   string

	// Files lists the written (or, for a dry run, planned) paths.
	Files []string

	Plan   *Plan
	DryRun bool
}

// Generator runs resolve, compose, render, and write against a catalog.
type Generator struct {
	catalog *templates.Catalog
	observe Observer
}

// NewGenerator creates a generator over catalog.
func NewGenerator(catalog *templates.Catalog, opts ...Option) *Generator {
	g := &Generator{catalog: catalog}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Plan runs the side-effect-free half of the pipeline and returns the
// rendered plan without touching the filesystem.
func (g *Generator) Plan(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.enter(PhaseResolve)
	t, ok := g.catalog.Get(req.ServiceType)
	if !ok {
		return nil, &Error{Kind: KindUnknownTemplate, Template: req.ServiceType}
	}
	log := output.TemplateLogger(t.ID)
	log.Debug("resolved template", "version", t.Version)

	g.enter(PhaseCompose)
	fragments, err := Compose(t, req.Variables, req.Addons)
	if err != nil {
		return nil, err
	}
	log.Debug("composed fragments", "count", len(fragments), "addons", req.Addons)

	g.enter(PhaseRender)
	plan, err := Render(t, fragments, req.Variables)
	if err != nil {
		return nil, err
	}
	log.Debug("rendered plan", "files", len(plan.Entries), "bytes", plan.Size())

	return &Result{
		Template: t.Descriptor,
		Target:   req.Target,
		Files:    plan.Paths(),
		Plan:     plan,
		DryRun:   true,
	}, nil
}

// Generate renders the request and, unless DryRun is set, writes it to Target.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	res, err := g.Plan(ctx, req)
	if err != nil || req.DryRun {
		return res, err
	}

	g.enter(PhaseWrite)
	files, err := Write(ctx, res.Plan, req.Target)
	if err != nil {
		return nil, err
	}

	res.Files = files
	res.DryRun = false
	return res, nil
}

func (g *Generator) enter(p Phase) {
	output.Debug("entering phase", "phase", p)
	if g.observe != nil {
		g.observe(p)
	}
}
