package sitegraph

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/devopslaunch/siteforge/internal/content"
	"github.com/devopslaunch/siteforge/internal/diag"
	"github.com/devopslaunch/siteforge/internal/features"
	"github.com/devopslaunch/siteforge/internal/links"
	"github.com/devopslaunch/siteforge/internal/logfields"
	"github.com/devopslaunch/siteforge/internal/metrics"
	"github.com/devopslaunch/siteforge/internal/sidebar"
)

// State tracks assembler progress through one build pass.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateLinking
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLinking:
		return "linking"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one successful build pass.
type Result struct {
	ID       string
	Graph    *SiteGraph
	Report   *diag.Report
	Duration time.Duration
}

// Assembler orchestrates loading, navigation, link resolution and feature
// composition. One assembler performs one build; construct a new one per
// pass so multiple builds can run in one process without shared state.
type Assembler struct {
	loader   *content.Loader
	resolver *links.Resolver
	blocks   []features.Block
	rec      metrics.Recorder
	state    State
}

// NewAssembler creates an assembler for the given content root.
func NewAssembler(root string) *Assembler {
	return &Assembler{
		loader:   content.NewLoader(root),
		resolver: links.NewResolver(""),
		state:    StateEmpty,
	}
}

// WithLinkPrefix overrides the internal link prefix (fluent helper).
func (a *Assembler) WithLinkPrefix(prefix string) *Assembler {
	a.resolver = links.NewResolver(prefix)
	return a
}

// WithFeatures sets the declarative landing-page blocks (fluent helper).
func (a *Assembler) WithFeatures(blocks []features.Block) *Assembler {
	a.blocks = blocks
	return a
}

// WithRecorder attaches a metrics recorder (fluent helper).
func (a *Assembler) WithRecorder(rec metrics.Recorder) *Assembler {
	a.rec = rec
	return a
}

// State returns the assembler's current state.
func (a *Assembler) State() State { return a.state }

// Build runs the full pass: Empty -> Loading -> Linking -> Ready, or Failed
// when the content root is unreadable. Partial problems (broken links,
// malformed frontmatter, duplicate slugs) land in the report and never fail
// the build.
func (a *Assembler) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()
	report := &diag.Report{}

	a.state = StateLoading
	loadStart := time.Now()
	docs, loadDiags, err := a.loader.Load(ctx)
	if err != nil {
		a.state = StateFailed
		a.incOutcome(StateFailed)
		slog.Error("Build failed during load", logfields.BuildID(id), logfields.Error(err))
		return nil, err
	}
	report.Merge(loadDiags)
	a.observeStage(StateLoading, time.Since(loadStart))
	slog.Info("Documents loaded", logfields.BuildID(id), logfields.Docs(len(docs)))

	a.state = StateLinking
	linkStart := time.Now()
	tree := sidebar.Build(docs)
	crossLinks, linkDiags := a.resolver.Resolve(docs)
	report.Merge(linkDiags)
	a.observeStage(StateLinking, time.Since(linkStart))

	graph := &SiteGraph{
		Documents: docs,
		Sidebar:   tree,
		Links:     crossLinks,
		Features:  features.Render(a.blocks),
	}
	report.Sort()

	a.state = StateReady
	duration := time.Since(start)
	a.recordOutcome(graph, report, duration)
	slog.Info("Site graph assembled",
		logfields.BuildID(id),
		logfields.Docs(len(docs)),
		logfields.Links(len(crossLinks)),
		logfields.Unresolved(report.Count(diag.KindUnresolvedLink)),
		logfields.DurationMS(float64(duration.Milliseconds())))

	return &Result{ID: id, Graph: graph, Report: report, Duration: duration}, nil
}

func (a *Assembler) observeStage(s State, d time.Duration) {
	if a.rec != nil {
		a.rec.ObserveStageDuration(s.String(), d)
	}
}

func (a *Assembler) incOutcome(s State) {
	if a.rec != nil {
		a.rec.IncBuildOutcome(s.String())
	}
}

func (a *Assembler) recordOutcome(graph *SiteGraph, report *diag.Report, d time.Duration) {
	if a.rec == nil {
		return
	}
	a.rec.ObserveBuildDuration(d)
	a.rec.IncBuildOutcome(StateReady.String())
	a.rec.SetDocuments(len(graph.Documents))

	byStatus := map[string]int{}
	for _, l := range graph.Links {
		byStatus[string(l.Status)]++
	}
	for status, n := range byStatus {
		a.rec.AddLinks(status, n)
	}

	byKind := map[string]int{}
	for _, dg := range report.Diagnostics {
		byKind[string(dg.Kind)]++
	}
	for kind, n := range byKind {
		a.rec.AddDiagnostics(kind, n)
	}
}
