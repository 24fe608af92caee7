package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/devopslaunch/siteforge/internal/config"
	"github.com/devopslaunch/siteforge/internal/content"
	"github.com/devopslaunch/siteforge/internal/diag"
	"github.com/devopslaunch/siteforge/internal/events"
	"github.com/devopslaunch/siteforge/internal/gitsource"
	"github.com/devopslaunch/siteforge/internal/history"
	"github.com/devopslaunch/siteforge/internal/linkcheck"
	"github.com/devopslaunch/siteforge/internal/logfields"
	"github.com/devopslaunch/siteforge/internal/metrics"
	"github.com/devopslaunch/siteforge/internal/render"
	"github.com/devopslaunch/siteforge/internal/server"
	"github.com/devopslaunch/siteforge/internal/sitegraph"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"siteforge.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output    string `short:"o" help:"Output directory for the rendered site"`
		Strict    bool   `help:"Exit non-zero when the build reports unresolved links"`
		FromGit   string `help:"Clone content from a git repository URL instead of the local root"`
		GitBranch string `help:"Branch to clone when --from-git is set"`
		GitPath   string `help:"Subdirectory inside the cloned repository holding the content"`
	} `cmd:"" help:"Build the site graph and render the static site"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Discover struct{} `cmd:"" help:"List discovered documents without rendering"`

	Check struct {
		Format string `help:"Report format (text or json)" default:"text"`
	} `cmd:"" help:"Build without rendering and report diagnostics (non-zero exit on unresolved links)"`

	Serve struct {
		Addr         string        `help:"Listen address (overrides config)"`
		Watch        bool          `help:"Rebuild when content changes"`
		RebuildEvery time.Duration `help:"Also rebuild on a fixed interval (e.g. 5m)"`
	} `cmd:"" help:"Serve the rendered site locally with live rebuilds"`

	History struct {
		Limit int `help:"Number of builds to list" default:"20"`
	} `cmd:"" help:"List recent builds from the history store"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	var err error
	switch ctx.Command() {
	case "build":
		err = withConfig(runBuild)
	case "init":
		err = runInit(CLI.Config, CLI.Init.Force)
	case "discover":
		err = withConfig(runDiscover)
	case "check":
		err = withConfig(runCheck)
	case "serve":
		err = withConfig(runServe)
	case "history":
		err = withConfig(runHistory)
	}
	if err != nil {
		slog.Error("Command failed", logfields.Error(err))
		os.Exit(1)
	}
}

func withConfig(run func(cfg *config.Config) error) error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	return run(cfg)
}

func runBuild(cfg *config.Config) error {
	ctx := context.Background()

	root := cfg.Content.Root
	if CLI.Build.FromGit != "" {
		src, err := gitsource.Clone(ctx, CLI.Build.FromGit, CLI.Build.GitBranch)
		if err != nil {
			return fmt.Errorf("clone content repository: %w", err)
		}
		defer src.Cleanup()
		root = src.ContentRoot(CLI.Build.GitPath)
	}

	outputDir := cfg.Output.Directory
	if CLI.Build.Output != "" {
		outputDir = CLI.Build.Output
	}

	slog.Info("Starting site build", logfields.Path(root), slog.String("output", outputDir))

	started := time.Now()
	result, err := sitegraph.NewAssembler(root).
		WithLinkPrefix(cfg.Content.LinkPrefix).
		WithFeatures(cfg.Features).
		Build(ctx)
	if err != nil {
		return err
	}

	renderer, err := render.NewRenderer(outputDir, cfg.Content.LinkPrefix, render.Site{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
	})
	if err != nil {
		return err
	}
	if err := renderer.WithStaticDir(cfg.Content.Static).Render(result.Graph); err != nil {
		return fmt.Errorf("render site: %w", err)
	}

	outputDiags, err := linkcheck.Check(outputDir)
	if err != nil {
		slog.Warn("Output link verification failed", logfields.Error(err))
	} else {
		result.Report.Merge(outputDiags)
		result.Report.Sort()
	}

	recordBuild(ctx, cfg, started, result)
	publishUnresolved(cfg, result)

	if !result.Report.Empty() {
		if err := diag.NewFormatter("text").Format(os.Stderr, result.Report); err != nil {
			return err
		}
	}

	slog.Info("Site built",
		logfields.BuildID(result.ID),
		logfields.Docs(len(result.Graph.Documents)),
		logfields.Links(len(result.Graph.Links)),
		logfields.Unresolved(result.Report.Count(diag.KindUnresolvedLink)))

	if CLI.Build.Strict && result.Report.FailsStrict() {
		return fmt.Errorf("strict mode: %d unresolved links", result.Report.Count(diag.KindUnresolvedLink))
	}
	return nil
}

// recordBuild persists a build row when history is configured. Failures are
// logged; they never fail the build.
func recordBuild(ctx context.Context, cfg *config.Config, started time.Time, result *sitegraph.Result) {
	if cfg.History.Path == "" {
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		slog.Warn("Failed to open history store", logfields.Path(cfg.History.Path), logfields.Error(err))
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close history store", logfields.Error(err))
		}
	}()

	err = store.Record(ctx, history.Build{
		ID:         result.ID,
		Started:    started,
		Duration:   result.Duration,
		Documents:  len(result.Graph.Documents),
		Links:      len(result.Graph.Links),
		Unresolved: result.Report.Count(diag.KindUnresolvedLink),
		State:      sitegraph.StateReady.String(),
	})
	if err != nil {
		slog.Warn("Failed to record build history", logfields.Error(err))
	}
}

// publishUnresolved emits one event per unresolved link when events are
// enabled. Connectivity problems are logged, not fatal.
func publishUnresolved(cfg *config.Config, result *sitegraph.Result) {
	if !cfg.Events.Enabled || result.Report.Count(diag.KindUnresolvedLink) == 0 {
		return
	}
	pub, err := events.Connect(cfg.Events.URL, cfg.Events.Subject)
	if err != nil {
		slog.Warn("Failed to connect to event broker", logfields.URL(cfg.Events.URL), logfields.Error(err))
		return
	}
	defer pub.Close()

	if err := pub.PublishUnresolved(result.ID, result.Report); err != nil {
		slog.Warn("Failed to publish unresolved-link events", logfields.Error(err))
	}
}

func runInit(configPath string, force bool) error {
	slog.Info("Initializing configuration", logfields.Path(configPath))
	return config.Init(configPath, force)
}

func runDiscover(cfg *config.Config) error {
	docs, diags, err := content.NewLoader(cfg.Content.Root).Load(context.Background())
	if err != nil {
		return err
	}

	for _, doc := range docs {
		position := "-"
		if doc.HasExplicitPosition() {
			position = fmt.Sprintf("%d", doc.SidebarPosition)
		}
		fmt.Printf("%-40s %-6s %s\n", doc.Slug, position, doc.Path)
	}
	slog.Info("Discovery complete", logfields.Docs(len(docs)), logfields.Count(len(diags)))
	return nil
}

func runCheck(cfg *config.Config) error {
	result, err := sitegraph.NewAssembler(cfg.Content.Root).
		WithLinkPrefix(cfg.Content.LinkPrefix).
		WithFeatures(cfg.Features).
		Build(context.Background())
	if err != nil {
		return err
	}

	if err := diag.NewFormatter(CLI.Check.Format).Format(os.Stdout, result.Report); err != nil {
		return err
	}
	if result.Report.FailsStrict() {
		return fmt.Errorf("%d unresolved links", result.Report.Count(diag.KindUnresolvedLink))
	}
	return nil
}

func runServe(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Serve.Addr
	if CLI.Serve.Addr != "" {
		addr = CLI.Serve.Addr
	}
	watch := cfg.Serve.Watch || CLI.Serve.Watch
	rebuildEvery := cfg.Serve.RebuildEvery.Std()
	if CLI.Serve.RebuildEvery > 0 {
		rebuildEvery = CLI.Serve.RebuildEvery
	}

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	renderer, err := render.NewRenderer(cfg.Output.Directory, cfg.Content.LinkPrefix, render.Site{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
	})
	if err != nil {
		return err
	}
	renderer.WithStaticDir(cfg.Content.Static)

	rebuild := func(ctx context.Context) (*diag.Report, error) {
		result, err := sitegraph.NewAssembler(cfg.Content.Root).
			WithLinkPrefix(cfg.Content.LinkPrefix).
			WithFeatures(cfg.Features).
			WithRecorder(recorder).
			Build(ctx)
		if err != nil {
			return nil, err
		}
		if err := renderer.Render(result.Graph); err != nil {
			return nil, fmt.Errorf("render site: %w", err)
		}
		return result.Report, nil
	}

	srv := server.New(addr, cfg.Output.Directory, registry, rebuild)

	// Initial build before accepting requests; an unreadable content root is
	// the one fatal condition.
	report, err := rebuild(ctx)
	if err != nil {
		return err
	}
	srv.SetReport(report)

	if watch {
		watcher, err := server.NewWatcher(cfg.Content.Root, func() {
			srv.TriggerRebuild(ctx)
		})
		if err != nil {
			return fmt.Errorf("watch content root: %w", err)
		}
		go watcher.Run(ctx)
		slog.Info("Watching content for changes", logfields.Path(cfg.Content.Root))
	}

	if rebuildEvery > 0 {
		scheduler, err := server.NewScheduler()
		if err != nil {
			return err
		}
		if err := scheduler.ScheduleRebuild(rebuildEvery, func() {
			srv.TriggerRebuild(ctx)
		}); err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(context.Background()); err != nil {
				slog.Warn("Failed to stop scheduler", logfields.Error(err))
			}
		}()
	}

	return srv.Run(ctx)
}

func runHistory(cfg *config.Config) error {
	if cfg.History.Path == "" {
		return fmt.Errorf("history store not configured (set history.path)")
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close history store", logfields.Error(err))
		}
	}()

	builds, err := store.Recent(context.Background(), CLI.History.Limit)
	if err != nil {
		return err
	}
	for _, b := range builds {
		fmt.Printf("%s  %s  %-6s docs=%d links=%d unresolved=%d %s\n",
			b.ID,
			b.Started.Format(time.RFC3339),
			b.State,
			b.Documents,
			b.Links,
			b.Unresolved,
			b.Duration.Round(time.Millisecond))
	}
	return nil
}
