// Package render emits the assembled site graph as a static HTML tree.
//
// Output is written to an isolated staging directory and promoted atomically,
// so a crashed render never leaves a half-written site behind.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/devopslaunch/siteforge/internal/logfields"
	"github.com/devopslaunch/siteforge/internal/sidebar"
	"github.com/devopslaunch/siteforge/internal/sitegraph"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Site carries the site-level values templates need.
type Site struct {
	Title       string
	Description string
}

// Renderer writes one SiteGraph to an output directory.
type Renderer struct {
	outputDir string
	prefix    string
	site      Site
	staticDir string
	stageDir  string
	tmpl      *template.Template
}

// NewRenderer creates a renderer. prefix is the URL prefix documents live
// under (matching the link resolver's prefix, e.g. "/docs").
func NewRenderer(outputDir, prefix string, site Site) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{
		outputDir: outputDir,
		prefix:    strings.TrimSuffix(prefix, "/"),
		site:      site,
		tmpl:      tmpl,
	}, nil
}

// WithStaticDir sets a directory whose files (icons, images, stylesheets)
// are copied verbatim into the site root. A missing directory is not an
// error (fluent helper).
func (r *Renderer) WithStaticDir(dir string) *Renderer {
	r.staticDir = dir
	return r
}

type navItem struct {
	Label    string
	Href     string
	Children []navItem
}

type pageData struct {
	Site        Site
	Title       string
	Description string
	Nav         []navItem
	Content     template.HTML
}

type featureView struct {
	Title string
	Icon  string
	HTML  template.HTML
}

type indexData struct {
	Site     Site
	Features []featureView
	Nav      []navItem
}

// Render writes the full site: one page per document under the prefix, the
// landing page with feature blocks, and the serialized graph itself.
func (r *Renderer) Render(graph *sitegraph.SiteGraph) error {
	if err := r.beginStaging(); err != nil {
		return err
	}

	if err := r.renderAll(graph); err != nil {
		r.abortStaging()
		return err
	}

	return r.finalizeStaging()
}

func (r *Renderer) renderAll(graph *sitegraph.SiteGraph) error {
	nav := r.navItems(graph.Sidebar)
	md := goldmark.New()

	for _, doc := range graph.Documents {
		var body bytes.Buffer
		if err := md.Convert(doc.Body, &body); err != nil {
			return fmt.Errorf("convert %s: %w", doc.Path, err)
		}

		var page bytes.Buffer
		err := r.tmpl.ExecuteTemplate(&page, "page", pageData{
			Site:        r.site,
			Title:       doc.Title,
			Description: doc.Description,
			Nav:         nav,
			Content:     template.HTML(body.String()),
		})
		if err != nil {
			return fmt.Errorf("render %s: %w", doc.Path, err)
		}

		out := filepath.Join(r.stageDir, filepath.FromSlash(strings.TrimPrefix(r.docHref(doc.Slug), "/")), "index.html")
		if err := writeFile(out, page.Bytes()); err != nil {
			return err
		}
	}

	fviews := make([]featureView, 0, len(graph.Features))
	for _, f := range graph.Features {
		fviews = append(fviews, featureView{Title: f.Title, Icon: f.Icon, HTML: template.HTML(f.HTML)})
	}
	var index bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&index, "index", indexData{Site: r.site, Features: fviews, Nav: nav}); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	if err := writeFile(filepath.Join(r.stageDir, "index.html"), index.Bytes()); err != nil {
		return err
	}

	encoded, err := graph.Encode()
	if err != nil {
		return fmt.Errorf("encode site graph: %w", err)
	}
	if err := writeFile(filepath.Join(r.stageDir, "sitegraph.json"), encoded); err != nil {
		return err
	}

	return r.copyStatic()
}

// copyStatic mirrors the static assets directory into the staging root so
// pages and feature blocks can reference icons and images by absolute path.
func (r *Renderer) copyStatic() error {
	if r.staticDir == "" {
		return nil
	}
	info, err := os.Stat(r.staticDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat static directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("static path %s is not a directory", r.staticDir)
	}

	return filepath.WalkDir(r.staticDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(r.staticDir, p)
		if rerr != nil {
			return rerr
		}
		data, rerr := os.ReadFile(p)
		if rerr != nil {
			return fmt.Errorf("read static file %s: %w", p, rerr)
		}
		return writeFile(filepath.Join(r.stageDir, rel), data)
	})
}

func (r *Renderer) docHref(slug string) string {
	return r.prefix + "/" + slug + "/"
}

func (r *Renderer) navItems(n *sidebar.Node) []navItem {
	if n == nil {
		return nil
	}
	items := make([]navItem, 0, len(n.Children))
	for _, c := range n.Children {
		item := navItem{Label: c.Label, Children: r.navItems(c)}
		if !c.IsFolder() {
			item.Href = r.docHref(c.Slug)
		}
		items = append(items, item)
	}
	return items
}

// beginStaging creates an isolated sibling staging directory for atomic
// output, e.g. "site_stage" next to "site".
func (r *Renderer) beginStaging() error {
	stage := r.outputDir + "_stage"
	if err := os.RemoveAll(stage); err != nil {
		return fmt.Errorf("clear staging: %w", err)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return fmt.Errorf("create staging: %w", err)
	}
	r.stageDir = stage
	return nil
}

// finalizeStaging promotes the staging directory to the final output
// location: current output moves aside, staging renames into place, the
// backup is removed.
func (r *Renderer) finalizeStaging() error {
	prev := r.outputDir + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fmt.Errorf("remove previous backup: %w", err)
	}
	if _, err := os.Stat(r.outputDir); err == nil {
		if err := os.Rename(r.outputDir, prev); err != nil {
			return fmt.Errorf("backup existing output: %w", err)
		}
	}
	if err := os.Rename(r.stageDir, r.outputDir); err != nil {
		return fmt.Errorf("promote staging: %w", err)
	}
	r.stageDir = ""
	if err := os.RemoveAll(prev); err != nil {
		slog.Warn("Failed to remove previous output backup", logfields.Path(prev), logfields.Error(err))
	}
	slog.Info("Site rendered", logfields.Path(r.outputDir))
	return nil
}

// abortStaging removes the staging directory after a failed render to avoid
// orphaned temp dirs.
func (r *Renderer) abortStaging() {
	if r.stageDir == "" {
		return
	}
	if err := os.RemoveAll(r.stageDir); err != nil {
		slog.Warn("Failed to remove staging directory", logfields.Path(r.stageDir), logfields.Error(err))
	}
	r.stageDir = ""
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
