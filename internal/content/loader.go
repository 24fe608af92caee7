package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/devopslaunch/siteforge/internal/diag"
	"github.com/devopslaunch/siteforge/internal/frontmatter"
	"github.com/devopslaunch/siteforge/internal/logfields"
)

// PositionUnset is the sidebar position assigned to documents without an
// explicit sidebar_position key; it sorts them after everything else.
const PositionUnset = math.MaxInt

// ErrContentRootUnreadable is returned when the content root is missing or
// cannot be enumerated. It is the only fatal loader condition.
var ErrContentRootUnreadable = errors.New("content root unreadable")

const defaultWorkers = 8

// Loader reads Markdown files under a content root into Documents.
type Loader struct {
	root    string
	workers int
}

// NewLoader creates a loader for the given content root.
func NewLoader(root string) *Loader {
	return &Loader{root: root, workers: defaultWorkers}
}

// WithWorkers overrides the parse concurrency (fluent helper).
func (l *Loader) WithWorkers(n int) *Loader {
	if n > 0 {
		l.workers = n
	}
	return l
}

// Load walks the content root and parses every Markdown file into a
// Document. Files are parsed concurrently; results are collected and merged
// into a path-sorted slice so output never depends on enumeration order.
//
// Per-file problems (malformed frontmatter, duplicate slugs, files that
// cannot be read) become diagnostics, not errors. Only an unreadable root is
// fatal.
func (l *Loader) Load(ctx context.Context) ([]Document, []diag.Diagnostic, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrContentRootUnreadable, l.root, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s is not a directory", ErrContentRootUnreadable, l.root)
	}

	paths, err := l.enumerate()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrContentRootUnreadable, err)
	}

	type parsed struct {
		path  string
		doc   Document
		diags []diag.Diagnostic
		err   error
	}

	jobs := make(chan string)
	results := make(chan parsed, len(paths))

	var wg sync.WaitGroup
	workers := l.workers
	if workers > len(paths) {
		workers = len(paths)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for relPath := range jobs {
				doc, diags, perr := l.parseFile(relPath)
				results <- parsed{path: relPath, doc: doc, diags: diags, err: perr}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range paths {
			select {
			case <-ctx.Done():
				return
			case jobs <- p:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var docs []Document
	var diags []diag.Diagnostic
	for res := range results {
		if res.err != nil {
			// A file that vanished or lost permissions between the walk and
			// the read. The rest of the site still builds.
			diags = append(diags, diag.Diagnostic{
				Path:     res.path,
				Kind:     diag.KindUnreadableFile,
				Severity: diag.SeverityWarning,
				Detail:   res.err.Error(),
			})
			slog.Warn("Skipping unreadable file", logfields.Path(res.path), logfields.Error(res.err))
			continue
		}
		docs = append(docs, res.doc)
		diags = append(diags, res.diags...)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	docs, dupDiags := dedupeSlugs(docs)
	diags = append(diags, dupDiags...)

	slog.Debug("Content loaded", logfields.Docs(len(docs)), logfields.Count(len(diags)))
	return docs, diags, nil
}

// enumerate collects relative slash-separated paths of all Markdown files,
// skipping hidden files and directories.
func (l *Loader) enumerate() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && p != l.root {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !isMarkdown(name) {
			return nil
		}
		rel, rerr := filepath.Rel(l.root, p)
		if rerr != nil {
			return rerr
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	return paths, err
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".mdx" || ext == ".markdown"
}

// parseFile reads and parses one file. Malformed frontmatter degrades to
// defaults with the raw block left in the body.
func (l *Loader) parseFile(relPath string) (Document, []diag.Diagnostic, error) {
	raw, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(relPath)))
	if err != nil {
		return Document{}, nil, err
	}

	doc := Document{
		Path:            relPath,
		Slug:            SlugFromPath(relPath),
		SidebarPosition: PositionUnset,
	}

	var diags []diag.Diagnostic
	fmRaw, body, had, err := frontmatter.Split(raw)
	if err != nil {
		diags = append(diags, diag.Diagnostic{
			Path:     relPath,
			Kind:     diag.KindMalformedFrontmatter,
			Severity: diag.SeverityWarning,
			Detail:   err.Error(),
		})
		body = raw
	} else if had {
		meta, derr := frontmatter.DecodeMeta(fmRaw)
		if derr != nil {
			diags = append(diags, diag.Diagnostic{
				Path:     relPath,
				Kind:     diag.KindMalformedFrontmatter,
				Severity: diag.SeverityWarning,
				Detail:   derr.Error(),
			})
			body = raw
		} else {
			doc.Title = meta.Title
			doc.Description = meta.Description
			if meta.SidebarPosition != nil {
				doc.SidebarPosition = *meta.SidebarPosition
			}
		}
	}
	doc.Body = body

	if doc.Title == "" {
		doc.Title = FirstHeading(doc.Body)
	}
	if doc.Title == "" {
		doc.Title = titleFromFilename(relPath)
	}

	return doc, diags, nil
}

// dedupeSlugs drops all but the last document (in lexicographic path order)
// for each slug and emits one DuplicateSlug diagnostic per dropped document.
// The fixed order makes the winner deterministic across rebuilds.
func dedupeSlugs(docs []Document) ([]Document, []diag.Diagnostic) {
	winner := make(map[string]string, len(docs))
	for _, d := range docs {
		winner[d.Slug] = d.Path
	}

	var diags []diag.Diagnostic
	out := docs[:0]
	for _, d := range docs {
		if winner[d.Slug] != d.Path {
			diags = append(diags, diag.Diagnostic{
				Path:     d.Path,
				Kind:     diag.KindDuplicateSlug,
				Severity: diag.SeverityError,
				Detail:   fmt.Sprintf("slug %q superseded by %s", d.Slug, winner[d.Slug]),
			})
			slog.Warn("Duplicate slug, later path wins",
				logfields.Slug(d.Slug), logfields.Path(d.Path), logfields.Name(winner[d.Slug]))
			continue
		}
		out = append(out, d)
	}
	return out, diags
}
