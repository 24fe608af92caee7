// Package linkcheck verifies a rendered site tree: every internal href in
// the emitted HTML must point at an emitted file. It runs after render as a
// belt-and-braces check on top of source-level link resolution.
package linkcheck

import (
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/devopslaunch/siteforge/internal/diag"
)

// Check walks the rendered output directory, parses every HTML file and
// reports internal hrefs that do not resolve to an emitted file.
func Check(outputDir string) ([]diag.Diagnostic, error) {
	var diags []diag.Diagnostic

	err := filepath.WalkDir(outputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		f, oerr := os.Open(p)
		if oerr != nil {
			return oerr
		}
		hrefs, perr := extractHrefs(f)
		_ = f.Close()
		if perr != nil {
			return fmt.Errorf("parse %s: %w", p, perr)
		}

		rel, rerr := filepath.Rel(outputDir, p)
		if rerr != nil {
			return rerr
		}
		for _, href := range hrefs {
			if !isInternal(href) {
				continue
			}
			if !targetExists(outputDir, href) {
				diags = append(diags, diag.Diagnostic{
					Path:     filepath.ToSlash(rel),
					Kind:     diag.KindBrokenOutputLink,
					Severity: diag.SeverityError,
					Detail:   fmt.Sprintf("href %s has no rendered target", href),
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return diags, nil
}

// extractHrefs collects a/href and img/src values from an HTML document.
func extractHrefs(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a", "link":
				if v := attr(n, "href"); v != "" {
					hrefs = append(hrefs, v)
				}
			case "img", "script":
				if v := attr(n, "src"); v != "" {
					hrefs = append(hrefs, v)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hrefs, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// isInternal reports whether an href is site-internal: rooted, no scheme, no
// host.
func isInternal(href string) bool {
	if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// targetExists checks whether the href maps to an emitted file: either the
// path itself or the directory's index.html.
func targetExists(outputDir, href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	clean := strings.Trim(u.Path, "/")
	if clean == "" {
		// Root always exists once render emitted index.html.
		clean = "."
	}
	base := filepath.Join(outputDir, filepath.FromSlash(clean))

	if info, err := os.Stat(base); err == nil {
		if !info.IsDir() {
			return true
		}
		_, ierr := os.Stat(filepath.Join(base, "index.html"))
		return ierr == nil
	}
	return false
}
