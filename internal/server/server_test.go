package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/devopslaunch/siteforge/internal/diag"
)

func TestHandler_ServesOutputAndReport(t *testing.T) {
	outputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "index.html"), []byte("<html>home</html>"), 0o644))

	srv := New(":0", outputDir, prom.NewRegistry(), nil)
	report := &diag.Report{}
	report.Add(diag.Diagnostic{Path: "docs/a.md", Kind: diag.KindUnresolvedLink, Detail: "/docs/missing"})
	srv.SetReport(report)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(ts.URL + "/api/report")
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	require.Equal(t, "application/json", resp2.Header.Get("Content-Type"))

	var decoded diag.Report
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&decoded))
	require.Len(t, decoded.Diagnostics, 1)
	require.Equal(t, diag.KindUnresolvedLink, decoded.Diagnostics[0].Kind)

	resp3, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp3.Body.Close() }()
	require.Equal(t, http.StatusOK, resp3.StatusCode)
}

func TestTriggerRebuild_SwapsReport(t *testing.T) {
	fresh := &diag.Report{}
	fresh.Add(diag.Diagnostic{Path: "docs/b.md", Kind: diag.KindDuplicateSlug, Detail: "dupe"})

	srv := New(":0", t.TempDir(), nil, func(context.Context) (*diag.Report, error) {
		return fresh, nil
	})
	srv.TriggerRebuild(context.Background())

	srv.mu.RLock()
	defer srv.mu.RUnlock()
	require.Same(t, fresh, srv.report)
}

func TestTriggerRebuild_SerializesConcurrentTriggers(t *testing.T) {
	var active, maxActive int32
	srv := New(":0", t.TempDir(), nil, func(context.Context) (*diag.Report, error) {
		n := atomic.AddInt32(&active, 1)
		if n > atomic.LoadInt32(&maxActive) {
			atomic.StoreInt32(&maxActive, n)
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return &diag.Report{}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			srv.TriggerRebuild(context.Background())
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&maxActive))
}

func TestWatcher_FiresOnChange(t *testing.T) {
	root := t.TempDir()
	changed := make(chan struct{}, 1)

	w, err := NewWatcher(root, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(root, "intro.md"), []byte("# Intro\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not fire within timeout")
	}
}
