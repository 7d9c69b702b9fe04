package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/coauthor/pkg/author"
	"github.com/OFFIS-RIT/coauthor/pkg/graph"
)

func sampleGraph() *graph.Graph {
	g := graph.New()
	s := make(author.Set)
	s.Add("Jane Smith")
	s.Add("Carlos Alvarez")
	s.Add("Maria Lopez")
	g.Accumulate(s)
	return g
}

func TestExportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "author_network.html")

	res, err := Export(graph.New(), DefaultLayout(), path)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !res.Empty {
		t.Fatalf("Export() Empty got = false, want true")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("Export() wrote %s for an empty graph", path)
	}
}

func TestExportWritesNetwork(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "author_network.html")

	res, err := Export(sampleGraph(), DefaultLayout(), path)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.Empty || res.Path != path || res.Nodes != 3 || res.Edges != 3 {
		t.Fatalf("Export() got = %+v, want 3 nodes 3 edges at %s", res, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	html := string(data)

	for _, want := range []string{
		`"springLength":200`,
		`"springConstant":0.05`,
		`"damping":0.2`,
		`"enabled":true`,
		`"color":"#2d3436"`,
		`"label":"Jane Smith"`,
		`"from":"Carlos Alvarez","to":"Jane Smith"`,
		`2 co-authors`,
		`height: 1000px`,
		`width: 100%`,
		`#ffffff`,
		`vis-network`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("Export() output missing %q", want)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ReadDir() got = %d entries, want 1 (no temporary files)", len(entries))
	}
}

func TestExportReplacesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "author_network.html")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Export(sampleGraph(), DefaultLayout(), path); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.Contains(string(data), "stale") {
		t.Fatalf("Export() did not replace the previous artifact")
	}
}

func TestExportEscapesNames(t *testing.T) {
	g := graph.New()
	g.AddEdge("Jane </script> Smith", "Carlos Alvarez")

	path := filepath.Join(t.TempDir(), "out.html")
	if _, err := Export(g, DefaultLayout(), path); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.Count(string(data), "</script>") != 2 {
		t.Fatalf("Export() output contains an unescaped name")
	}
}

func TestExportMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.html")
	if _, err := Export(sampleGraph(), DefaultLayout(), path); err == nil {
		t.Fatalf("Export() error = nil, want error")
	}
}

func TestExportSingleCoAuthor(t *testing.T) {
	g := graph.New()
	g.AddEdge("Jane Smith", "Carlos Alvarez")
	g.AddNode("Maria Lopez")

	path := filepath.Join(t.TempDir(), "out.html")
	if _, err := Export(g, DefaultLayout(), path); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	html := string(data)

	for _, want := range []string{"Jane Smith (1 co-author)", "Maria Lopez (0 co-authors)"} {
		if !strings.Contains(html, want) {
			t.Fatalf("Export() output missing %q", want)
		}
	}
	if strings.Contains(html, "1 co-authors") {
		t.Fatalf("Export() output contains %q", "1 co-authors")
	}
}

func TestExportInlinesLocalScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "vis-network.min.js")
	if err := os.WriteFile(script, []byte("var vis = {offline: true};"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	layout := DefaultLayout()
	layout.ScriptPath = script
	path := filepath.Join(dir, "out.html")
	if _, err := Export(sampleGraph(), layout, path); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "<script>var vis = {offline: true};</script>") {
		t.Fatalf("Export() did not inline the local script")
	}
	if strings.Contains(html, "unpkg.com") {
		t.Fatalf("Export() still references the remote script")
	}
}

func TestExportMissingLocalScript(t *testing.T) {
	dir := t.TempDir()
	layout := DefaultLayout()
	layout.ScriptPath = filepath.Join(dir, "missing.js")
	path := filepath.Join(dir, "out.html")

	if _, err := Export(sampleGraph(), layout, path); err == nil {
		t.Fatalf("Export() error = nil, want error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("Export() wrote %s despite the missing script", path)
	}
}
