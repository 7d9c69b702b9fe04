package export

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"

	"github.com/OFFIS-RIT/coauthor/pkg/graph"
)

const visNetworkURL = "https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"

//go:embed network.html.tmpl
var networkTemplate string

var pageTmpl = template.Must(template.New("network").Parse(networkTemplate))

// Layout holds the canvas and physics settings of the rendered network.
//
// ScriptURL is where the page loads vis-network from. When ScriptPath names
// a local copy of the library, its contents are inlined instead and the page
// works offline.
type Layout struct {
	Title          string
	ScriptURL      string
	ScriptPath     string
	Height         string
	Width          string
	Background     string
	FontColor      string
	SpringLength   float64
	SpringConstant float64
	Damping        float64
}

// DefaultLayout returns the layout used for every export.
func DefaultLayout() Layout {
	return Layout{
		Title:          "Author network",
		ScriptURL:      visNetworkURL,
		Height:         "1000px",
		Width:          "100%",
		Background:     "#ffffff",
		FontColor:      "#2d3436",
		SpringLength:   200,
		SpringConstant: 0.05,
		Damping:        0.2,
	}
}

// Result describes the outcome of Export. Empty is set when the graph had no
// nodes; nothing is written in that case.
type Result struct {
	Path  string
	Nodes int
	Edges int
	Empty bool
}

type visNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
	Shape string `json:"shape"`
}

type visEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type visBarnesHut struct {
	SpringLength   float64 `json:"springLength"`
	SpringConstant float64 `json:"springConstant"`
	Damping        float64 `json:"damping"`
}

type visPhysics struct {
	Enabled   bool         `json:"enabled"`
	BarnesHut visBarnesHut `json:"barnesHut"`
}

type visFont struct {
	Color string `json:"color"`
}

type visNodeOptions struct {
	Font visFont `json:"font"`
}

type visOptions struct {
	Physics visPhysics     `json:"physics"`
	Nodes   visNodeOptions `json:"nodes"`
}

type page struct {
	Title        string
	ScriptURL    string
	InlineScript template.JS
	Layout       Layout
	Nodes        []visNode
	Edges        []visEdge
	Options      visOptions
}

// Export renders g as an interactive HTML network at path, replacing any
// previous file atomically.
func Export(g *graph.Graph, layout Layout, path string) (Result, error) {
	if g.NodeCount() == 0 {
		return Result{Empty: true}, nil
	}

	p := newPage(g, layout)
	if layout.ScriptPath != "" {
		script, err := os.ReadFile(layout.ScriptPath)
		if err != nil {
			return Result{}, fmt.Errorf("failed to read network script: %w", err)
		}
		p.InlineScript = template.JS(script)
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, p); err != nil {
		return Result{}, fmt.Errorf("failed to render network: %w", err)
	}

	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return Result{}, err
	}

	return Result{
		Path:  path,
		Nodes: g.NodeCount(),
		Edges: g.EdgeCount(),
	}, nil
}

func newPage(g *graph.Graph, layout Layout) page {
	names := g.Nodes()
	nodes := make([]visNode, 0, len(names))
	for _, n := range names {
		nodes = append(nodes, visNode{
			ID:    string(n),
			Label: string(n),
			Title: string(n) + " (" + coAuthors(g.Degree(n)) + ")",
			Shape: "dot",
		})
	}

	links := g.Edges()
	edges := make([]visEdge, 0, len(links))
	for _, e := range links {
		edges = append(edges, visEdge{From: string(e.A), To: string(e.B)})
	}

	return page{
		Title:     layout.Title,
		ScriptURL: layout.ScriptURL,
		Layout:    layout,
		Nodes:     nodes,
		Edges:     edges,
		Options: visOptions{
			Physics: visPhysics{
				Enabled: true,
				BarnesHut: visBarnesHut{
					SpringLength:   layout.SpringLength,
					SpringConstant: layout.SpringConstant,
					Damping:        layout.Damping,
				},
			},
			Nodes: visNodeOptions{Font: visFont{Color: layout.FontColor}},
		},
	}
}

func coAuthors(n int) string {
	if n == 1 {
		return "1 co-author"
	}
	return strconv.Itoa(n) + " co-authors"
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write network: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write network: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write network: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
