package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/emicklei/dot"
)

// Mermaid renders the graph as a Mermaid flowchart. Conditional edges are
// drawn as dotted arrows.
func (r *Runnable[S, K]) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", sanitizeMermaidID(Start), Start)
	for _, name := range r.order {
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", sanitizeMermaidID(string(name)), name)
	}
	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", sanitizeMermaidID(End), End)

	fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(Start), sanitizeMermaidID(string(r.entry)))
	for _, name := range r.order {
		from := sanitizeMermaidID(string(name))
		if to, ok := r.edges[name]; ok {
			fmt.Fprintf(&sb, "    %s --> %s\n", from, sanitizeMermaidID(string(to)))
			continue
		}
		for _, to := range r.branches[name].destinations {
			fmt.Fprintf(&sb, "    %s -.-> %s\n", from, sanitizeMermaidID(string(to)))
		}
	}

	return sb.String()
}

// DOT renders the graph in Graphviz DOT format. Conditional edges are dashed.
func (r *Runnable[S, K]) DOT() string {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "TB")

	start := g.Node(Start).Attr("shape", "circle")
	end := g.Node(End).Attr("shape", "doublecircle")

	nodes := make(map[string]dot.Node, len(r.order)+2)
	nodes[Start] = start
	nodes[End] = end
	for _, name := range r.order {
		nodes[string(name)] = g.Node(string(name)).Attr("shape", "box")
	}

	g.Edge(start, nodes[string(r.entry)])
	for _, name := range r.order {
		from := nodes[string(name)]
		if to, ok := r.edges[name]; ok {
			g.Edge(from, nodes[string(to)])
			continue
		}
		for _, to := range r.branches[name].destinations {
			g.Edge(from, nodes[string(to)]).Dashed()
		}
	}

	return g.String()
}

// WriteDiagram writes the graph to path. ".dot" and ".gv" produce DOT, every
// other extension produces Mermaid.
func (r *Runnable[S, K]) WriteDiagram(path string) error {
	var content string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		content = r.DOT()
	default:
		content = r.Mermaid()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("graph: create diagram dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("graph: write diagram: %w", err)
	}
	return nil
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
