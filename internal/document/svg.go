package document

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mamadbah2/birdo/internal/lineage"
)

// TreeDOT converts a pedigree to Graphviz DOT. Ancestors are laid out to the
// right of the subject; unresolved slots are drawn dashed and grey.
func TreeDOT(tree lineage.Tree) string {
	var buf bytes.Buffer
	buf.WriteString("digraph pedigree {\n")
	buf.WriteString("  rankdir=RL;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=11];\n")
	buf.WriteString("  edge [arrowhead=none, color=\"#646464\"];\n")
	buf.WriteString("\n")

	for _, s := range tree.Slots {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(s.Position), strings.Join(slotAttrs(s), ", "))
	}

	buf.WriteString("\n")
	for _, s := range tree.Slots[1:] {
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(s.Position), nodeID(s.Position/2))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(pos int) string {
	return fmt.Sprintf("p%d", pos)
}

func slotAttrs(s lineage.Slot) []string {
	label := s.DisplayName()
	if s.State == lineage.StateKnown {
		label += "\n" + s.DisplayRing()
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case s.Position == 1:
		attrs = append(attrs, "penwidth=2", "fontcolor=\"#00783c\"")
	case s.State != lineage.StateKnown:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=\"#f0f0f0\"", "fontcolor=\"#505050\"")
	}
	return attrs
}

// RenderTreeSVG renders the pedigree diagram to SVG using Graphviz.
func RenderTreeSVG(ctx context.Context, tree lineage.Tree) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(TreeDOT(tree)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
