package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/librescoot/tinyfsm"
)

// DOT generates Graphviz DOT source for the definition.
func DOT(def tinyfsm.Definition, overlay *Overlay) string {
	l := newLayout(def)

	var sb strings.Builder
	sb.WriteString(`digraph fsm {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	visited := make(map[tinyfsm.StateID]bool)
	for _, id := range overlay.visited() {
		visited[id] = true
	}
	current := overlay.current()

	attrs := func(id tinyfsm.StateID, ghost bool) string {
		style := "rounded"
		if ghost {
			style += ",dashed"
		}
		fill := ""
		switch {
		case id == current:
			style += ",filled"
			fill = " fillcolor=lightgreen"
		case visited[id]:
			style += ",filled"
			fill = " fillcolor=lightblue"
		}
		return fmt.Sprintf("style=%q%s", style, fill)
	}

	for _, id := range l.states {
		sb.WriteString(fmt.Sprintf("  %s [label=%s %s];\n", strconv.Quote(string(id)), strconv.Quote(string(id)), attrs(id, false)))
	}
	for _, id := range l.ghosts {
		sb.WriteString(fmt.Sprintf("  %s [label=%s %s];\n", strconv.Quote(string(id)), strconv.Quote(string(id)), attrs(id, true)))
	}

	if l.initial != "" {
		start := strconv.Quote(l.startNode())
		sb.WriteString(fmt.Sprintf("  %s [shape=point];\n", start))
		sb.WriteString(fmt.Sprintf("  %s -> %s;\n", start, strconv.Quote(string(l.initial))))
	}

	for _, e := range l.edges {
		sb.WriteString(fmt.Sprintf("  %s -> %s [label=%s];\n",
			strconv.Quote(string(e.From)), strconv.Quote(string(e.To)), strconv.Quote(string(e.Event))))
	}

	sb.WriteString("}\n")
	return sb.String()
}
