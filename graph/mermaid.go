package graph

import (
	"fmt"
	"strings"

	"github.com/librescoot/tinyfsm"
)

// Mermaid produces a Mermaid stateDiagram-v2 for the definition.
// The overlay, if given, styles visited states and the current state.
func Mermaid(def tinyfsm.Definition, overlay *Overlay) string {
	l := newLayout(def)

	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	for _, id := range append(append([]tinyfsm.StateID{}, l.states...), l.ghosts...) {
		sb.WriteString(fmt.Sprintf("    state \"%s\" as %s\n", escapeMermaidLabel(string(id)), l.id(id)))
	}

	if l.initial != "" {
		sb.WriteString(fmt.Sprintf("    [*] --> %s\n", l.id(l.initial)))
	}

	for _, e := range l.edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s : %s\n",
			l.id(e.From), l.id(e.To), escapeMermaidLabel(string(e.Event))))
	}

	if len(l.ghosts) > 0 {
		sb.WriteString("\n    classDef ghost stroke-dasharray:5 5,color:#888;\n")
		for _, id := range l.ghosts {
			sb.WriteString(fmt.Sprintf("    class %s ghost\n", l.id(id)))
		}
	}

	visited, current := overlay.visited(), overlay.current()
	if len(visited) > 0 || current != "" {
		// Force black text for contrast on both light and dark themes
		sb.WriteString("\n    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range visited {
			sb.WriteString(fmt.Sprintf("    class %s visited\n", l.id(id)))
		}
		if current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current\n", l.id(current)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id tinyfsm.StateID) string {
	var sb strings.Builder
	for _, r := range string(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}

func escapeMermaidLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", " ")
}
