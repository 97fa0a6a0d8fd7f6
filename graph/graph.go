// Package graph renders machine definitions as diagrams.
//
// Only what the machine can actually reach is drawn: a state declared a
// second time under the same name, and a second transition for the same
// event in one state, are shadowed by the first and left out. Transitions
// to undefined states are kept and their targets styled as ghosts.
package graph

import (
	"fmt"

	"github.com/librescoot/tinyfsm"
)

// Overlay carries runtime information to highlight on the diagram.
type Overlay struct {
	Current tinyfsm.StateID
	Visited []tinyfsm.StateID
}

type edge struct {
	From  tinyfsm.StateID
	To    tinyfsm.StateID
	Event tinyfsm.EventID
}

// layout is the deduplicated view of a definition shared by the renderers.
type layout struct {
	initial tinyfsm.StateID
	states  []tinyfsm.StateID
	ghosts  []tinyfsm.StateID
	edges   []edge

	// ids maps every drawn state to a distinct diagram identifier.
	ids map[tinyfsm.StateID]string
}

func newLayout(def tinyfsm.Definition) layout {
	l := layout{initial: def.InitialState}

	defined := make(map[tinyfsm.StateID]bool, len(def.States))
	for _, s := range def.States {
		if defined[s.Name] {
			continue
		}
		defined[s.Name] = true
		l.states = append(l.states, s.Name)
	}

	ghost := make(map[tinyfsm.StateID]bool)
	addGhost := func(id tinyfsm.StateID) {
		if !defined[id] && !ghost[id] {
			ghost[id] = true
			l.ghosts = append(l.ghosts, id)
		}
	}

	if l.initial != "" {
		addGhost(l.initial)
	}

	seenState := make(map[tinyfsm.StateID]bool, len(def.States))
	for _, s := range def.States {
		if seenState[s.Name] {
			continue
		}
		seenState[s.Name] = true

		seenEvent := make(map[tinyfsm.EventID]bool, len(s.Transitions))
		for _, t := range s.Transitions {
			if seenEvent[t.Event] {
				continue
			}
			seenEvent[t.Event] = true
			addGhost(t.Target)
			l.edges = append(l.edges, edge{From: s.Name, To: t.Target, Event: t.Event})
		}
	}

	l.ids = make(map[tinyfsm.StateID]string, len(l.states)+len(l.ghosts))
	used := make(map[string]bool, len(l.states)+len(l.ghosts))
	for _, id := range append(append([]tinyfsm.StateID{}, l.states...), l.ghosts...) {
		base := sanitizeMermaidID(id)
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		l.ids[id] = name
	}

	return l
}

// id returns the diagram identifier of a state.
func (l layout) id(s tinyfsm.StateID) string {
	if id, ok := l.ids[s]; ok {
		return id
	}
	return sanitizeMermaidID(s)
}

// startNode returns a DOT node name for the initial pseudo-state that no
// drawn state uses.
func (l layout) startNode() string {
	name := "__start"
	for {
		if _, taken := l.ids[tinyfsm.StateID(name)]; !taken {
			return name
		}
		name += "_"
	}
}

func (o *Overlay) visited() []tinyfsm.StateID {
	if o == nil {
		return nil
	}
	seen := make(map[tinyfsm.StateID]bool, len(o.Visited))
	var out []tinyfsm.StateID
	for _, id := range o.Visited {
		if id == "" || seen[id] || id == o.Current {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (o *Overlay) current() tinyfsm.StateID {
	if o == nil {
		return ""
	}
	return o.Current
}
