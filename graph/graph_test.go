package graph

import (
	"strings"
	"testing"

	"github.com/librescoot/tinyfsm"
	"github.com/stretchr/testify/assert"
)

func sampleDefinition() tinyfsm.Definition {
	return tinyfsm.Definition{
		InitialState: "idle",
		States: []tinyfsm.State{
			{Name: "idle", Transitions: []tinyfsm.Transition{
				{Event: "start", Target: "running"},
				{Event: "start", Target: "idle"}, // shadowed
				{Event: "crash", Target: "nowhere"},
			}},
			{Name: "running", Transitions: []tinyfsm.Transition{
				{Event: "stop", Target: "idle"},
			}},
			{Name: "running", Transitions: []tinyfsm.Transition{
				{Event: "never", Target: "idle"}, // shadowed state
			}},
			{Name: "done-state"},
		},
	}
}

func TestMermaid(t *testing.T) {
	out := Mermaid(sampleDefinition(), nil)

	assert.True(t, strings.HasPrefix(out, "stateDiagram-v2\n"))
	assert.Contains(t, out, `    state "idle" as idle`)
	assert.Contains(t, out, `    state "done-state" as done_state`)
	assert.Contains(t, out, "    [*] --> idle\n")
	assert.Contains(t, out, "    idle --> running : start\n")
	assert.Contains(t, out, "    running --> idle : stop\n")
	assert.Contains(t, out, "    idle --> nowhere : crash\n")
	assert.Contains(t, out, "    class nowhere ghost\n")

	assert.NotContains(t, out, "idle --> idle")
	assert.NotContains(t, out, "never")
	assert.NotContains(t, out, "classDef current")
	assert.Equal(t, 1, strings.Count(out, `state "running"`))
}

func TestMermaidOverlay(t *testing.T) {
	out := Mermaid(sampleDefinition(), &Overlay{
		Current: "running",
		Visited: []tinyfsm.StateID{"idle", "idle", "running", ""},
	})

	assert.Contains(t, out, "    class running current\n")
	assert.Contains(t, out, "    class idle visited\n")
	assert.Equal(t, 1, strings.Count(out, "class idle visited"))
	assert.NotContains(t, out, "class running visited")
}

func TestMermaidGhostInitial(t *testing.T) {
	out := Mermaid(tinyfsm.Definition{InitialState: "ghost"}, nil)
	assert.Contains(t, out, "    [*] --> ghost\n")
	assert.Contains(t, out, "    class ghost ghost\n")
}

func TestSanitizeMermaidID(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitizeMermaidID("a.b-c"))
	assert.Equal(t, "_", sanitizeMermaidID(""))
	assert.Equal(t, "x_y", sanitizeMermaidID("x y"))
}

func TestDOT(t *testing.T) {
	out := DOT(sampleDefinition(), &Overlay{Current: "idle"})

	assert.True(t, strings.HasPrefix(out, "digraph fsm {\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `  "__start" -> "idle";`)
	assert.Contains(t, out, `  "idle" -> "running" [label="start"];`)
	assert.Contains(t, out, `  "idle" -> "nowhere" [label="crash"];`)
	assert.Contains(t, out, `  "idle" [label="idle" style="rounded,filled" fillcolor=lightgreen];`)
	assert.Contains(t, out, `  "nowhere" [label="nowhere" style="rounded,dashed"];`)
	assert.Contains(t, out, `  "running" [label="running" style="rounded"];`)
	assert.NotContains(t, out, "never")
}

func TestDOTFromMachine(t *testing.T) {
	def := tinyfsm.NewDefinition().
		State("a").
		State("b").
		Transition("a", "go", "b").
		Initial("a")
	m := tinyfsm.New(def)
	m.Transition("go")

	out := DOT(m.Definition(), &Overlay{Current: m.CurrentState(), Visited: []tinyfsm.StateID{"a"}})
	assert.Contains(t, out, `  "b" [label="b" style="rounded,filled" fillcolor=lightgreen];`)
	assert.Contains(t, out, `  "a" [label="a" style="rounded,filled" fillcolor=lightblue];`)
}

func TestMermaidDistinctIDs(t *testing.T) {
	def := tinyfsm.Definition{
		InitialState: "a-b",
		States: []tinyfsm.State{
			{Name: "a-b", Transitions: []tinyfsm.Transition{{Event: "go", Target: "a.b"}}},
			{Name: "a.b", Transitions: []tinyfsm.Transition{{Event: "on", Target: "a b"}}},
			{Name: "a_b_2"},
		},
	}
	out := Mermaid(def, &Overlay{Current: "a.b"})

	assert.Contains(t, out, `    state "a-b" as a_b`+"\n")
	assert.Contains(t, out, `    state "a.b" as a_b_2`+"\n")
	assert.Contains(t, out, `    state "a_b_2" as a_b_2_2`+"\n")
	assert.Contains(t, out, `    state "a b" as a_b_3`+"\n")
	assert.Contains(t, out, "    [*] --> a_b\n")
	assert.Contains(t, out, "    a_b --> a_b_2 : go\n")
	assert.Contains(t, out, "    a_b_2 --> a_b_3 : on\n")
	assert.Contains(t, out, "    class a_b_3 ghost\n")
	assert.Contains(t, out, "    class a_b_2 current\n")
	assert.NotContains(t, out, "a_b --> a_b :")
}

func TestDOTStartNodeAvoidsStates(t *testing.T) {
	def := tinyfsm.Definition{
		InitialState: "__start",
		States: []tinyfsm.State{
			{Name: "__start", Transitions: []tinyfsm.Transition{{Event: "go", Target: "__start_"}}},
		},
	}
	out := DOT(def, nil)

	assert.Contains(t, out, `  "__start__" [shape=point];`)
	assert.Contains(t, out, `  "__start__" -> "__start";`)
	assert.Contains(t, out, `  "__start" [label="__start" style="rounded"];`)
	assert.Contains(t, out, `  "__start_" [label="__start_" style="rounded,dashed"];`)
	assert.NotContains(t, out, `"__start" [shape=point]`)
}
