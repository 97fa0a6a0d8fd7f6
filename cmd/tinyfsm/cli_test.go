package main

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/librescoot/tinyfsm"
	"github.com/librescoot/tinyfsm/internal/logging"
	"github.com/librescoot/tinyfsm/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TINYFSM_METRICS_ADDR", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "", "validate", "testdata/door.yaml")
	require.Error(t, err, "door.yaml has a transition to an undefined state")
	assert.Contains(t, err.Error(), `undefined state "rubble"`)
	assert.NotContains(t, out, "valid!")

	_, err = execute(t, "", "validate", "testdata/broken.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `initial state "nowhere" not defined`)
	assert.Contains(t, err.Error(), `state "a" defined more than once`)
}

func TestValidateCommandValid(t *testing.T) {
	out, err := execute(t, "", "validate", "../../loader/testdata/idle_running.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Definition is valid!")
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "", "run", "testdata/door.yaml", "open", "lock", "close", "lock", "smash")
	require.NoError(t, err)

	want := strings.Join([]string{
		"  action chime",
		"  exit release_latch",
		"  enter light_on",
		"open: closed -> opened",
		"lock: rejected (unhandled_event) in opened",
		"close: opened -> closed",
		"  exit release_latch",
		"lock: closed -> locked",
		"smash: rejected (unresolved_target) in locked",
		"final state: locked",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestRunCommandStrict(t *testing.T) {
	out, err := execute(t, "", "run", "--strict", "testdata/door.yaml", "close", "open")
	require.Error(t, err)
	assert.ErrorIs(t, err, tinyfsm.ErrUnhandledEvent)
	assert.Contains(t, out, "close: rejected (unhandled_event) in closed")
	assert.NotContains(t, out, "open:")
}

func TestRunCommandMisconfigured(t *testing.T) {
	out, err := execute(t, "", "run", "testdata/broken.json", "go", "go")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "go: rejected (misconfigured) in nowhere"))
	assert.Contains(t, out, "final state: nowhere")
}

func TestRunCommandMissingFile(t *testing.T) {
	_, err := execute(t, "", "run", "testdata/missing.yaml")
	assert.Error(t, err)
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "", "graph", "testdata/door.yaml", "--after", "lock,bogus")
	require.NoError(t, err)
	assert.Contains(t, out, "stateDiagram-v2")
	assert.Contains(t, out, "    closed --> locked : lock\n")
	assert.Contains(t, out, "    class rubble ghost\n")
	assert.Contains(t, out, "    class locked current\n")
	assert.Contains(t, out, "    class closed visited\n")

	out, err = execute(t, "", "graph", "--format", "dot", "testdata/door.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `"closed" -> "opened" [label="open"];`)

	_, err = execute(t, "", "graph", "--format", "svg", "testdata/door.yaml")
	assert.Error(t, err)
}

func TestReplCommand(t *testing.T) {
	stdin := "\n.events\nopen\n.state\nbogus\n.quit\nclose\n"
	out, err := execute(t, stdin, "repl", "testdata/door.yaml")
	require.NoError(t, err)

	want := strings.Join([]string{
		"open",
		"lock",
		"  action chime",
		"  exit release_latch",
		"  enter light_on",
		"open: closed -> opened",
		"opened",
		"bogus: rejected (unhandled_event) in opened",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestReplPrompt(t *testing.T) {
	def := tinyfsm.NewDefinition().State("a").State("b").Transition("a", "go", "b").Initial("a")
	m := tinyfsm.New(def, tinyfsm.WithLogger(logging.NewNop()))

	var out bytes.Buffer
	require.NoError(t, repl(m, strings.NewReader("go\n.help\n"), &out, true))
	assert.True(t, strings.HasPrefix(out.String(), "a> go: a -> b\nb> Type an event name"))
	assert.True(t, strings.HasSuffix(out.String(), "b> "))
}

func TestReplWithMetrics(t *testing.T) {
	out, err := execute(t, "open\n", "repl", "--metrics-addr", "127.0.0.1:0", "testdata/door.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "open: closed -> opened\n")
}

func TestReplMetricsAddrInUse(t *testing.T) {
	addr, stop, err := serveMetrics(&app{logger: logging.NewNop()}, "127.0.0.1:0", prometheus.NewRegistry())
	require.NoError(t, err)
	defer stop()

	_, err = execute(t, "", "repl", "--metrics-addr", addr, "testdata/door.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics listener")
}

func TestServeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg, metrics.WithMachineName("door"))
	require.NoError(t, err)

	addr, stop, err := serveMetrics(&app{logger: logging.NewNop()}, "127.0.0.1:0", reg)
	require.NoError(t, err)
	defer stop()

	def, err := loadSilent("testdata/door.yaml")
	require.NoError(t, err)
	m := tinyfsm.New(def, tinyfsm.WithLogger(logging.NewNop()), tinyfsm.WithObserver(collector))
	collector.SetState(m.CurrentState())

	var out bytes.Buffer
	require.NoError(t, repl(m, strings.NewReader("open\n"), &out, false))

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `tinyfsm_transitions_total{event="open",from="closed",machine="door",to="opened"} 1`)
	assert.Contains(t, string(body), `tinyfsm_current_state{machine="door",state="opened"} 1`)
}

func TestRootRejectsBadLogLevel(t *testing.T) {
	_, err := execute(t, "", "run", "--log-level", "loud", "testdata/door.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
