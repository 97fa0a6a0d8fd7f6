package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/librescoot/tinyfsm"
	"github.com/librescoot/tinyfsm/loader"
)

// loadTraced loads a definition file, binding every hook name it mentions
// to a hook that prints "  <stage> <name>" to out.
func loadTraced(path string, out io.Writer, logger *slog.Logger) (*tinyfsm.Definition, error) {
	return loader.LoadFile(path, loader.WithFallback(func(name string) tinyfsm.Hook {
		return func(c *tinyfsm.Context) {
			fmt.Fprintf(out, "  %s %s\n", c.Stage, name)
			logger.Debug("hook", "name", name, "stage", c.Stage, "event", c.Event, "from", c.FromState, "to", c.ToState)
		}
	}))
}

// loadSilent loads a definition file with every hook bound to a no-op.
func loadSilent(path string) (*tinyfsm.Definition, error) {
	return loader.LoadFile(path, loader.WithFallback(func(string) tinyfsm.Hook {
		return func(*tinyfsm.Context) {}
	}))
}

// describe formats a result the way run and repl print it.
func describe(r tinyfsm.Result) string {
	if r.OK() {
		return fmt.Sprintf("%s: %s -> %s", r.Event, r.From, r.To)
	}
	return fmt.Sprintf("%s: rejected (%s) in %s", r.Event, r.Outcome, r.From)
}
