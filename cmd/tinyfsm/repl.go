package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/librescoot/tinyfsm"
	"github.com/librescoot/tinyfsm/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const replHelp = `Type an event name to fire it.
  .events  list events the current state handles
  .state   print the current state
  .quit    leave
`

func newReplCmd(a *app) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "repl FILE",
		Short: "Fire events read from standard input",
		Long: `Creates a machine from the definition and fires one event per input line.
With --metrics-addr (or TINYFSM_METRICS_ADDR) the machine's Prometheus metrics
are served on /metrics while the session lasts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			def, err := loadTraced(args[0], out, a.logger)
			if err != nil {
				return err
			}

			opts := []tinyfsm.MachineOption{tinyfsm.WithLogger(a.logger)}

			addr := a.cfg.MetricsAddr
			if cmd.Flags().Changed("metrics-addr") {
				addr = metricsAddr
			}
			var collector *metrics.Collector
			if addr != "" {
				reg := prometheus.NewRegistry()
				collector, err = metrics.New(reg, metrics.WithMachineName(args[0]))
				if err != nil {
					return err
				}
				_, stop, err := serveMetrics(a, addr, reg)
				if err != nil {
					return err
				}
				defer stop()
				opts = append(opts, tinyfsm.WithObserver(collector))
			}

			m := tinyfsm.New(def, opts...)
			if collector != nil {
				collector.SetState(m.CurrentState())
			}

			in := cmd.InOrStdin()
			return repl(m, in, out, isTerminal(in))
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :2112)")
	return cmd
}

func repl(m *tinyfsm.Machine, in io.Reader, out io.Writer, prompt bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprintf(out, "%s> ", m.CurrentState())
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case ".quit":
			return nil
		case ".help":
			fmt.Fprint(out, replHelp)
		case ".state":
			fmt.Fprintln(out, m.CurrentState())
		case ".events":
			for _, ev := range m.AvailableEvents() {
				fmt.Fprintln(out, ev)
			}
		default:
			fmt.Fprintln(out, describe(m.Fire(tinyfsm.EventID(line))))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// serveMetrics starts the /metrics endpoint and returns the address it
// listens on and a function that shuts it down.
func serveMetrics(a *app, addr string, reg *prometheus.Registry) (string, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info("serving metrics", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()

	return ln.Addr().String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
