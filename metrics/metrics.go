// Package metrics exports machine activity as Prometheus metrics.
//
// A Collector is a tinyfsm.Observer; register it on a machine with
// tinyfsm.WithObserver:
//
//	c, err := metrics.New(prometheus.DefaultRegisterer, metrics.WithMachineName("door"))
//	...
//	m := tinyfsm.New(def, tinyfsm.WithObserver(c))
package metrics

import (
	"errors"
	"fmt"

	"github.com/librescoot/tinyfsm"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector records transitions and rejections of one machine.
type Collector struct {
	machine string

	transitions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	current     *prometheus.GaugeVec
}

type options struct {
	namespace string
	machine   string
}

// Option configures a Collector.
type Option func(*options)

// WithNamespace sets the metric name prefix (default "tinyfsm").
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithMachineName sets the value of the machine label (default "default").
func WithMachineName(name string) Option {
	return func(o *options) {
		o.machine = name
	}
}

// New creates a Collector and registers its metrics with reg.
// If the metrics are already registered there (another machine using the
// same namespace), the existing vectors are shared.
func New(reg prometheus.Registerer, opts ...Option) (*Collector, error) {
	o := &options{namespace: "tinyfsm", machine: "default"}
	for _, opt := range opts {
		opt(o)
	}

	c := &Collector{
		machine: o.machine,
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: o.namespace,
				Name:      "transitions_total",
				Help:      "Total number of applied transitions",
			},
			[]string{"machine", "from", "to", "event"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: o.namespace,
				Name:      "rejections_total",
				Help:      "Total number of events that did not change state, by outcome",
			},
			[]string{"machine", "state", "outcome"},
		),
		current: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: o.namespace,
				Name:      "current_state",
				Help:      "1 for the state the machine is in, 0 for states it has left",
			},
			[]string{"machine", "state"},
		),
	}

	var err error
	if c.transitions, err = register(reg, c.transitions); err != nil {
		return nil, err
	}
	if c.rejections, err = register(reg, c.rejections); err != nil {
		return nil, err
	}
	if c.current, err = register(reg, c.current); err != nil {
		return nil, err
	}

	return c, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, col T) (T, error) {
	if err := reg.Register(col); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, fmt.Errorf("register metrics: %w", err)
	}
	return col, nil
}

// SetState marks id as the machine's current state. Call it once after
// constructing the machine so the gauge reflects the initial state.
func (c *Collector) SetState(id tinyfsm.StateID) {
	c.current.WithLabelValues(c.machine, string(id)).Set(1)
}

// Observe implements tinyfsm.Observer.
func (c *Collector) Observe(r tinyfsm.Result) {
	if !r.OK() {
		c.rejections.WithLabelValues(c.machine, string(r.From), r.Outcome.String()).Inc()
		return
	}

	c.transitions.WithLabelValues(c.machine, string(r.From), string(r.To), string(r.Event)).Inc()
	if r.From != r.To {
		c.current.WithLabelValues(c.machine, string(r.From)).Set(0)
	}
	c.current.WithLabelValues(c.machine, string(r.To)).Set(1)
}
