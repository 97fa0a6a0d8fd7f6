// Package loader reads machine definitions from YAML or JSON documents.
//
// A document names its hooks; the names are resolved against a Registry
// when the document is loaded:
//
//	initial: idle
//	states:
//	  - name: idle
//	    on_exit: stop_spinner
//	    transitions:
//	      - event: start
//	        target: running
//	        action: log_start
//	  - name: running
//	    on_enter: start_spinner
//	    transitions:
//	      - { event: stop, target: idle }
//
// State references are not checked; use Definition.Validate for that.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/librescoot/tinyfsm"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format is a definition document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var (
	// ErrUnknownHook is returned when a document names a hook that is not registered.
	ErrUnknownHook = errors.New("unknown hook")
	// ErrUnknownFormat is returned for unsupported document formats or file extensions.
	ErrUnknownFormat = errors.New("unknown definition format")
	// ErrEmptyDocument is returned when the input holds no definition at all.
	ErrEmptyDocument = errors.New("empty definition document")
)

// document is the on-disk shape of a definition.
type document struct {
	Initial string          `mapstructure:"initial"`
	States  []stateDocument `mapstructure:"states"`
}

type stateDocument struct {
	Name        string               `mapstructure:"name"`
	OnEnter     string               `mapstructure:"on_enter"`
	OnExit      string               `mapstructure:"on_exit"`
	Transitions []transitionDocument `mapstructure:"transitions"`
}

type transitionDocument struct {
	Event  string `mapstructure:"event"`
	Target string `mapstructure:"target"`
	Action string `mapstructure:"action"`
}

type options struct {
	registry *Registry
	fallback func(name string) tinyfsm.Hook
}

// Option configures Load and LoadFile.
type Option func(*options)

// WithRegistry sets the registry hook names are resolved against.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithFallback sets a function that supplies a hook for names missing from
// the registry. A nil result still fails with ErrUnknownHook.
func WithFallback(fn func(name string) tinyfsm.Hook) Option {
	return func(o *options) {
		o.fallback = fn
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// LoadFile reads a definition from path, choosing the format by extension.
func LoadFile(path string, opts ...Option) (*tinyfsm.Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open definition: %w", err)
	}
	defer f.Close()

	def, err := Load(f, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Load decodes a definition document from r.
func Load(r io.Reader, format Format, opts ...Option) (*tinyfsm.Definition, error) {
	o := &options{registry: NewRegistry()}
	for _, opt := range opts {
		opt(o)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	raw, err := parse(data, format)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrEmptyDocument
	}
	if err := rejectNulls(raw, ""); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}

	var doc document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		ErrorUnused: true,
		DecodeHook:  strictString,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}

	return o.build(doc)
}

func parse(data []byte, format Format) (map[string]any, error) {
	var raw map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return raw, nil
}

// strictString refuses to turn YAML/JSON scalars such as true, 1.50 or 010
// into identifiers.
func strictString(from, to reflect.Type, data any) (any, error) {
	if to.Kind() == reflect.String && from.Kind() != reflect.String {
		return nil, fmt.Errorf("expected a string, got %v %v; quote the value", from, data)
	}
	return data, nil
}

// rejectNulls fails on explicit null values. mapstructure skips them, which
// would leave empty identifiers behind.
func rejectNulls(v any, path string) error {
	switch v := v.(type) {
	case nil:
		return fmt.Errorf("%s: null value; quote the value or remove the key", path)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p := k
			if path != "" {
				p = path + "." + k
			}
			if err := rejectNulls(v[k], p); err != nil {
				return err
			}
		}
	case []any:
		for i, e := range v {
			if err := rejectNulls(e, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *options) build(doc document) (*tinyfsm.Definition, error) {
	def := tinyfsm.NewDefinition().Initial(tinyfsm.StateID(doc.Initial))

	for _, sd := range doc.States {
		s := tinyfsm.State{Name: tinyfsm.StateID(sd.Name)}

		var err error
		if s.OnEnter, err = o.hook(sd.OnEnter); err != nil {
			return nil, fmt.Errorf("state %q on_enter: %w", sd.Name, err)
		}
		if s.OnExit, err = o.hook(sd.OnExit); err != nil {
			return nil, fmt.Errorf("state %q on_exit: %w", sd.Name, err)
		}

		for _, td := range sd.Transitions {
			t := tinyfsm.Transition{
				Event:  tinyfsm.EventID(td.Event),
				Target: tinyfsm.StateID(td.Target),
			}
			if t.Action, err = o.hook(td.Action); err != nil {
				return nil, fmt.Errorf("state %q event %q action: %w", sd.Name, td.Event, err)
			}
			s.Transitions = append(s.Transitions, t)
		}

		def.States = append(def.States, s)
	}

	return def, nil
}

// hook resolves a hook name; an empty name means no hook.
func (o *options) hook(name string) (tinyfsm.Hook, error) {
	if name == "" {
		return nil, nil
	}
	if o.registry != nil {
		if fn, ok := o.registry.Lookup(name); ok {
			return fn, nil
		}
	}
	if o.fallback != nil {
		if fn := o.fallback(name); fn != nil {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHook, name)
}
