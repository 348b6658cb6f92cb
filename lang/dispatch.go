package lang

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// Func is an operator or function implementation.
type Func func(args ...Value) (Value, error)

// Signature is an ordered tuple of argument types used as an exact-match
// dispatch key.
type Signature []Type

// Sig returns a signature over the given types.
func Sig(types ...Type) Signature { return types }

func (s Signature) key() string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = t.String()
	}

	return strings.Join(names, "-")
}

// String returns the signature as a parenthesized type list.
func (s Signature) String() string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = t.String()
	}

	return "(" + strings.Join(names, ", ") + ")"
}

// entry holds either a catch-all implementation or a set of
// signature-indexed implementations registered under one name.
type entry struct {
	catchAll Func
	impls    map[string]Func
	sigs     []Signature // registration order
}

// Dispatcher maps names and argument types to implementations.
type Dispatcher struct {
	sealed  *atomic.Bool
	entries map[string]*entry
	kind    string
	mutex   sync.RWMutex
}

func newDispatcher(kind string, sealed *atomic.Bool) *Dispatcher {
	return &Dispatcher{
		kind:    kind,
		sealed:  sealed,
		entries: make(map[string]*entry),
	}
}

// Register installs fn under name. With no signatures, fn becomes the
// catch-all implementation and replaces every prior registration of name.
// Otherwise fn is indexed under each signature, keeping signatures
// registered earlier.
func (d *Dispatcher) Register(name string, sigs []Signature, fn Func) error {
	if d.sealed.Load() {
		return ErrRegistrySealed.With(
			slog.String("kind", d.kind),
			slog.String("name", name),
		)
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(sigs) == 0 {
		d.entries[name] = &entry{catchAll: fn}

		return nil
	}

	e, ok := d.entries[name]
	if !ok {
		e = &entry{}
		d.entries[name] = e
	}

	if e.impls == nil {
		e.impls = make(map[string]Func, len(sigs))
	}

	for _, s := range sigs {
		k := s.key()
		if _, dup := e.impls[k]; !dup {
			e.sigs = append(e.sigs, slices.Clone(s))
		}

		e.impls[k] = fn
	}

	return nil
}

// Call invokes the implementation of name selected by the types of args.
func (d *Dispatcher) Call(name string, args ...Value) (Value, error) {
	d.mutex.RLock()
	e, ok := d.entries[name]
	d.mutex.RUnlock()

	if !ok {
		err := ErrDispatch.Errorf("No implementation exists for %q", name).
			With(slog.String("kind", d.kind))

		if s, ok := suggest(name, d.Names()); ok {
			err = err.With(slog.String(suggestionKey, s))
		}

		return Value{}, err
	}

	if e.catchAll != nil {
		return e.catchAll(args...)
	}

	sig := make(Signature, len(args))
	for i, a := range args {
		sig[i] = a.typ
	}

	fn, ok := e.impls[sig.key()]
	if !ok {
		names := make([]string, len(args))
		for i, a := range args {
			names[i] = a.typ.String()
		}

		return Value{}, ErrDispatch.Errorf(
			"%q cannot be invoked on arguments of type: %s",
			name, strings.Join(names, ", "),
		).With(slog.String("kind", d.kind))
	}

	return fn(args...)
}

// Names returns the sorted names of every registered implementation.
func (d *Dispatcher) Names() []string {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return slices.Sorted(maps.Keys(d.entries))
}

// Signatures returns the signatures registered under name in registration
// order. The result is empty and catchAll is true for catch-all entries.
func (d *Dispatcher) Signatures(name string) (sigs []Signature, catchAll, ok bool) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	e, ok := d.entries[name]
	if !ok {
		return nil, false, false
	}

	return slices.Clone(e.sigs), e.catchAll != nil, true
}
