package lang

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ardnew/bexl/log"
)

// Installer registers a group of implementations with a registry.
type Installer func(r *Registry) error

// Builtins is the ordered list of installers that populate the default
// registry.
var Builtins = []Installer{
	installOperators,
	installMath,
	installStrings,
	installComparison,
	installLogical,
	installTypes,
	installDates,
	installLists,
	installSequences,
	installSystem,
}

// Registry holds the dispatchers for unary operators, binary operators and
// functions. A registry is sealed the first time it evaluates an
// expression; registering afterwards fails with [ErrRegistrySealed].
type Registry struct {
	Unary     *Dispatcher
	Binary    *Dispatcher
	Functions *Dispatcher
	sealed    *atomic.Bool
}

// NewRegistry returns an unsealed registry populated by installers in
// order.
func NewRegistry(installers ...Installer) (*Registry, error) {
	sealed := new(atomic.Bool)

	r := &Registry{
		Unary:     newDispatcher("unary operator", sealed),
		Binary:    newDispatcher("binary operator", sealed),
		Functions: newDispatcher("function", sealed),
		sealed:    sealed,
	}

	errs := make([]error, 0, len(installers))
	for _, install := range installers {
		errs = append(errs, install(r))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return r, nil
}

// Seal forbids further registration.
func (r *Registry) Seal() { r.sealed.Store(true) }

// Sealed reports whether r has been sealed.
func (r *Registry) Sealed() bool { return r.sealed.Load() }

// defaultRegistry is built once on first use.
var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	r, err := NewRegistry(Builtins...)
	if err != nil {
		return nil, err
	}

	log.Trace("registry initialized",
		slog.Int("unary", len(r.Unary.Names())),
		slog.Int("binary", len(r.Binary.Names())),
		slog.Int("functions", len(r.Functions.Names())),
	)

	return r, nil
})

// DefaultRegistry returns the process-wide registry holding the built-in
// operators and functions.
func DefaultRegistry() *Registry {
	r, err := defaultRegistry()
	if err != nil {
		// Builtins register into a fresh registry and cannot fail.
		panic(err)
	}

	return r
}

// registrar collects registration errors so installers can register in
// sequence and report once.
type registrar struct {
	d    *Dispatcher
	errs []error
}

func (g *registrar) add(name string, fn Func, sigs ...Signature) {
	g.errs = append(g.errs, g.d.Register(name, sigs, fn))
}

func (g *registrar) err() error { return errors.Join(g.errs...) }
