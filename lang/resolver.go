package lang

import (
	"maps"
	"slices"
)

// Resolver supplies variable values to the interpreter.
type Resolver interface {
	Get(name string) (Value, error)
}

// VariableResolver is a mutable name to [Value] mapping. It is not safe for
// concurrent mutation.
type VariableResolver struct {
	vars map[string]Value
}

// NewVariableResolver returns an empty resolver.
func NewVariableResolver() *VariableResolver {
	return &VariableResolver{vars: make(map[string]Value)}
}

// MakeResolver returns a resolver holding the given variables. Values may
// be [Value]s or native Go values accepted by [FromNative].
func MakeResolver(vars map[string]any) (*VariableResolver, error) {
	r := NewVariableResolver()

	for _, name := range slices.Sorted(maps.Keys(vars)) {
		if err := r.Set(name, vars[name]); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Get returns the value of the named variable.
func (r *VariableResolver) Get(name string) (Value, error) {
	if r != nil {
		if v, ok := r.vars[name]; ok {
			return v, nil
		}
	}

	return Value{}, ErrResolver.Errorf("Could not resolve variable %q", name)
}

// Set assigns value to the named variable, converting native values with
// [FromNative].
func (r *VariableResolver) Set(name string, value any) error {
	v, err := FromNative(value)
	if err != nil {
		return err
	}

	if r.vars == nil {
		r.vars = make(map[string]Value)
	}

	r.vars[name] = v

	return nil
}

// Remove deletes the named variable.
func (r *VariableResolver) Remove(name string) {
	delete(r.vars, name)
}

// All returns a snapshot of every variable.
func (r *VariableResolver) All() map[string]Value {
	return maps.Clone(r.vars)
}

// Names returns the sorted variable names.
func (r *VariableResolver) Names() []string {
	return slices.Sorted(maps.Keys(r.vars))
}

// Len returns the number of variables.
func (r *VariableResolver) Len() int { return len(r.vars) }
