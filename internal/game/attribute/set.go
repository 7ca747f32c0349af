package attribute

import "log/slog"

// Hooks is the capability interface a game-specific attribute set implements
// to clamp or veto value changes. Both hooks receive a pointer to the
// candidate value and may rewrite it in place. Hooks are called
// synchronously from the simulation and must not re-enter the application
// path.
//
// Implementations may additionally satisfy extension interfaces asserted by
// the effect pipeline (e.g. post-execute handling).
type Hooks interface {
	// PreAttributeChange runs before the current value is committed.
	PreAttributeChange(a *Attribute, value *float64)
	// PreAttributeBaseChange runs before the base value is committed.
	PreAttributeBaseChange(a *Attribute, value *float64)
}

// ChangeListener observes committed current-value changes.
type ChangeListener func(a *Attribute, old, new float64)

// Set owns a fixed collection of attributes, declared explicitly at
// construction time. One actor may register several sets; duplicate names
// across sets are a configuration error (first registration wins).
type Set struct {
	name  string
	attrs map[string]*Attribute
	order []*Attribute
	hooks Hooks

	// onBaseChange is wired by the owning component to mark attributes
	// dirty for the next recompute.
	onBaseChange func(*Attribute)
	listeners    []ChangeListener
}

// NewSet creates a set with the given name. hooks may be nil.
func NewSet(name string, hooks Hooks) *Set {
	return &Set{
		name:  name,
		attrs: make(map[string]*Attribute, 8),
		hooks: hooks,
	}
}

// Name returns the set name.
func (s *Set) Name() string { return s.name }

// Hooks returns the hooks implementation, or nil.
func (s *Set) Hooks() Hooks { return s.hooks }

// Declare registers an attribute with the given base value. Current starts
// equal to base. Declaring the same name twice keeps the first and logs a
// warning.
func (s *Set) Declare(name string, base float64) *Attribute {
	if existing, ok := s.attrs[name]; ok {
		slog.Warn("duplicate attribute declaration", "set", s.name, "attribute", name)
		return existing
	}
	a := &Attribute{name: name, base: base, current: base}
	s.attrs[name] = a
	s.order = append(s.order, a)
	return a
}

// Get returns the attribute with the given name, or nil.
func (s *Set) Get(name string) *Attribute {
	return s.attrs[name]
}

// Attributes returns the attributes in declaration order.
func (s *Set) Attributes() []*Attribute {
	return s.order
}

// AddListener registers a current-value change listener.
func (s *Set) AddListener(l ChangeListener) {
	s.listeners = append(s.listeners, l)
}

// BindDirty wires the owning component's dirty-marking callback. Called by
// the component when the set is registered.
func (s *Set) BindDirty(fn func(*Attribute)) {
	s.onBaseChange = fn
}

// SetBase commits a new base value through the PreAttributeBaseChange hook
// and marks the attribute dirty on the owning component.
func (s *Set) SetBase(a *Attribute, v float64) {
	if s.hooks != nil {
		s.hooks.PreAttributeBaseChange(a, &v)
	}
	a.base = v
	if s.onBaseChange != nil {
		s.onBaseChange(a)
	}
}

// ModifyBase adds delta to the base value through SetBase.
func (s *Set) ModifyBase(a *Attribute, delta float64) {
	s.SetBase(a, a.base+delta)
}

// SetCurrent commits a recomputed current value through the
// PreAttributeChange clamp hook and notifies listeners if the committed
// value actually changed. Called by the aggregation recompute; it does not
// re-dirty the attribute.
func (s *Set) SetCurrent(a *Attribute, v float64) {
	if s.hooks != nil {
		s.hooks.PreAttributeChange(a, &v)
	}
	if v == a.current {
		return
	}
	old := a.current
	a.current = v
	for _, l := range s.listeners {
		l(a, old, v)
	}
}
