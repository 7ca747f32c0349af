// Package world owns the live set of simulated actors and drives their
// fixed-step updates. One World per simulation; there is no package-level
// instance.
package world

import (
	"log/slog"

	"github.com/udisondev/gas2go/internal/game/ability"
	"github.com/udisondev/gas2go/internal/game/attribute"
)

// World is a registry of actor components sharing one arena. All methods
// must be called from the simulation goroutine.
type World struct {
	arena         *ability.Arena
	byName        map[string]*ability.Component
	order         []*ability.Component
	authoritative bool
}

// New creates an empty world. authoritative selects whether ticks advance
// effect durations and periods, true for the server-side simulation.
func New(authoritative bool) *World {
	return &World{
		arena:         ability.NewArena(),
		byName:        make(map[string]*ability.Component),
		authoritative: authoritative,
	}
}

// Arena returns the world's shared object pool.
func (w *World) Arena() *ability.Arena { return w.arena }

// Authoritative reports whether this world advances effect timers.
func (w *World) Authoritative() bool { return w.authoritative }

// Spawn creates a component with the given attribute sets and registers
// it. Duplicate names are rejected.
func (w *World) Spawn(name string, sets ...*attribute.Set) *ability.Component {
	if _, dup := w.byName[name]; dup {
		slog.Warn("actor already spawned", "actor", name)
		return nil
	}
	c := ability.NewComponent(name, w.arena)
	for _, set := range sets {
		c.AddAttributeSet(set)
	}
	w.byName[name] = c
	w.order = append(w.order, c)
	slog.Debug("actor spawned", "actor", name, "count", len(w.order))
	return c
}

// Get returns the component registered under name, or nil.
func (w *World) Get(name string) *ability.Component { return w.byName[name] }

// Despawn disposes the component and removes it from the registry.
func (w *World) Despawn(name string) {
	c := w.byName[name]
	if c == nil {
		return
	}
	c.Dispose()
	delete(w.byName, name)
	for i, cur := range w.order {
		if cur == c {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Tick advances every actor by dt seconds in spawn order.
func (w *World) Tick(dt float64) {
	for _, c := range w.order {
		c.Tick(dt, w.authoritative)
	}
}

// Actors returns the registered components in spawn order. Callers must
// treat the slice as read-only.
func (w *World) Actors() []*ability.Component { return w.order }

// Len returns the number of registered actors.
func (w *World) Len() int { return len(w.order) }
