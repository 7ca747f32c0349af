package ability

// Snapshot is the persistable state of one component: attribute values and
// the active effects that survive a save/load cycle. Ability grants and
// loose tags come back from content and game logic, not from the snapshot.
type Snapshot struct {
	Actor      string
	Attributes []AttributeState
	Effects    []EffectState
}

// AttributeState is one persisted attribute value pair.
type AttributeState struct {
	Name    string
	Base    float64
	Current float64
}

// EffectState is one persisted active effect, keyed by definition name.
// Speculative effects are not persisted.
type EffectState struct {
	Definition string
	Level      int32
	Remaining  float64
	Stacks     int32
}

// Snapshot captures the component's persistable state.
func (c *Component) Snapshot() Snapshot {
	snap := Snapshot{Actor: c.name}
	for _, set := range c.sets {
		for _, a := range set.Attributes() {
			snap.Attributes = append(snap.Attributes, AttributeState{
				Name:    a.Name(),
				Base:    a.Base(),
				Current: a.Current(),
			})
		}
	}
	for _, ae := range c.actives {
		if ae.Key.Valid() {
			continue
		}
		snap.Effects = append(snap.Effects, EffectState{
			Definition: ae.Spec.Def.Name,
			Level:      ae.Spec.Level,
			Remaining:  ae.Remaining,
			Stacks:     ae.StackCount,
		})
	}
	return snap
}

// Restore replays a snapshot onto a freshly constructed component with its
// attribute sets already registered. resolve maps persisted definition
// names back to loaded content; unknown names are skipped by the caller's
// resolver returning nil.
func (c *Component) Restore(snap Snapshot, resolve func(name string) *EffectDefinition) {
	for _, st := range snap.Attributes {
		a, set := c.lookupAttribute(st.Name)
		if a == nil {
			continue
		}
		set.SetBase(a, st.Base)
	}
	for _, st := range snap.Effects {
		def := resolve(st.Definition)
		if def == nil || def.Instant() {
			continue
		}
		spec := c.MakeEffectSpec(def, st.Level)
		if !c.ApplyEffectSpecToSelf(spec) {
			continue
		}
		if n := len(c.actives); n > 0 {
			ae := c.actives[n-1]
			if ae.Spec.Def == def {
				ae.Remaining = st.Remaining
				if st.Stacks > 1 && st.Stacks <= def.Stacking.Limit {
					ae.StackCount = st.Stacks
				}
				c.markEffectDirty(ae)
			}
		}
	}
}
