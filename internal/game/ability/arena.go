package ability

// Arena recycles effect specs and active effects for one world/session.
// There is deliberately no process-wide pool: each world owns its arena and
// passes it to the components that allocate from it, so parallel worlds and
// tests never share hidden state.
//
// Contract: get before use, return exactly once, never touch a returned
// object again. The arena is single-threaded like the rest of the core.
type Arena struct {
	specs   []*EffectSpec
	actives []*ActiveEffect
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// GetSpec returns a spec initialized for the given definition, source,
// level and context, reusing a recycled instance when one is available.
func (ar *Arena) GetSpec(def *EffectDefinition, source *Component, level int32, ctx EffectContext) *EffectSpec {
	if n := len(ar.specs); n > 0 {
		s := ar.specs[n-1]
		ar.specs = ar.specs[:n-1]
		s.init(def, source, level, ctx)
		return s
	}
	return newEffectSpec(def, source, level, ctx)
}

// PutSpec returns a spec to the arena.
func (ar *Arena) PutSpec(s *EffectSpec) {
	if s == nil {
		return
	}
	s.Def = nil
	s.Source = nil
	s.Target = nil
	ar.specs = append(ar.specs, s)
}

// GetActive returns an active effect wrapping the given spec.
func (ar *Arena) GetActive(spec *EffectSpec) *ActiveEffect {
	var ae *ActiveEffect
	if n := len(ar.actives); n > 0 {
		ae = ar.actives[n-1]
		ar.actives = ar.actives[:n-1]
	} else {
		ae = &ActiveEffect{}
	}
	ae.reset(spec)
	return ae
}

// PutActive returns an active effect to the arena, recycling its spec too.
func (ar *Arena) PutActive(ae *ActiveEffect) {
	if ae == nil {
		return
	}
	ar.PutSpec(ae.Spec)
	ae.Spec = nil
	ar.actives = append(ar.actives, ae)
}
