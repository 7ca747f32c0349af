package ability

import "github.com/udisondev/gas2go/internal/game/attribute"

// EffectContext carries application provenance: who caused the effect and
// under which prediction key, if any.
type EffectContext struct {
	Instigator string
	Key        PredictionKey
}

// EffectSpec is one instantiation of an EffectDefinition for one
// application: the definition, the source component, a level, and the
// modifier magnitudes snapshotted at creation time so later level or stat
// changes on the source do not retroactively alter an in-flight
// application.
//
// A spec is owned by the applying component until consumed; Target is set
// exactly once by the application path.
type EffectSpec struct {
	Def    *EffectDefinition
	Source *Component
	Target *Component
	Level  int32
	Ctx    EffectContext

	// Magnitudes is index-aligned with Def.Modifiers; len(Magnitudes) >=
	// len(Def.Modifiers) always holds.
	Magnitudes []float64

	// resolved is index-aligned with Def.Modifiers once the spec is applied;
	// nil entries are lookup misses and stay no-ops.
	resolved     []*attribute.Attribute
	resolvedSets []*attribute.Set
}

// newEffectSpec snapshots magnitudes for the given level. Callers go
// through Component.MakeEffectSpec or Arena.GetSpec.
func newEffectSpec(def *EffectDefinition, source *Component, level int32, ctx EffectContext) *EffectSpec {
	s := &EffectSpec{}
	s.init(def, source, level, ctx)
	return s
}

func (s *EffectSpec) init(def *EffectDefinition, source *Component, level int32, ctx EffectContext) {
	s.Def = def
	s.Source = source
	s.Target = nil
	s.Level = level
	s.Ctx = ctx

	if cap(s.Magnitudes) < len(def.Modifiers) {
		s.Magnitudes = make([]float64, len(def.Modifiers))
	} else {
		s.Magnitudes = s.Magnitudes[:len(def.Modifiers)]
	}
	for i, m := range def.Modifiers {
		s.Magnitudes[i] = m.Value.At(level)
	}

	s.resolved = s.resolved[:0]
	s.resolvedSets = s.resolvedSets[:0]
}

// Magnitude returns the snapshotted magnitude for modifier index i.
func (s *EffectSpec) Magnitude(i int) float64 {
	return s.Magnitudes[i]
}

// resolveTargets looks up every modifier's attribute on the target.
// Misses are logged by the caller; the slot stays nil.
func (s *EffectSpec) resolveTargets(target *Component) {
	s.resolved = s.resolved[:0]
	s.resolvedSets = s.resolvedSets[:0]
	for _, m := range s.Def.Modifiers {
		a, set := target.lookupAttribute(m.Attribute)
		s.resolved = append(s.resolved, a)
		s.resolvedSets = append(s.resolvedSets, set)
	}
}
