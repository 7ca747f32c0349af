package ability

// EffectApplier is the data-driven default ability behavior: on activation
// it applies a list of effect definitions to the owner and ends. Content
// files bind most abilities to it; bespoke behaviors implement Ability
// directly.
type EffectApplier struct {
	Effects []*EffectDefinition
}

// NewEffectApplier returns a factory producing appliers for the given
// effects, suitable for AbilityDefinition.Factory.
func NewEffectApplier(effects []*EffectDefinition) func() Ability {
	return func() Ability {
		return &EffectApplier{Effects: effects}
	}
}

// Activate applies each effect to the owner at the spec's level.
func (b *EffectApplier) Activate(owner *Component, sp *AbilitySpec) {
	for _, def := range b.Effects {
		owner.ApplyEffectSpecToSelf(owner.MakeEffectSpec(def, sp.Level))
	}
	sp.End()
}

// Cancel has nothing to undo: applied effects are rolled back by the
// prediction machinery, not the behavior.
func (b *EffectApplier) Cancel(owner *Component, sp *AbilitySpec) {}
