package ability

import "github.com/udisondev/gas2go/internal/game/tag"

// InstancingPolicy selects how ability instances relate to activations.
type InstancingPolicy int8

const (
	// NonInstanced abilities share one stateless instance per definition.
	NonInstanced InstancingPolicy = iota
	// InstancedPerActor creates one instance per granted spec, reused
	// across activations.
	InstancedPerActor
	// InstancedPerExecution creates a fresh instance for every activation.
	InstancedPerExecution
)

// NetPolicy selects where an activation executes.
type NetPolicy int8

const (
	// NetLocalOnly commits and runs locally, never reaching an authority.
	NetLocalOnly NetPolicy = iota
	// NetLocalPredicted runs speculatively under a prediction key and
	// forwards an equivalent request to the authority.
	NetLocalPredicted
	// NetServerOnly skips local execution entirely.
	NetServerOnly
)

// Ability is the behavior attached to an ability definition. Activate runs
// after a successful commit; it may apply further effect specs to the owner
// or to other components. Cancel force-stops an in-flight activation
// (prediction rollback, explicit interrupt).
type Ability interface {
	Activate(owner *Component, spec *AbilitySpec)
	Cancel(owner *Component, spec *AbilitySpec)
}

// GrantListener is optionally implemented by abilities that want a hook at
// grant time (passive setup, precomputation).
type GrantListener interface {
	OnGranted(owner *Component, spec *AbilitySpec)
}

// AbilityDefinition is the immutable template for a discrete action:
// activation tag gates, cost and cooldown effects, instancing and net
// policy, and a factory for behavior instances.
type AbilityDefinition struct {
	Name string

	// ActivationRequired must all be present on the owner's combined tags;
	// any ActivationBlocked tag present refuses activation.
	ActivationRequired []tag.Tag
	ActivationBlocked  []tag.Tag

	// Cost is an instant effect with negative resource modifiers; Cooldown
	// is a timed effect granting the tag that gates re-activation. Either
	// may be nil.
	Cost     *EffectDefinition
	Cooldown *EffectDefinition

	Instancing InstancingPolicy
	Net        NetPolicy

	// Factory builds behavior instances per the instancing policy. nil
	// yields an ability that activates with no behavior (cost/cooldown
	// only).
	Factory func() Ability
}

// CooldownTags returns the tags whose presence means the ability is on
// cooldown: the granted tags of the cooldown effect.
func (d *AbilityDefinition) CooldownTags() []tag.Tag {
	if d.Cooldown == nil {
		return nil
	}
	return d.Cooldown.GrantedTags
}

func (d *AbilityDefinition) newInstance() Ability {
	if d.Factory == nil {
		return nil
	}
	return d.Factory()
}
