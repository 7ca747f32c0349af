package ability

import (
	"log/slog"

	"github.com/udisondev/gas2go/internal/game/tag"
)

// DurationPolicy selects how long an applied effect lives.
type DurationPolicy int8

const (
	DurationInstant  DurationPolicy = iota // executes once against base values
	DurationTimed                          // lives for Definition.Duration seconds
	DurationInfinite                       // lives until explicitly removed
)

// StackingPolicy selects how re-applying the same definition behaves.
type StackingPolicy int8

const (
	StackNone              StackingPolicy = iota // every application is its own instance
	StackAggregateByTarget                       // one instance per target, counted
	StackAggregateBySource                       // one instance per (source, target) pair, counted
)

// StackRefresh selects what happens to the duration when a stack is applied
// at the limit.
type StackRefresh int8

const (
	StackRefreshNever StackRefresh = iota // application at the limit is absorbed silently
	StackRefreshOnApply                   // application at the limit resets remaining time
)

// Stacking bundles the stacking rule of an effect definition.
// Limit < 1 is normalized to 1.
type Stacking struct {
	Policy  StackingPolicy
	Limit   int32
	Refresh StackRefresh
}

// EffectDefinition is the immutable, shareable template for a gameplay
// effect. Identity is pointer identity: two definitions with identical data
// are distinct stacking groups. Build one instance per piece of content at
// load time and never mutate it afterwards.
type EffectDefinition struct {
	Name string

	DurationPolicy DurationPolicy
	Duration       float64 // seconds, DurationTimed only
	Period         float64 // seconds; > 0 makes the effect periodic

	Modifiers []Modifier
	Stacking  Stacking

	// AssetTags describe the effect itself ("Damage.Fire"); GrantedTags are
	// pushed onto the target's combined tags while the effect is active.
	AssetTags   []tag.Tag
	GrantedTags []tag.Tag

	// ApplicationRequirements gate application once; OngoingRequirements are
	// re-checked every recompute and mute the effect's modifiers while unmet.
	ApplicationRequirements tag.Requirements
	OngoingRequirements     tag.Requirements

	// RemoveEffectsWithTags evicts matching active effects from the target
	// before this effect is evaluated.
	RemoveEffectsWithTags []tag.Tag

	// GrantedAbilities are granted to the target for the lifetime of the
	// active effect.
	GrantedAbilities []*AbilityDefinition

	// Execution, when set, replaces plain modifier arithmetic on the
	// instant branch with a calculation plugin.
	Execution Execution

	// Cues to dispatch on lifecycle events. Presentation only.
	Cues []tag.Tag
}

// NewEffectDefinition normalizes and validates a definition. A timed
// definition with a non-positive duration is a configuration error: it is
// logged and demoted to instant so execution can continue.
func NewEffectDefinition(def EffectDefinition) *EffectDefinition {
	if def.DurationPolicy == DurationTimed && def.Duration <= 0 {
		slog.Warn("timed effect with non-positive duration, demoting to instant",
			"effect", def.Name,
			"duration", def.Duration)
		def.DurationPolicy = DurationInstant
		def.Duration = 0
	}
	if def.Stacking.Limit < 1 {
		def.Stacking.Limit = 1
	}
	return &def
}

// Instant reports whether the definition executes once and leaves no
// active instance behind.
func (d *EffectDefinition) Instant() bool {
	return d.DurationPolicy == DurationInstant
}

// Periodic reports whether the definition fires its instant logic on a
// period timer instead of contributing to current-value aggregation.
func (d *EffectDefinition) Periodic() bool {
	return d.Period > 0
}

// MatchesAnyTag reports whether the definition's asset or granted tags
// intersect the query set.
func (d *EffectDefinition) MatchesAnyTag(query []tag.Tag) bool {
	for _, q := range query {
		for _, t := range d.AssetTags {
			if t.Matches(q) {
				return true
			}
		}
		for _, t := range d.GrantedTags {
			if t.Matches(q) {
				return true
			}
		}
	}
	return false
}
