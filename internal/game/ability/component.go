package ability

import (
	"log/slog"

	"github.com/udisondev/gas2go/internal/game/attribute"
	"github.com/udisondev/gas2go/internal/game/tag"
)

// Component is the per-actor aggregate root of the ability system: it owns
// the actor's attribute sets, active effects, granted ability specs, tag
// state and prediction bookkeeping. It is the only object with mutating
// authority over that state.
//
// Single-threaded by contract: the host calls Tick once per simulation
// step and every operation runs on that same goroutine. Cross-actor effect
// application only ever mutates the target component.
type Component struct {
	name  string
	arena *Arena

	sets   []*attribute.Set
	byName map[string]attrEntry

	actives []*ActiveEffect
	scratch []*ActiveEffect

	specs      []*AbilitySpec
	nextHandle AbilityHandle

	// loose holds manually-added tags; combined is always the full rebuild
	// of loose plus the granted tags of every active effect. Rebuilding
	// from scratch instead of patching avoids drift from double-counting.
	loose    *tag.Container
	combined *tag.Container
	immunity *tag.Container

	dirty map[*attribute.Attribute]*attribute.Set

	keys    keySource
	pending map[PredictionKey][]*ActiveEffect

	// activationKey is the prediction key of the activation currently
	// running, so effect specs created by ability behavior inherit it.
	activationKey PredictionKey

	cues   CueHandler
	bridge AuthorityBridge

	disposed bool
}

type attrEntry struct {
	attr *attribute.Attribute
	set  *attribute.Set
}

// NewComponent creates a component for the named actor, allocating from
// the given arena.
func NewComponent(name string, arena *Arena) *Component {
	if arena == nil {
		arena = NewArena()
	}
	return &Component{
		name:     name,
		arena:    arena,
		byName:   make(map[string]attrEntry, 16),
		loose:    tag.NewContainer(),
		combined: tag.NewContainer(),
		immunity: tag.NewContainer(),
		dirty:    make(map[*attribute.Attribute]*attribute.Set, 8),
		pending:  make(map[PredictionKey][]*ActiveEffect),
	}
}

// Name returns the actor name the component belongs to.
func (c *Component) Name() string { return c.name }

// SetCueHandler installs the presentation-side cue sink. May be nil.
func (c *Component) SetCueHandler(h CueHandler) { c.cues = h }

// SetBridge installs the authority bridge used by predicted and
// server-only abilities.
func (c *Component) SetBridge(b AuthorityBridge) { c.bridge = b }

// Arena returns the arena this component allocates from.
func (c *Component) Arena() *Arena { return c.arena }

// --- attribute sets ---

// AddAttributeSet registers a set. Attribute names already registered by
// another set are logged and skipped; the first registration wins.
func (c *Component) AddAttributeSet(set *attribute.Set) {
	if c.disposed || set == nil {
		return
	}
	c.sets = append(c.sets, set)
	for _, a := range set.Attributes() {
		if _, exists := c.byName[a.Name()]; exists {
			slog.Warn("duplicate attribute name across sets",
				"actor", c.name,
				"set", set.Name(),
				"attribute", a.Name())
			continue
		}
		c.byName[a.Name()] = attrEntry{attr: a, set: set}
	}
	set.BindDirty(c.markDirty)
}

// Attribute returns the attribute with the given name, or nil.
func (c *Component) Attribute(name string) *attribute.Attribute {
	return c.byName[name].attr
}

func (c *Component) lookupAttribute(name string) (*attribute.Attribute, *attribute.Set) {
	e := c.byName[name]
	return e.attr, e.set
}

func (c *Component) markDirty(a *attribute.Attribute) {
	if e, ok := c.byName[a.Name()]; ok && e.attr == a {
		c.dirty[a] = e.set
	}
}

// --- tags ---

// CombinedTags returns the live union of loose and effect-granted tags.
// Callers must treat it as read-only.
func (c *Component) CombinedTags() *tag.Container { return c.combined }

// ImmunityTags returns the mutable immunity tag set.
func (c *Component) ImmunityTags() *tag.Container { return c.immunity }

// AddLooseTag adds a manually-managed tag.
func (c *Component) AddLooseTag(t tag.Tag) {
	c.loose.Add(t)
	c.rebuildCombined()
}

// RemoveLooseTag removes one reference of a manually-managed tag.
func (c *Component) RemoveLooseTag(t tag.Tag) {
	c.loose.Remove(t)
	c.rebuildCombined()
}

// rebuildCombined recomputes the combined container from scratch.
func (c *Component) rebuildCombined() {
	c.combined.Reset()
	for _, t := range c.loose.Tags() {
		c.combined.AddCount(t, c.loose.Count(t))
	}
	for _, ae := range c.actives {
		c.combined.AddAll(ae.Spec.Def.GrantedTags)
	}
}

// --- effect specs ---

// MakeEffectSpec builds a spec for def at the given level, sourced from
// this component. If called from inside a running ability activation the
// spec inherits the activation's prediction key.
func (c *Component) MakeEffectSpec(def *EffectDefinition, level int32) *EffectSpec {
	return c.arena.GetSpec(def, c, level, EffectContext{
		Instigator: c.name,
		Key:        c.activationKey,
	})
}

// ApplyEffectSpecToTarget applies a spec made by this component to another
// component. Only the target's state is mutated.
func (c *Component) ApplyEffectSpecToTarget(spec *EffectSpec, target *Component) bool {
	if target == nil {
		c.arena.PutSpec(spec)
		return false
	}
	return target.ApplyEffectSpecToSelf(spec)
}

// ApplyEffectSpecToSelf is the single application entry point. It consumes
// the spec: on every path the spec either becomes part of a new active
// effect or is returned to the arena. Returns whether the effect applied.
func (c *Component) ApplyEffectSpecToSelf(spec *EffectSpec) bool {
	if c.disposed || spec == nil || spec.Def == nil {
		return false
	}
	def := spec.Def
	spec.Target = c

	// 1. Immunity: any overlap with asset or granted tags blocks outright.
	if c.immunity.Len() > 0 && (c.immunity.HasAny(def.AssetTags) || c.immunity.HasAny(def.GrantedTags)) {
		slog.Debug("effect blocked by immunity", "actor", c.name, "effect", def.Name)
		c.arena.PutSpec(spec)
		return false
	}

	// 2. Application tag gating.
	if !def.ApplicationRequirements.Met(c.combined) {
		slog.Debug("effect application requirements not met", "actor", c.name, "effect", def.Name)
		c.arena.PutSpec(spec)
		return false
	}

	// 3. Tag cleanup before the new effect is evaluated.
	if len(def.RemoveEffectsWithTags) > 0 {
		c.RemoveActiveEffectsWithGrantedTags(def.RemoveEffectsWithTags)
	}

	spec.resolveTargets(c)
	for i, m := range def.Modifiers {
		if spec.resolved[i] == nil {
			slog.Warn("modifier references unknown attribute",
				"actor", c.name,
				"effect", def.Name,
				"attribute", m.Attribute)
		}
	}

	// 4. Instant branch: mutate base values, leave nothing behind.
	if def.Instant() {
		c.executeInstant(spec)
		c.dispatchCues(spec, CueExecuted)
		c.arena.PutSpec(spec)
		return true
	}

	// 5. Stacking branch: absorb into an existing instance when possible.
	if def.Stacking.Policy != StackNone {
		if existing := c.findStackTarget(spec); existing != nil {
			if existing.StackCount < def.Stacking.Limit {
				existing.StackCount++
			} else if def.Stacking.Refresh == StackRefreshOnApply && def.DurationPolicy == DurationTimed {
				existing.Remaining = def.Duration
			}
			c.markEffectDirty(existing)
			c.arena.PutSpec(spec)
			return true
		}
	}

	// 6. New active effect.
	ae := c.arena.GetActive(spec)
	c.actives = append(c.actives, ae)
	if ae.Key.Valid() {
		c.pending[ae.Key] = append(c.pending[ae.Key], ae)
	}
	if len(def.GrantedTags) > 0 {
		c.rebuildCombined()
	}
	for _, adef := range def.GrantedAbilities {
		ae.granted = append(ae.granted, c.GrantAbility(adef, spec.Level))
	}
	// Periodic effects defer their first modification to the first period
	// fire; everything else contributes to the next recompute immediately.
	if !def.Periodic() {
		c.markEffectDirty(ae)
	}
	c.dispatchCues(spec, CueOnActive)
	return true
}

// executeInstant applies an instant spec against base values, or routes
// through the execution calculation when one is declared.
func (c *Component) executeInstant(spec *EffectSpec) {
	def := spec.Def
	if def.Execution != nil {
		for _, out := range def.Execution.Execute(spec) {
			a, set := c.lookupAttribute(out.Attribute)
			if a == nil {
				slog.Warn("execution output references unknown attribute",
					"actor", c.name,
					"effect", def.Name,
					"attribute", out.Attribute)
				continue
			}
			if h, ok := set.Hooks().(PostExecuteHooks); ok {
				if h.PostEffectExecute(spec, a, out.Magnitude) {
					continue
				}
			}
			set.ModifyBase(a, out.Magnitude)
		}
		return
	}

	for i, m := range def.Modifiers {
		a := spec.resolved[i]
		if a == nil {
			continue
		}
		set := spec.resolvedSets[i]
		mag := spec.Magnitudes[i]
		switch m.Op {
		case OpAdd:
			set.ModifyBase(a, mag)
		case OpMultiply:
			set.SetBase(a, a.Base()*mag)
		case OpDivide:
			if mag != 0 {
				set.SetBase(a, a.Base()/mag)
			}
		case OpOverride:
			set.SetBase(a, mag)
		}
	}
}

// findStackTarget returns the active effect the spec stacks into, or nil.
// Identity is the definition pointer; source-aggregated stacking also
// requires the same source component.
func (c *Component) findStackTarget(spec *EffectSpec) *ActiveEffect {
	for _, ae := range c.actives {
		if ae.Spec.Def != spec.Def {
			continue
		}
		if spec.Def.Stacking.Policy == StackAggregateBySource && ae.Spec.Source != spec.Source {
			continue
		}
		return ae
	}
	return nil
}

// markEffectDirty marks every attribute the effect's modifiers resolved to.
func (c *Component) markEffectDirty(ae *ActiveEffect) {
	for i, a := range ae.Spec.resolved {
		if a != nil {
			c.dirty[a] = ae.Spec.resolvedSets[i]
		}
	}
}

// --- removal ---

// RemoveActiveEffectsWithGrantedTags removes every active effect whose
// definition's asset or granted tags intersect the query. Side effects are
// identical to natural expiry.
func (c *Component) RemoveActiveEffectsWithGrantedTags(tags []tag.Tag) int {
	removed := 0
	for i := len(c.actives) - 1; i >= 0; i-- {
		if c.actives[i].Spec.Def.MatchesAnyTag(tags) {
			c.removeActiveAt(i, false)
			removed++
		}
	}
	return removed
}

// ActiveEffects returns the live active-effect list. Callers must treat it
// as read-only.
func (c *Component) ActiveEffects() []*ActiveEffect { return c.actives }

func (c *Component) indexOfActive(ae *ActiveEffect) int {
	for i, cur := range c.actives {
		if cur == ae {
			return i
		}
	}
	return -1
}

func (c *Component) removeActive(ae *ActiveEffect, suppressDirty bool) {
	if i := c.indexOfActive(ae); i >= 0 {
		c.removeActiveAt(i, suppressDirty)
	}
}

// removeActiveAt unlinks the effect and runs removal side effects in
// order: granted tags revoked, granted abilities revoked, attributes
// dirtied (unless suppressed for rollback), cue dispatched.
func (c *Component) removeActiveAt(i int, suppressDirty bool) {
	ae := c.actives[i]
	c.actives = append(c.actives[:i], c.actives[i+1:]...)

	def := ae.Spec.Def
	if len(def.GrantedTags) > 0 {
		c.rebuildCombined()
	}
	for _, sp := range ae.granted {
		c.RevokeAbility(sp)
	}
	ae.granted = ae.granted[:0]
	if !suppressDirty {
		c.markEffectDirty(ae)
	}
	c.dispatchCues(ae.Spec, CueRemoved)

	if ae.Key.Valid() {
		c.unlinkPending(ae)
	}
	c.arena.PutActive(ae)
}

func (c *Component) unlinkPending(ae *ActiveEffect) {
	list, ok := c.pending[ae.Key]
	if !ok {
		return
	}
	for i, cur := range list {
		if cur == ae {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(c.pending, ae.Key)
	} else {
		c.pending[ae.Key] = list
	}
}

// --- tick ---

// Tick advances the component one simulation step. Ability tasks advance
// always; effect durations and periods advance only when authoritative;
// dirty attributes recompute exactly once at the end, so effects added
// earlier in the same tick are included exactly once.
func (c *Component) Tick(dt float64, authoritative bool) {
	if c.disposed {
		return
	}

	for _, sp := range c.specs {
		if sp.Active {
			sp.advanceTasks(dt)
		}
	}

	if authoritative {
		c.advanceEffects(dt)
	}

	c.recomputeDirty()
}

// advanceEffects walks a snapshot of the active list so a periodic fire
// that removes effects (including itself) cannot skip or double-visit
// entries.
func (c *Component) advanceEffects(dt float64) {
	c.scratch = append(c.scratch[:0], c.actives...)
	for _, ae := range c.scratch {
		if c.indexOfActive(ae) < 0 {
			continue // removed earlier this tick
		}
		if !ae.advance(dt) {
			c.removeActive(ae, false)
			continue
		}
		if ae.Spec.Def.Periodic() {
			c.advancePeriod(ae, dt)
			if c.indexOfActive(ae) < 0 {
				continue
			}
		}
		c.dispatchCues(ae.Spec, CueWhileActive)
	}
}

// advancePeriod decrements the period timer, firing the instant logic for
// each elapsed period. The negative remainder carries into the next period
// so variable tick rates do not drift the fire schedule.
func (c *Component) advancePeriod(ae *ActiveEffect, dt float64) {
	ae.PeriodTimer -= dt
	for ae.PeriodTimer <= 0 {
		c.executePeriodic(ae)
		if c.indexOfActive(ae) < 0 {
			return // the fire removed this effect
		}
		ae.PeriodTimer += ae.Spec.Def.Period
	}
}

// executePeriodic fires one period: the definition's instant application
// logic against base values, scaled by stack count.
func (c *Component) executePeriodic(ae *ActiveEffect) {
	spec := ae.Spec
	for stack := int32(0); stack < ae.StackCount; stack++ {
		c.executeInstant(spec)
	}
	c.dispatchCues(spec, CueExecuted)
}

// recomputeDirty recomputes every dirty attribute exactly once.
func (c *Component) recomputeDirty() {
	if len(c.dirty) == 0 {
		return
	}
	for a, set := range c.dirty {
		c.recomputeAttribute(a, set)
	}
	clear(c.dirty)
}

// recomputeAttribute rebuilds one attribute's current value from its base
// value and every qualifying active modifier:
//
//	add:      running sum
//	multiply: bias sum around 1.0, so +50% and +20% compose to x1.70
//	divide:   same bias sum, divisor clamped to 1 when it reaches 0
//	override: last one wins and short-circuits the arithmetic
//
// Periodic effects are skipped (they mutate base directly), as are effects
// whose ongoing tag requirements are currently unmet.
func (c *Component) recomputeAttribute(a *attribute.Attribute, set *attribute.Set) {
	var (
		add         float64
		mulBias     float64
		divBias     float64
		override    float64
		hasOverride bool
	)

	for _, ae := range c.actives {
		def := ae.Spec.Def
		if def.Periodic() {
			continue
		}
		if !def.OngoingRequirements.Met(c.combined) {
			continue
		}
		for i, m := range def.Modifiers {
			if ae.Spec.resolved[i] != a {
				continue
			}
			mag := ae.Spec.Magnitudes[i] * float64(ae.StackCount)
			switch m.Op {
			case OpAdd:
				add += mag
			case OpMultiply:
				mulBias += mag - 1
			case OpDivide:
				divBias += mag - 1
			case OpOverride:
				// Stack count does not scale an override value.
				override = ae.Spec.Magnitudes[i]
				hasOverride = true
			}
		}
	}

	var final float64
	if hasOverride {
		final = override
	} else {
		divisor := 1 + divBias
		if divisor == 0 {
			divisor = 1
		}
		final = (a.Base() + add) * (1 + mulBias) / divisor
	}
	set.SetCurrent(a, final)
}

// --- cues ---

func (c *Component) dispatchCues(spec *EffectSpec, kind CueKind) {
	if c.cues == nil {
		return
	}
	for _, t := range spec.Def.Cues {
		c.cues(CueEvent{Tag: t, Kind: kind, Spec: spec})
	}
}

// --- teardown ---

// Dispose releases all owned effects and specs and clears tag state.
// Idempotent: a second call is a no-op.
func (c *Component) Dispose() {
	if c.disposed {
		return
	}
	for _, sp := range c.specs {
		sp.cancel()
	}
	c.specs = nil
	for i := len(c.actives) - 1; i >= 0; i-- {
		ae := c.actives[i]
		c.actives = c.actives[:i]
		c.arena.PutActive(ae)
	}
	c.actives = nil
	c.loose.Reset()
	c.combined.Reset()
	c.immunity.Reset()
	clear(c.dirty)
	clear(c.pending)
	c.disposed = true
}
