package ability

import "log/slog"

// GrantAbility creates and stores a spec for the definition, builds the
// behavior instance per the instancing policy and invokes the on-grant
// hook when the instance implements it.
func (c *Component) GrantAbility(def *AbilityDefinition, level int32) *AbilitySpec {
	if c.disposed || def == nil {
		return nil
	}
	c.nextHandle++
	sp := &AbilitySpec{
		Def:    def,
		Handle: c.nextHandle,
		Level:  level,
		owner:  c,
	}
	if def.Instancing != InstancedPerExecution {
		sp.instance = def.newInstance()
	}
	c.specs = append(c.specs, sp)

	if gl, ok := sp.instance.(GrantListener); ok {
		gl.OnGranted(c, sp)
	}
	slog.Debug("ability granted", "actor", c.name, "ability", def.Name, "level", level)
	return sp
}

// RevokeAbility cancels any in-flight activation and destroys the spec.
func (c *Component) RevokeAbility(sp *AbilitySpec) {
	if sp == nil {
		return
	}
	sp.cancel()
	for i, cur := range c.specs {
		if cur == sp {
			c.specs = append(c.specs[:i], c.specs[i+1:]...)
			return
		}
	}
}

// AbilitySpecs returns the granted specs. Callers must treat the slice as
// read-only.
func (c *Component) AbilitySpecs() []*AbilitySpec { return c.specs }

// FindAbilitySpec returns the spec with the given handle, or nil.
func (c *Component) FindAbilitySpec(h AbilityHandle) *AbilitySpec {
	for _, sp := range c.specs {
		if sp.Handle == h {
			return sp
		}
	}
	return nil
}

// FindAbilitySpecByName returns the first spec granted from a definition
// with the given name, or nil.
func (c *Component) FindAbilitySpecByName(name string) *AbilitySpec {
	for _, sp := range c.specs {
		if sp.Def.Name == name {
			return sp
		}
	}
	return nil
}

// CanActivate runs the full activation gate: not ending, no blocking tag,
// all required tags, cooldown tag absent, every cost modifier payable.
// Refusals are debug-logged, never errors.
func (c *Component) CanActivate(sp *AbilitySpec) bool {
	if c.disposed || sp == nil || sp.ending {
		return false
	}
	def := sp.Def

	if c.combined.HasAny(def.ActivationBlocked) {
		slog.Debug("activation blocked by tags", "actor", c.name, "ability", def.Name)
		return false
	}
	if !c.combined.HasAll(def.ActivationRequired) {
		slog.Debug("activation requirements not met", "actor", c.name, "ability", def.Name)
		return false
	}
	if cd := def.CooldownTags(); len(cd) > 0 && c.combined.HasAny(cd) {
		slog.Debug("ability on cooldown", "actor", c.name, "ability", def.Name)
		return false
	}
	if !c.canPayCost(sp) {
		slog.Debug("cost not payable", "actor", c.name, "ability", def.Name)
		return false
	}
	return true
}

// canPayCost checks that applying every cost modifier at the spec's level
// leaves no resource attribute negative. Lookup misses make the modifier a
// no-op, consistent with application.
func (c *Component) canPayCost(sp *AbilitySpec) bool {
	cost := sp.Def.Cost
	if cost == nil {
		return true
	}
	for _, m := range cost.Modifiers {
		a, _ := c.lookupAttribute(m.Attribute)
		if a == nil {
			continue
		}
		if m.Op == OpAdd && a.Current()+m.Value.At(sp.Level) < 0 {
			return false
		}
	}
	return true
}

// TryActivateAbility gates the spec and on success dispatches by net
// policy. The return value reports whether dispatch was attempted, not
// whether the ability ultimately succeeds remotely.
func (c *Component) TryActivateAbility(sp *AbilitySpec) bool {
	if !c.CanActivate(sp) {
		return false
	}

	switch sp.Def.Net {
	case NetLocalOnly:
		c.activate(sp, 0)
		return true

	case NetLocalPredicted:
		key := c.keys.Next()
		c.activate(sp, key)
		if c.bridge != nil {
			res := c.bridge.RequestActivate(sp.Handle, key)
			if res.Accepted {
				c.ConfirmPrediction(key)
			} else {
				c.RejectPrediction(key)
			}
		}
		return true

	case NetServerOnly:
		if c.bridge == nil {
			slog.Debug("server-only ability with no bridge", "actor", c.name, "ability", sp.Def.Name)
			return false
		}
		c.bridge.RequestActivate(sp.Handle, 0)
		return true
	}
	return false
}

// HandleActivateRequest is the authoritative side of the bridge: it
// re-runs gating and commit, executes on success, and reports the outcome
// so the requesting side can resolve its prediction key.
func (c *Component) HandleActivateRequest(h AbilityHandle, key PredictionKey) ActivationResult {
	sp := c.FindAbilitySpec(h)
	if sp == nil {
		slog.Debug("activation request for unknown handle", "actor", c.name, "handle", h)
		return ActivationResult{Accepted: false, Key: key}
	}
	if !c.CanActivate(sp) {
		return ActivationResult{Accepted: false, Key: key}
	}
	c.activate(sp, 0)
	return ActivationResult{Accepted: true, Key: key}
}

// activate commits cost and cooldown and runs the behavior instance. key
// is the speculative prediction key, zero for authoritative or local-only
// runs; effect specs created while the behavior runs inherit it.
func (c *Component) activate(sp *AbilitySpec, key PredictionKey) {
	sp.Active = true
	sp.activeKey = key

	inst := sp.instance
	if sp.Def.Instancing == InstancedPerExecution {
		inst = sp.Def.newInstance()
	}
	sp.current = inst

	prev := c.activationKey
	c.activationKey = key
	c.commit(sp)
	if inst != nil {
		inst.Activate(c, sp)
	}
	c.activationKey = prev

	if inst == nil {
		sp.End()
	}
}

// commit applies the cooldown effect spec then the cost effect spec to the
// owner. Both go through the ordinary application path; cost gets no
// special-cased arithmetic, and the earlier CanActivate run is trusted.
func (c *Component) commit(sp *AbilitySpec) {
	if cd := sp.Def.Cooldown; cd != nil {
		c.ApplyEffectSpecToSelf(c.MakeEffectSpec(cd, sp.Level))
	}
	if cost := sp.Def.Cost; cost != nil {
		c.ApplyEffectSpecToSelf(c.MakeEffectSpec(cost, sp.Level))
	}
}

// ConfirmPrediction resolves a key as accepted: the effects applied under
// it stop being speculative but stay exactly as they are.
func (c *Component) ConfirmPrediction(key PredictionKey) {
	if !key.Valid() {
		return
	}
	for _, ae := range c.pending[key] {
		ae.Key = 0
	}
	delete(c.pending, key)
	for _, sp := range c.specs {
		if sp.activeKey == key {
			sp.activeKey = 0
		}
	}
}

// RejectPrediction rolls back a rejected key: every active effect applied
// under it is removed with per-removal attribute dirtying suppressed, the
// affected attributes are batch-dirtied once at the end, and the ability
// instance that produced them is force-cancelled. The next recompute then
// yields values identical to a world where the effects never applied.
func (c *Component) RejectPrediction(key PredictionKey) {
	if !key.Valid() {
		return
	}
	list := c.pending[key]
	delete(c.pending, key)

	affected := make(map[string]struct{}, len(list))
	for _, ae := range list {
		for _, a := range ae.Spec.resolved {
			if a != nil {
				affected[a.Name()] = struct{}{}
			}
		}
		c.removeActive(ae, true)
	}
	for name := range affected {
		if a, set := c.lookupAttribute(name); a != nil {
			c.dirty[a] = set
		}
	}

	for _, sp := range c.specs {
		if sp.activeKey == key {
			sp.cancel()
		}
	}
	slog.Debug("prediction rejected", "actor", c.name, "key", key, "rolled_back", len(list))
}
