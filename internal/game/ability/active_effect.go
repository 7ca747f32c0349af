package ability

// ActiveEffect is the live, time-tracked instance of a non-instant spec on
// its target. Owned exclusively by the target component; nothing outside
// the target's tick ever mutates it.
type ActiveEffect struct {
	Spec *EffectSpec

	// Remaining is seconds until expiry; negative means infinite.
	Remaining float64

	// StackCount is in [1, Spec.Def.Stacking.Limit].
	StackCount int32

	// PeriodTimer starts at 0 so a periodic effect fires on the first
	// authoritative tick after application, not one full period later.
	PeriodTimer float64

	Expired bool

	// Key is the prediction key the effect was applied under; zero when the
	// application was not speculative.
	Key PredictionKey

	// granted are the ability specs this effect granted to its target,
	// revoked again on removal.
	granted []*AbilitySpec
}

func (ae *ActiveEffect) reset(spec *EffectSpec) {
	ae.Spec = spec
	ae.StackCount = 1
	ae.PeriodTimer = 0
	ae.Expired = false
	ae.Key = spec.Ctx.Key
	ae.granted = ae.granted[:0]

	switch spec.Def.DurationPolicy {
	case DurationTimed:
		ae.Remaining = spec.Def.Duration
	default:
		ae.Remaining = -1
	}
}

// Infinite reports whether the effect never expires on its own.
func (ae *ActiveEffect) Infinite() bool {
	return ae.Remaining < 0
}

// advance decrements the duration timer. Returns true while the effect is
// still alive.
func (ae *ActiveEffect) advance(dt float64) bool {
	if ae.Infinite() {
		return true
	}
	ae.Remaining -= dt
	if ae.Remaining <= 0 {
		ae.Expired = true
		return false
	}
	return true
}
