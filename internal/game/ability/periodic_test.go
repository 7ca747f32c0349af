package ability

import "testing"

func periodicDamage(name string, duration, period, perTick float64) *EffectDefinition {
	return NewEffectDefinition(EffectDefinition{
		Name:           name,
		DurationPolicy: DurationTimed,
		Duration:       duration,
		Period:         period,
		Modifiers:      []Modifier{addMod("health", -perTick)},
	})
}

func TestPeriodic_FireCountUnderDrift(t *testing.T) {
	c := newTestComponent("pete")

	// Period 1.0, duration 3.0, ticked at 0.4s steps: 3 fires expected,
	// tolerance of one for drift.
	apply(t, c, periodicDamage("burn", 3.0, 1.0, 5))

	for i := 0; i < 10; i++ {
		tick(c, 0.4)
	}

	if len(c.ActiveEffects()) != 0 {
		t.Fatal("periodic effect should have expired")
	}
	lost := 100 - c.Attribute("health").Base()
	fires := int(lost / 5)
	if fires < 3 || fires > 4 {
		t.Errorf("expected 3 fires (tolerance 1), got %d", fires)
	}
}

func TestPeriodic_FirstFireOnFirstTickNotAfterFullPeriod(t *testing.T) {
	c := newTestComponent("pete")

	apply(t, c, periodicDamage("burn", 10, 2.0, 5))

	if got := c.Attribute("health").Base(); got != 100 {
		t.Fatalf("application alone should not fire, got %.1f", got)
	}

	tick(c, 0.1)
	if got := c.Attribute("health").Base(); got != 95 {
		t.Errorf("first fire should land on the first tick, got %.1f", got)
	}

	tick(c, 0.1)
	if got := c.Attribute("health").Base(); got != 95 {
		t.Errorf("second fire should wait a full period, got %.1f", got)
	}
}

func TestPeriodic_MutatesBaseNotAggregation(t *testing.T) {
	c := newTestComponent("pete")

	apply(t, c, periodicDamage("burn", 10, 1.0, 5))
	tick(c, 0.1)

	hp := c.Attribute("health")
	if hp.Base() != 95 {
		t.Fatalf("expected base 95, got %.1f", hp.Base())
	}
	if hp.Current() != 95 {
		t.Errorf("periodic effect must not also contribute to current, got %.1f", hp.Current())
	}
}

func TestPeriodic_NonAuthoritativeTickDoesNotAdvance(t *testing.T) {
	c := newTestComponent("pete")

	apply(t, c, periodicDamage("burn", 10, 1.0, 5))
	c.Tick(5.0, false)

	if got := c.Attribute("health").Base(); got != 100 {
		t.Errorf("non-authoritative ticks must not fire periods, got %.1f", got)
	}
	if got := c.ActiveEffects()[0].Remaining; got != 10 {
		t.Errorf("non-authoritative ticks must not advance durations, got %.1f", got)
	}
}

func TestPeriodic_NegativeRemainderCarriesOver(t *testing.T) {
	c := newTestComponent("pete")

	// One big tick spanning several periods fires the application-time
	// fire plus one per elapsed period.
	apply(t, c, periodicDamage("burn", 10, 1.0, 5))
	tick(c, 3.0)

	if got := c.Attribute("health").Base(); got != 80 {
		t.Errorf("a 3s tick at period 1 should fire 4 times, got %.1f", got)
	}
}

func TestPeriodic_StackCountScalesFire(t *testing.T) {
	c := newTestComponent("pete")

	def := NewEffectDefinition(EffectDefinition{
		Name:           "venom",
		DurationPolicy: DurationTimed,
		Duration:       10,
		Period:         1.0,
		Modifiers:      []Modifier{addMod("health", -5)},
		Stacking:       Stacking{Policy: StackAggregateByTarget, Limit: 3},
	})
	apply(t, c, def)
	apply(t, c, def)
	tick(c, 0.1)

	if got := c.Attribute("health").Base(); got != 90 {
		t.Errorf("2 stacks should fire for 10, got %.1f", got)
	}
}
