package ability

import "testing"

func TestArena_RecyclesSpecs(t *testing.T) {
	ar := NewArena()
	c := NewComponent("pooled", ar)
	def := instantEffect("hit", addMod("health", -1))

	s1 := ar.GetSpec(def, c, 1, EffectContext{})
	ar.PutSpec(s1)
	s2 := ar.GetSpec(def, c, 3, EffectContext{})

	if s1 != s2 {
		t.Error("arena should reuse the returned spec")
	}
	if s2.Level != 3 || s2.Def != def {
		t.Error("recycled spec should be fully reinitialized")
	}
}

func TestArena_ActiveEffectRoundTrip(t *testing.T) {
	ar := NewArena()
	c := NewComponent("pooled", ar)
	def := timedEffect("buff", 5, addMod("health", 1))

	spec := ar.GetSpec(def, c, 1, EffectContext{})
	ae := ar.GetActive(spec)

	if ae.Remaining != 5 || ae.StackCount != 1 || ae.PeriodTimer != 0 {
		t.Errorf("fresh active effect state wrong: %+v", ae)
	}

	ar.PutActive(ae)
	ae2 := ar.GetActive(ar.GetSpec(def, c, 1, EffectContext{}))
	if ae != ae2 {
		t.Error("arena should reuse the returned active effect")
	}
}

func TestArena_WorldsDoNotShareState(t *testing.T) {
	a := NewArena()
	b := NewArena()
	c := NewComponent("x", a)
	def := instantEffect("hit")

	s := a.GetSpec(def, c, 1, EffectContext{})
	a.PutSpec(s)

	if got := b.GetSpec(def, c, 1, EffectContext{}); got == s {
		t.Error("separate arenas must not share free lists")
	}
}

func TestScalableValue_At(t *testing.T) {
	v := ScalableValue{Base: 10, PerLevel: 2.5}

	if got := v.At(1); got != 10 {
		t.Errorf("level 1 should be base, got %.1f", got)
	}
	if got := v.At(5); got != 20 {
		t.Errorf("level 5 should be 10 + 2.5*4, got %.1f", got)
	}
	if got := v.At(0); got != 10 {
		t.Errorf("level below 1 clamps to 1, got %.1f", got)
	}
}

func TestEffectSpec_MagnitudeInvariant(t *testing.T) {
	c := newTestComponent("lv")
	def := instantEffect("multi",
		Modifier{Attribute: "health", Op: OpAdd, Value: ScalableValue{Base: -10, PerLevel: -5}},
		Modifier{Attribute: "mana", Op: OpAdd, Value: Flat(-1)},
	)

	spec := c.arena.GetSpec(def, c, 3, EffectContext{})
	if len(spec.Magnitudes) < len(def.Modifiers) {
		t.Fatal("magnitude array must cover every modifier")
	}
	if spec.Magnitude(0) != -20 {
		t.Errorf("level 3 magnitude should be -20, got %.1f", spec.Magnitude(0))
	}
}
