package ability

import (
	"testing"

	"github.com/udisondev/gas2go/internal/game/attribute"
	"github.com/udisondev/gas2go/internal/game/tag"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	defs := map[string]*EffectDefinition{}
	buff := NewEffectDefinition(EffectDefinition{
		Name:           "regen",
		DurationPolicy: DurationTimed,
		Duration:       30,
		GrantedTags:    []tag.Tag{"Buff.Regen"},
		Modifiers:      []Modifier{addMod("mana", 20)},
		Stacking:       Stacking{Policy: StackAggregateByTarget, Limit: 3},
	})
	defs[buff.Name] = buff

	c := newTestComponent("saved")
	c.ApplyEffectSpecToSelf(c.MakeEffectSpec(instantEffect("wound", addMod("health", -40)), 1))
	apply(t, c, buff)
	apply(t, c, buff)
	tick(c, 10)

	snap := c.Snapshot()

	restored := newTestComponent("saved")
	restored.Restore(snap, func(name string) *EffectDefinition { return defs[name] })
	tick(restored, 0.001)

	if got := restored.Attribute("health").Base(); got != 60 {
		t.Errorf("restored health base should be 60, got %.1f", got)
	}
	if n := len(restored.ActiveEffects()); n != 1 {
		t.Fatalf("restored component should hold 1 active effect, got %d", n)
	}
	ae := restored.ActiveEffects()[0]
	if ae.StackCount != 2 {
		t.Errorf("restored stack count should be 2, got %d", ae.StackCount)
	}
	if ae.Remaining > 20.01 || ae.Remaining < 19.99 {
		t.Errorf("restored remaining should be ~20, got %.2f", ae.Remaining)
	}
	if got := restored.Attribute("mana").Current(); got != 140 {
		t.Errorf("restored mana should include both stacks, got %.1f", got)
	}
	if !restored.CombinedTags().Has("Buff.Regen") {
		t.Error("restored effect should grant its tags again")
	}
}

func TestSnapshot_SkipsSpeculativeEffects(t *testing.T) {
	c := newTestComponent("spec")
	def := predictedBuff()
	sp := c.GrantAbility(def, 1)
	c.TryActivateAbility(sp) // no bridge: effects stay speculative

	snap := c.Snapshot()
	if len(snap.Effects) != 0 {
		t.Errorf("speculative effects must not persist, got %d", len(snap.Effects))
	}
}

func TestSnapshot_UnknownDefinitionSkipped(t *testing.T) {
	c := newTestComponent("ghost")
	apply(t, c, timedEffect("legacy", 10))
	snap := c.Snapshot()

	restored := NewComponent("ghost", NewArena())
	set := attribute.NewSet("vitals", nil)
	set.Declare("health", 100)
	restored.AddAttributeSet(set)

	restored.Restore(snap, func(string) *EffectDefinition { return nil })
	if len(restored.ActiveEffects()) != 0 {
		t.Error("unknown definitions should be skipped on restore")
	}
}
