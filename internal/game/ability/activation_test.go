package ability

import (
	"testing"

	"github.com/udisondev/gas2go/internal/game/tag"
)

func fireball() *AbilityDefinition {
	cooldown := NewEffectDefinition(EffectDefinition{
		Name:           "fireball.cooldown",
		DurationPolicy: DurationTimed,
		Duration:       5.0,
		GrantedTags:    []tag.Tag{"Cooldown.Fireball"},
	})
	cost := NewEffectDefinition(EffectDefinition{
		Name:      "fireball.cost",
		Modifiers: []Modifier{addMod("mana", -30)},
	})
	damage := NewEffectDefinition(EffectDefinition{
		Name:      "fireball.damage",
		Modifiers: []Modifier{addMod("health", -40)},
	})
	return &AbilityDefinition{
		Name:     "fireball",
		Cost:     cost,
		Cooldown: cooldown,
		Net:      NetLocalOnly,
		Factory:  NewEffectApplier([]*EffectDefinition{damage}),
	}
}

func TestActivation_CooldownCycle(t *testing.T) {
	c := newTestComponent("mage")
	sp := c.GrantAbility(fireball(), 1)

	if !c.TryActivateAbility(sp) {
		t.Fatal("first activation should dispatch")
	}
	if c.TryActivateAbility(sp) {
		t.Fatal("immediate re-activation should be refused by cooldown")
	}

	tick(c, 5.01)

	if !c.TryActivateAbility(sp) {
		t.Fatal("after 5.01s the cooldown should have expired")
	}
}

func TestActivation_CostGates(t *testing.T) {
	c := newTestComponent("mage")
	sp := c.GrantAbility(fireball(), 1)

	// 100 mana pays for 3 casts of 30; the 4th must fail on cost.
	casts := 0
	for i := 0; i < 4; i++ {
		tick(c, 6.0) // clear cooldown between attempts
		if c.TryActivateAbility(sp) {
			casts++
		}
	}
	if casts != 3 {
		t.Fatalf("expected exactly 3 affordable casts, got %d", casts)
	}
	if got := c.Attribute("mana").Base(); got != 10 {
		t.Errorf("expected 10 mana left, got %.1f", got)
	}
}

func TestActivation_CommitAppliesCostAndCooldown(t *testing.T) {
	c := newTestComponent("mage")
	sp := c.GrantAbility(fireball(), 1)

	c.TryActivateAbility(sp)

	if got := c.Attribute("mana").Base(); got != 70 {
		t.Errorf("cost should be an ordinary instant application, got %.1f mana", got)
	}
	if got := c.Attribute("health").Base(); got != 60 {
		t.Errorf("ability damage should have landed, got %.1f health", got)
	}
	if !c.CombinedTags().Has("Cooldown.Fireball") {
		t.Error("cooldown effect should grant its tag")
	}
}

func TestActivation_BlockedAndRequiredTags(t *testing.T) {
	c := newTestComponent("mage")
	def := &AbilityDefinition{
		Name:               "warcry",
		ActivationRequired: []tag.Tag{"Stance.Combat"},
		ActivationBlocked:  []tag.Tag{"Status.Silenced"},
		Net:                NetLocalOnly,
	}
	sp := c.GrantAbility(def, 1)

	if c.TryActivateAbility(sp) {
		t.Fatal("missing required tag should refuse activation")
	}

	c.AddLooseTag("Stance.Combat")
	if !c.TryActivateAbility(sp) {
		t.Fatal("required tag present, activation should dispatch")
	}

	c.AddLooseTag("Status.Silenced")
	if c.TryActivateAbility(sp) {
		t.Fatal("blocked tag should refuse activation")
	}
}

func TestActivation_ReturnValueMeansDispatch(t *testing.T) {
	c := newTestComponent("mage")
	// No factory: the ability commits and immediately ends.
	def := &AbilityDefinition{Name: "blink", Net: NetLocalOnly}
	sp := c.GrantAbility(def, 1)

	if !c.TryActivateAbility(sp) {
		t.Fatal("dispatch attempted, should return true")
	}
	if sp.Active {
		t.Error("behavior-less ability should end immediately")
	}
}

func TestActivation_ServerOnlySkipsLocalExecution(t *testing.T) {
	server := newTestComponent("server.mage")
	client := newTestComponent("client.mage")

	def := fireball()
	def.Net = NetServerOnly
	server.GrantAbility(def, 1)
	sp := client.GrantAbility(def, 1)

	client.SetBridge(&LoopbackBridge{Server: server})

	if !client.TryActivateAbility(sp) {
		t.Fatal("dispatch should be attempted")
	}
	if got := client.Attribute("health").Base(); got != 100 {
		t.Errorf("server-only ability must not execute locally, got %.1f", got)
	}
	if got := server.Attribute("health").Base(); got != 60 {
		t.Errorf("authoritative side should have executed, got %.1f", got)
	}
}

func TestGrantRevoke(t *testing.T) {
	c := newTestComponent("mage")
	sp := c.GrantAbility(fireball(), 1)

	if c.FindAbilitySpec(sp.Handle) != sp {
		t.Fatal("granted spec should be findable by handle")
	}

	c.RevokeAbility(sp)
	if c.FindAbilitySpec(sp.Handle) != nil {
		t.Error("revoked spec should be gone")
	}
	if c.TryActivateAbility(sp) {
		t.Error("revoked spec should not activate")
	}
}

type grantAware struct {
	granted bool
}

func (g *grantAware) Activate(owner *Component, sp *AbilitySpec) { sp.End() }
func (g *grantAware) Cancel(owner *Component, sp *AbilitySpec)   {}
func (g *grantAware) OnGranted(owner *Component, sp *AbilitySpec) {
	g.granted = true
}

func TestGrant_OnGrantedHook(t *testing.T) {
	c := newTestComponent("mage")
	inst := &grantAware{}
	def := &AbilityDefinition{
		Name:       "passive_sense",
		Instancing: InstancedPerActor,
		Factory:    func() Ability { return inst },
	}
	c.GrantAbility(def, 1)

	if !inst.granted {
		t.Error("on-grant hook should run for instanced abilities")
	}
}

type delayedNuke struct{}

func (delayedNuke) Activate(owner *Component, sp *AbilitySpec) {
	damage := NewEffectDefinition(EffectDefinition{
		Name:      "nuke.damage",
		Modifiers: []Modifier{addMod("health", -50)},
	})
	sp.StartTask(1.0, func() {
		owner.ApplyEffectSpecToSelf(owner.MakeEffectSpec(damage, sp.Level))
		sp.End()
	})
}

func (delayedNuke) Cancel(owner *Component, sp *AbilitySpec) {}

func TestTasks_AdvanceEvenWhenNotAuthoritative(t *testing.T) {
	c := newTestComponent("mage")
	def := &AbilityDefinition{
		Name:       "nuke",
		Instancing: InstancedPerExecution,
		Net:        NetLocalOnly,
		Factory:    func() Ability { return delayedNuke{} },
	}
	sp := c.GrantAbility(def, 1)

	c.TryActivateAbility(sp)
	if got := c.Attribute("health").Base(); got != 100 {
		t.Fatal("damage should wait for the task delay")
	}

	c.Tick(0.6, false)
	c.Tick(0.6, false)

	if got := c.Attribute("health").Base(); got != 50 {
		t.Errorf("task should have fired after 1.2s of ticks, got %.1f", got)
	}
	if sp.Active {
		t.Error("ability should have ended from the task callback")
	}
}
