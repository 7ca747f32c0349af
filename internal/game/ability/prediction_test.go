package ability

import (
	"testing"

	"github.com/udisondev/gas2go/internal/game/tag"
)

// predictedBuff is a LocalPredicted ability that applies a timed buff.
func predictedBuff() *AbilityDefinition {
	cooldown := NewEffectDefinition(EffectDefinition{
		Name:           "surge.cooldown",
		DurationPolicy: DurationTimed,
		Duration:       3,
		GrantedTags:    []tag.Tag{"Cooldown.Surge"},
	})
	buff := NewEffectDefinition(EffectDefinition{
		Name:           "surge.buff",
		DurationPolicy: DurationTimed,
		Duration:       8,
		GrantedTags:    []tag.Tag{"Buff.Surging"},
		Modifiers:      []Modifier{addMod("speed", 5)},
	})
	return &AbilityDefinition{
		Name:     "surge",
		Cooldown: cooldown,
		Net:      NetLocalPredicted,
		Factory:  NewEffectApplier([]*EffectDefinition{buff}),
	}
}

// denyingBridge rejects every request without consulting a server.
type denyingBridge struct{}

func (denyingBridge) RequestActivate(h AbilityHandle, key PredictionKey) ActivationResult {
	return ActivationResult{Accepted: false, Key: key}
}

func TestPrediction_AcceptedKeepsEffects(t *testing.T) {
	server := newTestComponent("server.rogue")
	client := newTestComponent("client.rogue")

	def := predictedBuff()
	server.GrantAbility(def, 1)
	sp := client.GrantAbility(def, 1)
	client.SetBridge(&LoopbackBridge{Server: server})

	if !client.TryActivateAbility(sp) {
		t.Fatal("predicted activation should dispatch")
	}

	// Speculative effects were confirmed: still present, no longer keyed.
	tick(client, 0.1)
	if got := client.Attribute("speed").Current(); got != 15 {
		t.Errorf("confirmed buff should persist, got %.1f", got)
	}
	for _, ae := range client.ActiveEffects() {
		if ae.Key.Valid() {
			t.Errorf("confirmed effect %s should drop its key", ae.Spec.Def.Name)
		}
	}
	if got := server.ActiveEffects(); len(got) != 2 {
		t.Errorf("authoritative side should hold cooldown+buff, got %d", len(got))
	}
}

func TestPrediction_RejectedRollsBackExactlyKeyedEffects(t *testing.T) {
	client := newTestComponent("client.rogue")

	// An unrelated, non-speculative buff that must survive the rollback.
	survivor := NewEffectDefinition(EffectDefinition{
		Name:           "veteran",
		DurationPolicy: DurationTimed,
		Duration:       60,
		Modifiers:      []Modifier{addMod("speed", 2)},
	})
	apply(t, client, survivor)
	tick(client, 0.1)
	if got := client.Attribute("speed").Current(); got != 12 {
		t.Fatalf("baseline speed should be 12, got %.1f", got)
	}

	def := predictedBuff()
	sp := client.GrantAbility(def, 1)
	client.SetBridge(denyingBridge{})

	if !client.TryActivateAbility(sp) {
		t.Fatal("dispatch is attempted even when the authority later rejects")
	}

	// Rollback already ran (synchronous bridge). Re-ticking must produce
	// values identical to a world where the keyed effects never applied.
	tick(client, 0.1)

	if n := len(client.ActiveEffects()); n != 1 {
		t.Fatalf("only the unrelated buff should remain, got %d actives", n)
	}
	if client.ActiveEffects()[0].Spec.Def != survivor {
		t.Error("the surviving effect should be the unrelated one")
	}
	if got := client.Attribute("speed").Current(); got != 12 {
		t.Errorf("speed should return to 12 after rollback, got %.1f", got)
	}
	if client.CombinedTags().Has("Buff.Surging") || client.CombinedTags().Has("Cooldown.Surge") {
		t.Error("rolled-back effects should revoke their granted tags")
	}
}

func TestPrediction_KeysAreMonotonic(t *testing.T) {
	var src keySource
	prev := PredictionKey(0)
	for i := 0; i < 5; i++ {
		k := src.Next()
		if !k.Valid() {
			t.Fatal("allocated keys must be nonzero")
		}
		if k <= prev {
			t.Fatalf("keys must increase: %d after %d", k, prev)
		}
		prev = k
	}
}

func TestPrediction_ConfirmIsNotRemoval(t *testing.T) {
	client := newTestComponent("client.rogue")
	def := predictedBuff()
	sp := client.GrantAbility(def, 1)

	// No bridge: activation stays speculative until resolved by hand, the
	// way an async transport would resolve it later.
	if !client.TryActivateAbility(sp) {
		t.Fatal("dispatch should be attempted")
	}
	if n := len(client.ActiveEffects()); n != 2 {
		t.Fatalf("cooldown+buff should be active speculatively, got %d", n)
	}

	key := client.ActiveEffects()[0].Key
	if !key.Valid() {
		t.Fatal("speculative effects must carry the prediction key")
	}

	client.ConfirmPrediction(key)
	if n := len(client.ActiveEffects()); n != 2 {
		t.Errorf("confirmation must not touch the active list, got %d", n)
	}
}

func TestPrediction_RejectCancelsInFlightAbility(t *testing.T) {
	client := newTestComponent("client.rogue")

	cancelled := false
	def := &AbilityDefinition{
		Name:       "channel",
		Net:        NetLocalPredicted,
		Instancing: InstancedPerExecution,
		Factory: func() Ability {
			return &funcAbility{
				activate: func(owner *Component, sp *AbilitySpec) {
					sp.StartTask(10, func() { sp.End() })
				},
				cancel: func(owner *Component, sp *AbilitySpec) { cancelled = true },
			}
		},
	}
	sp := client.GrantAbility(def, 1)
	client.SetBridge(denyingBridge{})

	client.TryActivateAbility(sp)

	if !cancelled {
		t.Error("rejection should force-cancel the producing ability instance")
	}
	if sp.Active {
		t.Error("cancelled ability should no longer be active")
	}
}

type funcAbility struct {
	activate func(*Component, *AbilitySpec)
	cancel   func(*Component, *AbilitySpec)
}

func (f *funcAbility) Activate(owner *Component, sp *AbilitySpec) {
	if f.activate != nil {
		f.activate(owner, sp)
	}
}

func (f *funcAbility) Cancel(owner *Component, sp *AbilitySpec) {
	if f.cancel != nil {
		f.cancel(owner, sp)
	}
}
