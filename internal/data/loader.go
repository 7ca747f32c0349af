package data

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/gas2go/internal/game/ability"
	"github.com/udisondev/gas2go/internal/game/tag"
)

// Library holds the loaded content for one world/session: immutable effect
// and ability definitions keyed by name. There is no package-level
// registry; the host owns the library and passes it where needed.
type Library struct {
	effects   map[string]*ability.EffectDefinition
	abilities map[string]*ability.AbilityDefinition
}

// GetEffect returns the effect definition with the given name, or nil.
func (l *Library) GetEffect(name string) *ability.EffectDefinition {
	return l.effects[name]
}

// GetAbility returns the ability definition with the given name, or nil.
func (l *Library) GetAbility(name string) *ability.AbilityDefinition {
	return l.abilities[name]
}

// EffectCount returns the number of loaded effect definitions.
func (l *Library) EffectCount() int { return len(l.effects) }

// AbilityCount returns the number of loaded ability definitions.
func (l *Library) AbilityCount() int { return len(l.abilities) }

// LoadFile loads a content library from a YAML file.
func LoadFile(path string) (*Library, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}
	lib, err := Load(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing content %s: %w", path, err)
	}
	return lib, nil
}

// Load builds a library from YAML bytes. Malformed entries are
// configuration errors: logged as warnings, skipped, loading continues.
// Duplicate names keep the first definition.
func Load(raw []byte) (*Library, error) {
	var file ContentFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("unmarshaling content: %w", err)
	}

	lib := &Library{
		effects:   make(map[string]*ability.EffectDefinition, len(file.Effects)),
		abilities: make(map[string]*ability.AbilityDefinition, len(file.Abilities)),
	}

	// Effects first: abilities reference them by name.
	for i := range file.Effects {
		def := buildEffect(&file.Effects[i])
		if def == nil {
			continue
		}
		if _, dup := lib.effects[def.Name]; dup {
			slog.Warn("duplicate effect definition, first wins", "effect", def.Name)
			continue
		}
		lib.effects[def.Name] = def
	}

	for i := range file.Abilities {
		def := lib.buildAbility(&file.Abilities[i])
		if def == nil {
			continue
		}
		if _, dup := lib.abilities[def.Name]; dup {
			slog.Warn("duplicate ability definition, first wins", "ability", def.Name)
			continue
		}
		lib.abilities[def.Name] = def
	}

	// Granted abilities are patched last so effects may grant abilities
	// that themselves reference effects. This is the only post-construction
	// write to a definition and happens before the library is published.
	for i := range file.Effects {
		src := &file.Effects[i]
		def := lib.effects[src.Name]
		if def == nil {
			continue
		}
		for _, name := range src.GrantAbilities {
			adef := lib.abilities[name]
			if adef == nil {
				slog.Warn("effect grants unknown ability", "effect", src.Name, "ability", name)
				continue
			}
			def.GrantedAbilities = append(def.GrantedAbilities, adef)
		}
	}

	slog.Info("content loaded", "effects", len(lib.effects), "abilities", len(lib.abilities))
	return lib, nil
}

func buildEffect(src *EffectDef) *ability.EffectDefinition {
	if src.Name == "" {
		slog.Warn("effect definition without a name, skipping")
		return nil
	}

	def := ability.EffectDefinition{
		Name:   src.Name,
		Period: src.Period,
		AssetTags:   toTags(src.AssetTags),
		GrantedTags: toTags(src.GrantedTags),
		ApplicationRequirements: tag.Requirements{
			Require: toTags(src.ApplicationRequires),
			Ignore:  toTags(src.ApplicationIgnores),
		},
		OngoingRequirements: tag.Requirements{
			Require: toTags(src.OngoingRequires),
			Ignore:  toTags(src.OngoingIgnores),
		},
		RemoveEffectsWithTags: toTags(src.RemoveEffectsWithTags),
		Cues:                  toTags(src.Cues),
	}

	switch src.Duration {
	case "", "instant":
		def.DurationPolicy = ability.DurationInstant
	case "infinite":
		def.DurationPolicy = ability.DurationInfinite
	default:
		seconds, err := strconv.ParseFloat(src.Duration, 64)
		if err != nil {
			slog.Warn("unparsable effect duration, treating as instant",
				"effect", src.Name,
				"duration", src.Duration)
			def.DurationPolicy = ability.DurationInstant
		} else {
			def.DurationPolicy = ability.DurationTimed
			def.Duration = seconds
		}
	}

	for _, m := range src.Modifiers {
		op, ok := parseOp(m.Op)
		if !ok {
			slog.Warn("unknown modifier op, skipping modifier",
				"effect", src.Name,
				"op", m.Op)
			continue
		}
		def.Modifiers = append(def.Modifiers, ability.Modifier{
			Attribute: m.Attribute,
			Op:        op,
			Value:     ability.ScalableValue{Base: m.Value, PerLevel: m.PerLevel},
		})
	}

	switch src.Stacking.Policy {
	case "", "none":
		def.Stacking.Policy = ability.StackNone
	case "target":
		def.Stacking.Policy = ability.StackAggregateByTarget
	case "source":
		def.Stacking.Policy = ability.StackAggregateBySource
	default:
		slog.Warn("unknown stacking policy, treating as none",
			"effect", src.Name,
			"policy", src.Stacking.Policy)
	}
	def.Stacking.Limit = src.Stacking.Limit
	if src.Stacking.Refresh == "apply" {
		def.Stacking.Refresh = ability.StackRefreshOnApply
	}

	return ability.NewEffectDefinition(def)
}

func (l *Library) buildAbility(src *AbilityDef) *ability.AbilityDefinition {
	if src.Name == "" {
		slog.Warn("ability definition without a name, skipping")
		return nil
	}

	def := &ability.AbilityDefinition{
		Name:               src.Name,
		ActivationRequired: toTags(src.ActivationRequires),
		ActivationBlocked:  toTags(src.ActivationBlocked),
	}

	if src.Cost != "" {
		if def.Cost = l.effects[src.Cost]; def.Cost == nil {
			slog.Warn("ability references unknown cost effect",
				"ability", src.Name,
				"effect", src.Cost)
		}
	}
	if src.Cooldown != "" {
		if def.Cooldown = l.effects[src.Cooldown]; def.Cooldown == nil {
			slog.Warn("ability references unknown cooldown effect",
				"ability", src.Name,
				"effect", src.Cooldown)
		}
	}

	var applied []*ability.EffectDefinition
	for _, name := range src.Effects {
		eff := l.effects[name]
		if eff == nil {
			slog.Warn("ability references unknown effect",
				"ability", src.Name,
				"effect", name)
			continue
		}
		applied = append(applied, eff)
	}
	if len(applied) > 0 {
		def.Factory = ability.NewEffectApplier(applied)
	}

	switch src.Net {
	case "", "local":
		def.Net = ability.NetLocalOnly
	case "local_predicted":
		def.Net = ability.NetLocalPredicted
	case "server":
		def.Net = ability.NetServerOnly
	default:
		slog.Warn("unknown net policy, treating as local",
			"ability", src.Name,
			"net", src.Net)
	}

	switch src.Instancing {
	case "", "none":
		def.Instancing = ability.NonInstanced
	case "per_actor":
		def.Instancing = ability.InstancedPerActor
	case "per_execution":
		def.Instancing = ability.InstancedPerExecution
	default:
		slog.Warn("unknown instancing policy, treating as none",
			"ability", src.Name,
			"instancing", src.Instancing)
	}

	return def
}

func parseOp(s string) (ability.Op, bool) {
	switch s {
	case "", "add":
		return ability.OpAdd, true
	case "mul":
		return ability.OpMultiply, true
	case "div":
		return ability.OpDivide, true
	case "override":
		return ability.OpOverride, true
	default:
		return 0, false
	}
}

func toTags(names []string) []tag.Tag {
	if len(names) == 0 {
		return nil
	}
	out := make([]tag.Tag, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		out = append(out, tag.Tag(n))
	}
	return out
}
