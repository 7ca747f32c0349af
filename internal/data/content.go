package data

// File-format types for YAML content. These are the authoring shapes;
// the loader turns them into immutable runtime definitions.

// ContentFile is the root of one content document.
type ContentFile struct {
	Effects   []EffectDef  `yaml:"effects"`
	Abilities []AbilityDef `yaml:"abilities"`
}

// EffectDef describes one gameplay effect.
type EffectDef struct {
	Name string `yaml:"name"`

	// Duration is "instant", "infinite" or a duration in seconds ("5",
	// "7.5").
	Duration string  `yaml:"duration"`
	Period   float64 `yaml:"period"`

	Modifiers []ModifierDef `yaml:"modifiers"`
	Stacking  StackingDef   `yaml:"stacking"`

	AssetTags   []string `yaml:"asset_tags"`
	GrantedTags []string `yaml:"granted_tags"`

	ApplicationRequires []string `yaml:"application_requires"`
	ApplicationIgnores  []string `yaml:"application_ignores"`
	OngoingRequires     []string `yaml:"ongoing_requires"`
	OngoingIgnores      []string `yaml:"ongoing_ignores"`

	RemoveEffectsWithTags []string `yaml:"remove_effects_with_tags"`

	// GrantAbilities names abilities from the same content set.
	GrantAbilities []string `yaml:"grant_abilities"`

	Cues []string `yaml:"cues"`
}

// ModifierDef is one attribute modifier: op is "add", "mul", "div" or
// "override"; per_level scales the value linearly with effect level.
type ModifierDef struct {
	Attribute string  `yaml:"attribute"`
	Op        string  `yaml:"op"`
	Value     float64 `yaml:"value"`
	PerLevel  float64 `yaml:"per_level"`
}

// StackingDef selects the stacking rule: policy is "none", "target" or
// "source"; refresh is "never" or "apply".
type StackingDef struct {
	Policy  string `yaml:"policy"`
	Limit   int32  `yaml:"limit"`
	Refresh string `yaml:"refresh"`
}

// AbilityDef describes one ability. Cost, cooldown and effects reference
// effect names from the same content set.
type AbilityDef struct {
	Name string `yaml:"name"`

	Cost     string   `yaml:"cost"`
	Cooldown string   `yaml:"cooldown"`
	Effects  []string `yaml:"effects"`

	// Net is "local", "local_predicted" or "server"; instancing is
	// "none", "per_actor" or "per_execution".
	Net        string `yaml:"net"`
	Instancing string `yaml:"instancing"`

	ActivationRequires []string `yaml:"activation_requires"`
	ActivationBlocked  []string `yaml:"activation_blocked"`
}
