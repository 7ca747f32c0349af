package ability

import "github.com/udisondev/gas2go/internal/game/tag"

// CueKind is the lifecycle event a cue notification describes.
type CueKind int8

const (
	CueExecuted    CueKind = iota // instant effect or periodic fire
	CueOnActive                   // active effect created
	CueWhileActive                // active effect still present on tick
	CueRemoved                    // active effect removed or expired
)

// CueEvent is a one-way, presentation-only notification. Handlers must not
// feed state back into the simulation synchronously.
type CueEvent struct {
	Tag  tag.Tag
	Kind CueKind
	Spec *EffectSpec
}

// CueHandler receives cue events. A nil handler disables dispatch.
type CueHandler func(CueEvent)
