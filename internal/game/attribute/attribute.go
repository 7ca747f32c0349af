package attribute

// Attribute is a single named numeric stat slot. The base value is the
// persistent part, mutated by instant effects; the current value is derived
// each recompute from base plus every qualifying active modifier.
//
// Mutation goes through the owning Set so that clamp hooks run and the
// owning component can mark the attribute dirty.
type Attribute struct {
	name    string
	base    float64
	current float64
}

// Name returns the stable attribute name, e.g. "health" or "mana".
func (a *Attribute) Name() string { return a.name }

// Base returns the base value.
func (a *Attribute) Base() float64 { return a.base }

// Current returns the derived current value.
func (a *Attribute) Current() float64 { return a.current }
