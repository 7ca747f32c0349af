package tag

import "strings"

// Tag is a hierarchical dotted identifier, e.g. "Status.Stun" or
// "Cooldown.Fireball". A held tag matches a query for itself or for any
// of its ancestors: holding "Status.Stun.Heavy" satisfies a check for
// "Status.Stun" and for "Status".
type Tag string

// Matches reports whether holding t satisfies a query for q.
func (t Tag) Matches(q Tag) bool {
	if t == q {
		return true
	}
	return strings.HasPrefix(string(t), string(q)+".")
}

// Parent returns the immediate parent tag, or "" for a root tag.
func (t Tag) Parent() Tag {
	i := strings.LastIndexByte(string(t), '.')
	if i < 0 {
		return ""
	}
	return t[:i]
}
