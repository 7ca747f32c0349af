package tag

import "sort"

// Container is a reference-counted set of tags. Adding the same tag twice
// requires removing it twice before Has stops reporting it; this lets
// several independent sources grant the same tag without stepping on each
// other's removal.
//
// Not safe for concurrent use: a container belongs to exactly one actor
// and is only touched from the simulation tick.
type Container struct {
	counts map[Tag]int
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{counts: make(map[Tag]int)}
}

// Add increments the reference count for t.
func (c *Container) Add(t Tag) {
	c.AddCount(t, 1)
}

// AddCount increments the reference count for t by n (n <= 0 is a no-op).
func (c *Container) AddCount(t Tag, n int) {
	if n <= 0 || t == "" {
		return
	}
	c.counts[t] += n
}

// AddAll increments the reference count for every tag in tags.
func (c *Container) AddAll(tags []Tag) {
	for _, t := range tags {
		c.Add(t)
	}
}

// Remove decrements the reference count for t, dropping the tag once the
// count reaches zero. Returns false if the tag was not present.
func (c *Container) Remove(t Tag) bool {
	n, ok := c.counts[t]
	if !ok {
		return false
	}
	if n <= 1 {
		delete(c.counts, t)
	} else {
		c.counts[t] = n - 1
	}
	return true
}

// RemoveAll decrements the reference count for every tag in tags.
func (c *Container) RemoveAll(tags []Tag) {
	for _, t := range tags {
		c.Remove(t)
	}
}

// Reset drops every tag and count.
func (c *Container) Reset() {
	clear(c.counts)
}

// Has reports whether the container holds q or any child of q.
func (c *Container) Has(q Tag) bool {
	if _, ok := c.counts[q]; ok {
		return true
	}
	for held := range c.counts {
		if held.Matches(q) {
			return true
		}
	}
	return false
}

// HasExact reports whether the container holds exactly q (no hierarchy).
func (c *Container) HasExact(q Tag) bool {
	_, ok := c.counts[q]
	return ok
}

// HasAny reports whether the container holds at least one of tags.
func (c *Container) HasAny(tags []Tag) bool {
	for _, t := range tags {
		if c.Has(t) {
			return true
		}
	}
	return false
}

// HasAll reports whether the container holds every tag in tags.
// Vacuously true for an empty query.
func (c *Container) HasAll(tags []Tag) bool {
	for _, t := range tags {
		if !c.Has(t) {
			return false
		}
	}
	return true
}

// Count returns the reference count for exactly t.
func (c *Container) Count(t Tag) int {
	return c.counts[t]
}

// Len returns the number of distinct tags held.
func (c *Container) Len() int {
	return len(c.counts)
}

// Tags returns the distinct held tags in sorted order.
func (c *Container) Tags() []Tag {
	out := make([]Tag, 0, len(c.counts))
	for t := range c.counts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
