package tag

// Requirements pairs a required tag set with a forbidden one. The same
// value is reused for effect application checks, effect ongoing checks and
// ability activation checks; only the call site differs.
type Requirements struct {
	Require []Tag
	Ignore  []Tag
}

// Met reports whether the given combined tags satisfy the requirements:
// every required tag present, no forbidden tag present.
func (r Requirements) Met(c *Container) bool {
	return c.HasAll(r.Require) && !c.HasAny(r.Ignore)
}

// Empty reports whether the requirements constrain nothing.
func (r Requirements) Empty() bool {
	return len(r.Require) == 0 && len(r.Ignore) == 0
}
