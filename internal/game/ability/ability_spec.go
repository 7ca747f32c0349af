package ability

// AbilityHandle addresses one granted ability spec across the authority
// bridge. Handles are allocated by the granting component and are stable
// for the lifetime of the grant. Client and server grant abilities in the
// same order, so handles line up on both sides.
type AbilityHandle int32

// AbilitySpec is one granted ability on one component: the definition, the
// grant level, activation state, and the live behavior instance dictated by
// the instancing policy.
type AbilitySpec struct {
	Def    *AbilityDefinition
	Handle AbilityHandle
	Level  int32

	// Active is true from successful dispatch until End or Cancel.
	Active bool
	// ending blocks re-activation while the ability winds down.
	ending bool

	owner *Component

	// instance is the per-actor instance (InstancedPerActor) or the shared
	// one (NonInstanced). Per-execution instances live in current only.
	instance Ability
	// current is the instance of the in-flight activation.
	current Ability

	// activeKey is the prediction key of the in-flight speculative
	// activation, zero otherwise.
	activeKey PredictionKey

	tasks []*WaitTask
}

// Owner returns the granting component.
func (s *AbilitySpec) Owner() *Component { return s.owner }

// Instance returns the behavior instance of the current or most recent
// activation, or nil.
func (s *AbilitySpec) Instance() Ability { return s.current }

// StartTask registers a tick-driven wait task scoped to this spec. The
// task is advanced by the owner's tick and dropped when it fires or when
// the ability is cancelled.
func (s *AbilitySpec) StartTask(delay float64, fn func()) *WaitTask {
	t := &WaitTask{remaining: delay, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// End marks a normal completion of the current activation.
func (s *AbilitySpec) End() {
	s.Active = false
	s.ending = false
	s.current = nil
	s.activeKey = 0
	s.tasks = s.tasks[:0]
}

// cancel force-stops the in-flight activation, notifying the behavior
// instance first.
func (s *AbilitySpec) cancel() {
	if !s.Active {
		return
	}
	s.ending = true
	if s.current != nil {
		s.current.Cancel(s.owner, s)
	}
	s.End()
}

// advanceTasks ticks wait tasks, firing and dropping elapsed ones.
// Index-based so a fired callback may start new tasks safely.
func (s *AbilitySpec) advanceTasks(dt float64) {
	n := 0
	for i := 0; i < len(s.tasks); i++ {
		t := s.tasks[i]
		if t.advance(dt) {
			s.tasks[n] = t
			n++
		}
	}
	s.tasks = s.tasks[:n]
}

// WaitTask is a minimal tick-driven delay: after remaining seconds of
// component ticks, fn runs once. Abilities use it to span ticks without
// goroutines, keeping the simulation single-threaded.
type WaitTask struct {
	remaining float64
	fn        func()
	done      bool
}

// advance returns false once the task has fired or been cancelled.
func (t *WaitTask) advance(dt float64) bool {
	if t.done {
		return false
	}
	t.remaining -= dt
	if t.remaining <= 0 {
		t.done = true
		if t.fn != nil {
			t.fn()
		}
		return false
	}
	return true
}

// Cancel drops the task without firing it.
func (t *WaitTask) Cancel() {
	t.done = true
	t.fn = nil
}
