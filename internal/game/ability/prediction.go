package ability

// PredictionKey correlates one speculative client-side activation with its
// authoritative outcome. Keys are monotonically increasing per component
// (session); zero is the invalid key and marks non-speculative work.
// A key is resolved exactly once, to confirmed or rejected.
type PredictionKey uint32

// Valid reports whether the key marks in-flight speculative work.
func (k PredictionKey) Valid() bool { return k != 0 }

// keySource hands out prediction keys for one component.
type keySource struct {
	next PredictionKey
}

func (s *keySource) Next() PredictionKey {
	s.next++
	if s.next == 0 {
		s.next = 1
	}
	return s.next
}

// ActivationResult is the authoritative answer to an activation request.
type ActivationResult struct {
	Accepted bool
	Key      PredictionKey
}

// AuthorityBridge forwards an activation request to the authoritative side.
// Transport is out of scope: implementations range from a loopback call in
// the same process to an RPC. The bridge reports only the request/response
// shape; the caller applies the local state transitions.
type AuthorityBridge interface {
	RequestActivate(handle AbilityHandle, key PredictionKey) ActivationResult
}

// LoopbackBridge routes activation requests straight into a server-side
// component in the same process. Used by single-process worlds and tests.
type LoopbackBridge struct {
	Server *Component
}

// RequestActivate re-runs gating and commit on the server component.
func (b *LoopbackBridge) RequestActivate(handle AbilityHandle, key PredictionKey) ActivationResult {
	if b.Server == nil {
		return ActivationResult{Accepted: false, Key: key}
	}
	return b.Server.HandleActivateRequest(handle, key)
}
