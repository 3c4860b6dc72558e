package drill

// StateType represents the current state of the playback controller.
type StateType int

const (
	// StateIdle indicates no playback is in progress.
	StateIdle StateType = iota
	// StatePlaying indicates the first play of the current clip.
	StatePlaying
	// StateRepeating indicates a repeat play of the current clip.
	StateRepeating
)

// String returns the string representation of the state.
func (s StateType) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateRepeating:
		return "repeating"
	default:
		return "unknown"
	}
}

// StateMachine manages playback state transitions.
type StateMachine struct {
	current     StateType
	transitions map[StateType][]StateType
	onEnter     map[StateType]func()
}

// NewStateMachine creates a state machine with the valid playback
// transitions: a clip starts from idle, moves to repeating when it
// restarts for another repeat, and returns to idle on completion or stop.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		transitions: map[StateType][]StateType{
			StateIdle:      {StatePlaying},
			StatePlaying:   {StateRepeating, StateIdle},
			StateRepeating: {StateRepeating, StateIdle},
		},
		onEnter: make(map[StateType]func()),
	}
}

// Transition attempts to move to the given state and reports whether the
// transition was valid.
func (sm *StateMachine) Transition(to StateType) bool {
	valid := false
	for _, state := range sm.transitions[sm.current] {
		if state == to {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}

	sm.current = to
	if fn, ok := sm.onEnter[to]; ok && fn != nil {
		fn()
	}
	return true
}

// Current returns the current state.
func (sm *StateMachine) Current() StateType {
	return sm.current
}

// OnEnter registers a callback for entering a state.
func (sm *StateMachine) OnEnter(state StateType, fn func()) {
	sm.onEnter[state] = fn
}
