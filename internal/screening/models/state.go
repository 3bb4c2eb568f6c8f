package models

// State is a screening request's position in the pipeline.
type State string

const (
	StateReceived            State = "RECEIVED"
	StateNormalized          State = "NORMALIZED"
	StateLanguageRouted      State = "LANGUAGE_ROUTED"
	StateHashed              State = "HASHED"
	StateCandidatesRetrieved State = "CANDIDATES_RETRIEVED"
	StateScored              State = "SCORED"
	StateDecided             State = "DECIDED"
	StateFailed              State = "FAILED"
)

var nextState = map[State]State{
	StateReceived:            StateNormalized,
	StateNormalized:          StateLanguageRouted,
	StateLanguageRouted:      StateHashed,
	StateHashed:              StateCandidatesRetrieved,
	StateCandidatesRetrieved: StateScored,
	StateScored:              StateDecided,
}

// Next returns the state that follows s, or StateFailed for terminal states.
func (s State) Next() State {
	if n, ok := nextState[s]; ok {
		return n
	}
	return StateFailed
}

func (s State) IsTerminal() bool {
	return s == StateDecided || s == StateFailed
}

// Stage is the pipeline step an error is attributed to.
type Stage string

const (
	StageRequest   Stage = "request"
	StageNormalize Stage = "normalize"
	StageLanguage  Stage = "language"
	StageHash      Stage = "hash"
	StageRetrieve  Stage = "retrieve"
	StageScore     Stage = "score"
	StageDecide    Stage = "decide"
)
