package allocation

type ActionType string

const (
	ActionSelect        ActionType = "select"
	ActionIncrement     ActionType = "increment"
	ActionDecrement     ActionType = "decrement"
	ActionPaymentMethod ActionType = "payment_method"
)

// Action is one user event against the allocation controls.
type Action struct {
	Type          ActionType    `json:"type"`
	CandidateID   string        `json:"candidateId,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
}

// Dispatch applies a single action. Constraint violations are reported in the
// Outcome; the error is only set for an action type it does not know.
func (s State) Dispatch(action Action) (State, Outcome, error) {
	var next State
	var outcome Outcome

	switch action.Type {
	case ActionSelect:
		next, outcome = s.SelectCandidate(action.CandidateID)
	case ActionIncrement:
		next, outcome = s.IncrementVote(action.CandidateID)
	case ActionDecrement:
		next, outcome = s.DecrementVote(action.CandidateID)
	case ActionPaymentMethod:
		next, outcome = s.SetPaymentMethod(action.PaymentMethod)
	default:
		return s, Outcome{}, ErrUnknownAction
	}

	return next, outcome, nil
}

// Replay folds a sequence of actions over the state, skipping no-ops.
func (s State) Replay(actions ...Action) (State, error) {
	for _, a := range actions {
		next, _, err := s.Dispatch(a)
		if err != nil {
			return s, err
		}
		s = next
	}
	return s, nil
}
