package allocation

// Reason explains why a transition was not applied. Empty when it was.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonUnknownCandidate     Reason = "unknown_candidate"
	ReasonSelectionFull        Reason = "selection_full"
	ReasonNotSelected          Reason = "candidate_not_selected"
	ReasonNoVotesRemaining     Reason = "no_votes_remaining"
	ReasonNothingAllocated     Reason = "no_votes_allocated"
	ReasonCandidateAtZero      Reason = "candidate_has_no_votes"
	ReasonInvalidPaymentMethod Reason = "invalid_payment_method"
)

type Outcome struct {
	Applied bool   `json:"applied"`
	Reason  Reason `json:"reason,omitempty"`
}

func applied() Outcome { return Outcome{Applied: true} }
func noop(reason Reason) Outcome { return Outcome{Reason: reason} }

// State is the allocation of one coupon across candidates. It is a value:
// every transition returns a new State and leaves the receiver untouched.
type State struct {
	coupon        Coupon
	candidates    []Candidate
	index         map[string]int
	selected      []string
	votes         map[string]int
	paymentMethod PaymentMethod
}

// New builds the starting state for a coupon. The candidate slice is treated
// as read-only and is not copied; callers must not mutate it afterwards.
func New(coupon Coupon, candidates []Candidate) (State, error) {
	if coupon.Votes < 0 || coupon.EligibleCandidateCounts < 0 {
		return State{}, ErrInvalidCoupon
	}

	index := make(map[string]int, len(candidates))
	for i, c := range candidates {
		if _, ok := index[c.CandidateID]; ok {
			return State{}, ErrDuplicateCandidate
		}
		index[c.CandidateID] = i
	}

	votes := make(map[string]int)
	for i := 0; i < coupon.EligibleCandidateCounts && i < len(candidates); i++ {
		votes[candidates[i].CandidateID] = 0
	}

	return State{
		coupon:        coupon,
		candidates:    candidates,
		index:         index,
		selected:      []string{},
		votes:         votes,
		paymentMethod: PaymentEsewa,
	}, nil
}

func (s State) clone() State {
	next := s
	next.selected = append(make([]string, 0, len(s.selected)+1), s.selected...)
	next.votes = make(map[string]int, len(s.votes))
	for k, v := range s.votes {
		next.votes[k] = v
	}
	return next
}

func (s State) Coupon() Coupon { return s.coupon }
func (s State) Candidates() []Candidate { return s.candidates }
func (s State) PaymentMethod() PaymentMethod { return s.paymentMethod }
func (s State) SelectedCount() int { return len(s.selected) }
func (s State) VotesFor(candidateID string) int { return s.votes[candidateID] }

func (s State) SelectedIDs() []string {
	return append([]string(nil), s.selected...)
}

func (s State) IsSelected(candidateID string) bool {
	for _, id := range s.selected {
		if id == candidateID {
			return true
		}
	}
	return false
}

func (s State) Allocated() int {
	total := 0
	for _, v := range s.votes {
		total += v
	}
	return total
}

func (s State) RemainingVotes() int {
	return s.coupon.Votes - s.Allocated()
}

func (s State) CanConfirm() bool {
	return s.RemainingVotes() == 0 && len(s.selected) == s.coupon.EligibleCandidateCounts
}

// SelectCandidate toggles membership of the candidate in the selection.
// Deselecting hands the candidate's votes back to the remaining budget.
func (s State) SelectCandidate(candidateID string) (State, Outcome) {
	if _, ok := s.index[candidateID]; !ok {
		return s, noop(ReasonUnknownCandidate)
	}

	if s.IsSelected(candidateID) {
		next := s.clone()
		filtered := next.selected[:0]
		for _, id := range next.selected {
			if id != candidateID {
				filtered = append(filtered, id)
			}
		}
		next.selected = filtered
		if _, ok := next.votes[candidateID]; ok {
			next.votes[candidateID] = 0
		}
		return next, applied()
	}

	if len(s.selected) >= s.coupon.EligibleCandidateCounts {
		return s, noop(ReasonSelectionFull)
	}

	next := s.clone()
	next.selected = append(next.selected, candidateID)
	return next, applied()
}

func (s State) IncrementVote(candidateID string) (State, Outcome) {
	if reason := s.incrementBlocked(candidateID); reason != ReasonNone {
		return s, noop(reason)
	}
	next := s.clone()
	next.votes[candidateID]++
	return next, applied()
}

// DecrementVote removes one vote from the candidate. It is blocked when no
// votes are allocated at all, and also when this candidate's own count is
// already zero so that no count ever goes negative.
func (s State) DecrementVote(candidateID string) (State, Outcome) {
	if reason := s.decrementBlocked(candidateID); reason != ReasonNone {
		return s, noop(reason)
	}
	next := s.clone()
	next.votes[candidateID]--
	return next, applied()
}

func (s State) SetPaymentMethod(method PaymentMethod) (State, Outcome) {
	if _, ok := ValidPaymentMethods[method]; !ok {
		return s, noop(ReasonInvalidPaymentMethod)
	}
	next := s.clone()
	next.paymentMethod = method
	return next, applied()
}

func (s State) incrementBlocked(candidateID string) Reason {
	if _, ok := s.index[candidateID]; !ok {
		return ReasonUnknownCandidate
	}
	if !s.IsSelected(candidateID) {
		return ReasonNotSelected
	}
	if s.RemainingVotes() <= 0 {
		return ReasonNoVotesRemaining
	}
	return ReasonNone
}

func (s State) decrementBlocked(candidateID string) Reason {
	if _, ok := s.index[candidateID]; !ok {
		return ReasonUnknownCandidate
	}
	if !s.IsSelected(candidateID) {
		return ReasonNotSelected
	}
	if s.RemainingVotes() == s.coupon.Votes {
		return ReasonNothingAllocated
	}
	if s.votes[candidateID] <= 0 {
		return ReasonCandidateAtZero
	}
	return ReasonNone
}

// Controls lists every candidate in collection order with the enablement of
// its select, increment and decrement controls.
func (s State) Controls() []CandidateControl {
	full := len(s.selected) >= s.coupon.EligibleCandidateCounts
	controls := make([]CandidateControl, 0, len(s.candidates))
	for _, c := range s.candidates {
		selected := s.IsSelected(c.CandidateID)
		controls = append(controls, CandidateControl{
			Candidate:    c,
			Selected:     selected,
			Votes:        s.votes[c.CandidateID],
			CanSelect:    selected || !full,
			CanIncrement: s.incrementBlocked(c.CandidateID) == ReasonNone,
			CanDecrement: s.decrementBlocked(c.CandidateID) == ReasonNone,
		})
	}
	return controls
}

// ConfirmRequest builds the payload for the payment collaborator. Only
// selected candidates are listed.
func (s State) ConfirmRequest() (ConfirmRequest, error) {
	if !s.CanConfirm() {
		return ConfirmRequest{}, ErrNotConfirmable
	}
	votes := make(map[string]int, len(s.selected))
	for _, id := range s.selected {
		votes[id] = s.votes[id]
	}
	return ConfirmRequest{
		PaymentMethod:     s.paymentMethod,
		VotesPerCandidate: votes,
		Coupon:            s.coupon,
	}, nil
}
