package allocation

type PaymentMethod string

const (
	PaymentEsewa  PaymentMethod = "ESEWA"
	PaymentStripe PaymentMethod = "STRIPE"
)

var ValidPaymentMethods = map[PaymentMethod]string{
	PaymentEsewa:  "eSewa",
	PaymentStripe: "Stripe",
}

// Coupon is a purchasable bundle: a fixed vote budget spread across at most
// EligibleCandidateCounts candidates.
type Coupon struct {
	ID                      string  `json:"id"`
	Name                    string  `json:"name"`
	Votes                   int     `json:"votes"`
	EligibleCandidateCounts int     `json:"eligibleCandidateCounts"`
	Pricing                 float64 `json:"pricing"`
}

type Profile struct {
	Name           string `json:"name"`
	Nationality    string `json:"nationality"`
	ProfilePicture string `json:"profilePicture"`
}

type Candidate struct {
	CandidateID string  `json:"candidateId"`
	Candidate   Profile `json:"candidate"`
}

// ConfirmRequest is what gets forwarded to the payment collaborator.
// IdempotencyKey travels as a header, not in the body, and must stay the
// same across retries of one checkout.
type ConfirmRequest struct {
	PaymentMethod     PaymentMethod  `json:"paymentMethod"`
	VotesPerCandidate map[string]int `json:"votesPerCandidate"`
	Coupon            Coupon         `json:"coupon"`
	IdempotencyKey    string         `json:"-"`
}

// CandidateControl is the per-row enablement of the allocation controls.
type CandidateControl struct {
	Candidate
	Selected     bool `json:"selected"`
	Votes        int  `json:"votes"`
	CanSelect    bool `json:"canSelect"`
	CanIncrement bool `json:"canIncrement"`
	CanDecrement bool `json:"canDecrement"`
}
