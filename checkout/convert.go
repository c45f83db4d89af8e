package checkout

import (
	"github.com/alex-pricope/campaign-voting/allocation"
	"github.com/alex-pricope/campaign-voting/storage"
)

func ToCoupon(c *storage.Coupon) allocation.Coupon {
	return allocation.Coupon{
		ID:                      c.ID,
		Name:                    c.Name,
		Votes:                   c.Votes,
		EligibleCandidateCounts: c.EligibleCandidateCounts,
		Pricing:                 c.Pricing,
	}
}

func ToCandidates(stored []*storage.Candidate) []allocation.Candidate {
	candidates := make([]allocation.Candidate, 0, len(stored))
	for _, c := range stored {
		candidates = append(candidates, allocation.Candidate{
			CandidateID: c.ID,
			Candidate: allocation.Profile{
				Name:           c.Name,
				Nationality:    c.Nationality,
				ProfilePicture: c.ProfilePicture,
			},
		})
	}
	return candidates
}
