package models

import (
	"github.com/alex-pricope/campaign-voting/allocation"
	"github.com/alex-pricope/campaign-voting/storage"
)

type CouponCreateRequest struct {
	ID                      string  `json:"id"`
	Name                    string  `json:"name" binding:"required"`
	Votes                   int     `json:"votes"`
	EligibleCandidateCounts int     `json:"eligibleCandidateCounts"`
	Pricing                 float64 `json:"pricing"`
}

type CouponUpdateRequest struct {
	Name                    string  `json:"name" binding:"required"`
	Votes                   int     `json:"votes"`
	EligibleCandidateCounts int     `json:"eligibleCandidateCounts"`
	Pricing                 float64 `json:"pricing"`
}

type CouponResponse = allocation.Coupon

func TransformCouponFromStorage(c *storage.Coupon) CouponResponse {
	return CouponResponse{
		ID:                      c.ID,
		Name:                    c.Name,
		Votes:                   c.Votes,
		EligibleCandidateCounts: c.EligibleCandidateCounts,
		Pricing:                 c.Pricing,
	}
}
