package models

import (
	"github.com/alex-pricope/campaign-voting/allocation"
	"github.com/alex-pricope/campaign-voting/payment"
)

type OpenCheckoutRequest struct {
	CouponID string `json:"couponId" binding:"required"`
}

type CheckoutResponse struct {
	SessionID      string                        `json:"sessionId"`
	Coupon         allocation.Coupon             `json:"coupon"`
	PaymentMethod  allocation.PaymentMethod      `json:"paymentMethod"`
	RemainingVotes int                           `json:"remainingVotes"`
	SelectedCount  int                           `json:"selectedCount"`
	CanConfirm     bool                          `json:"canConfirm"`
	Candidates     []allocation.CandidateControl `json:"candidates"`
	Outcome        *allocation.Outcome           `json:"outcome,omitempty"`
}

type ConfirmResponse struct {
	Message string          `json:"message"`
	Receipt payment.Receipt `json:"receipt"`
}

func TransformCheckoutFromState(sessionID string, s allocation.State) CheckoutResponse {
	return CheckoutResponse{
		SessionID:      sessionID,
		Coupon:         s.Coupon(),
		PaymentMethod:  s.PaymentMethod(),
		RemainingVotes: s.RemainingVotes(),
		SelectedCount:  s.SelectedCount(),
		CanConfirm:     s.CanConfirm(),
		Candidates:     s.Controls(),
	}
}
