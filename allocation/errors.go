package allocation

import "errors"

var ErrInvalidCoupon = errors.New("coupon votes and eligible candidate count must not be negative")
var ErrDuplicateCandidate = errors.New("candidate id appears more than once")
var ErrNotConfirmable = errors.New("votes must be fully allocated across the eligible number of candidates")
var ErrUnknownAction = errors.New("unknown action type")
