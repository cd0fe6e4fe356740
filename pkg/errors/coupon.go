package errors

import "strings"

// CouponReason is the discrete classification of a coupon rejection. The
// backend carries it as a 1000-range code in the response envelope.
type CouponReason string

const (
	CouponReasonUnknown       CouponReason = ""
	CouponReasonMinimumOrder  CouponReason = "MINIMUM_ORDER_NOT_MET"
	CouponReasonAlreadyUsed   CouponReason = "ALREADY_USED"
	CouponReasonInvalid       CouponReason = "INVALID_OR_EXPIRED"
	CouponReasonNotApplicable CouponReason = "NOT_APPLICABLE"
)

// Coupon rejection codes carried in the gateway envelope.
const (
	EnvelopeCouponMinimumOrder  = 1001
	EnvelopeCouponAlreadyUsed   = 1002
	EnvelopeCouponInvalid       = 1003
	EnvelopeCouponNotApplicable = 1004
)

func (r CouponReason) UserMessage() string {
	switch r {
	case CouponReasonMinimumOrder:
		return "your order does not meet the coupon's minimum value"
	case CouponReasonAlreadyUsed:
		return "this coupon has already been used"
	case CouponReasonInvalid:
		return "this coupon is invalid or expired"
	case CouponReasonNotApplicable:
		return "this coupon cannot be applied to your cart"
	}
	return "coupon could not be applied"
}

// ClassifyCouponCode maps an envelope domain code to a reason.
func ClassifyCouponCode(code int) CouponReason {
	switch code {
	case EnvelopeCouponMinimumOrder:
		return CouponReasonMinimumOrder
	case EnvelopeCouponAlreadyUsed:
		return CouponReasonAlreadyUsed
	case EnvelopeCouponInvalid:
		return CouponReasonInvalid
	case EnvelopeCouponNotApplicable:
		return CouponReasonNotApplicable
	}
	return CouponReasonUnknown
}

// ClassifyCouponMessage is the legacy fallback for backends that send a bare
// 1000-range code with prose only. It pattern-matches the server's English
// message text. Delete once every environment sends discrete codes.
func ClassifyCouponMessage(message string) CouponReason {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "minimum order"):
		return CouponReasonMinimumOrder
	case strings.Contains(msg, "already used"):
		return CouponReasonAlreadyUsed
	case strings.Contains(msg, "expired"), strings.Contains(msg, "invalid"):
		return CouponReasonInvalid
	case strings.Contains(msg, "not applicable"), strings.Contains(msg, "cannot be applied"):
		return CouponReasonNotApplicable
	}
	return CouponReasonUnknown
}
