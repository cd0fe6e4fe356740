package errors

import (
	"errors"
	"fmt"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	CouponReason CouponReason `json:"coupon_reason,omitempty"`
	EnvelopeCode int          `json:"envelope_code,omitempty"`
}

// envelopeCoder is implemented by gateway errors that carry the raw
// numeric code from the response envelope.
type envelopeCoder interface {
	EnvelopeCode() int
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
		d.CouponReason = te.Reason()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
		if ec, ok := e.(envelopeCoder); ok && d.EnvelopeCode == 0 {
			d.EnvelopeCode = ec.EnvelopeCode()
		}
	}

	return d
}
