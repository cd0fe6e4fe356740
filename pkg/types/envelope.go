package types

import "encoding/json"

// Envelope is the wire shape every gateway response uses, success or
// failure. Callers branch on Code, not on the HTTP status.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Envelope codes outside the coupon 1000-range.
const (
	EnvelopeOK              = 0
	EnvelopeBadRequest      = 400
	EnvelopeUnauthenticated = 401
	EnvelopeNotFound        = 404
	EnvelopeConflict        = 409
	EnvelopeInternal        = 500
)

// OK reports whether the envelope carries a successful result.
func (e Envelope) OK() bool {
	return e.Code == EnvelopeOK
}

// HasData reports whether the envelope carries a non-null payload.
func (e Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}
