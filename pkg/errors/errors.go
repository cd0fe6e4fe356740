package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodePrecondition    Code = "PRECONDITION_FAILED"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeBusiness        Code = "BUSINESS_REJECTED"
	CodeLineBusy        Code = "LINE_BUSY"
	CodeNotFound        Code = "NOT_FOUND"
	CodeTransport       Code = "TRANSPORT_ERROR"
	CodeGateway         Code = "GATEWAY_ERROR"
	CodeInternal        Code = "INTERNAL_ERROR"
)

type Metadata struct {
	Retryable      bool
	LoginRedirect  bool
	UserMessage    string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodePrecondition: {
		Retryable:      false,
		UserMessage:    "that action cannot be performed right now",
		DetailsAllowed: true,
	},
	CodeUnauthenticated: {
		Retryable:     false,
		LoginRedirect: true,
		UserMessage:   "please sign in to continue",
	},
	CodeBusiness: {
		Retryable:      false,
		UserMessage:    "the request was rejected",
		DetailsAllowed: true,
	},
	CodeLineBusy: {
		Retryable:   true,
		UserMessage: "that item is still updating, try again in a moment",
	},
	CodeNotFound: {
		Retryable:   false,
		UserMessage: "resource not found",
	},
	CodeTransport: {
		Retryable:   true,
		UserMessage: "connection problem, please try again",
	},
	CodeGateway: {
		Retryable:      true,
		UserMessage:    "the store is having trouble, please try again",
		DetailsAllowed: true,
	},
	CodeInternal: {
		Retryable:   true,
		UserMessage: "something went wrong",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	reason  CouponReason
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

// Reason returns the coupon rejection reason, if one was classified.
func (e *Error) Reason() CouponReason {
	if e == nil {
		return CouponReasonUnknown
	}
	return e.reason
}

func (e *Error) WithReason(reason CouponReason) *Error {
	if e == nil {
		return nil
	}
	e.reason = reason
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// UserMessage resolves the notification text shown for err: classified
// coupon rejections and business errors keep their own message, everything
// else falls back to the code's generic text.
func UserMessage(err error) string {
	typed := As(err)
	if typed == nil {
		return MetadataFor(CodeInternal).UserMessage
	}
	meta := MetadataFor(typed.Code())
	switch typed.Code() {
	case CodeBusiness, CodePrecondition, CodeNotFound:
		if typed.reason != CouponReasonUnknown {
			return typed.reason.UserMessage()
		}
		if m := typed.Message(); m != "" {
			return m
		}
	}
	return meta.UserMessage
}
