package errors

import (
	stdErrors "errors"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		userMsg   string
		retryable bool
		redirect  bool
		detailsOK bool
	}{
		{code: CodePrecondition, userMsg: "that action cannot be performed right now", detailsOK: true},
		{code: CodeUnauthenticated, userMsg: "please sign in to continue", redirect: true},
		{code: CodeBusiness, userMsg: "the request was rejected", detailsOK: true},
		{code: CodeLineBusy, userMsg: "that item is still updating, try again in a moment", retryable: true},
		{code: CodeNotFound, userMsg: "resource not found"},
		{code: CodeTransport, userMsg: "connection problem, please try again", retryable: true},
		{code: CodeGateway, userMsg: "the store is having trouble, please try again", retryable: true, detailsOK: true},
		{code: CodeInternal, userMsg: "something went wrong", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.UserMessage != tt.userMsg {
			t.Fatalf("code %s expected user message %q got %q", tt.code, tt.userMsg, meta.UserMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.LoginRedirect != tt.redirect {
			t.Fatalf("code %s expected redirect %v got %v", tt.code, tt.redirect, meta.LoginRedirect)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.UserMessage != "something went wrong" {
		t.Fatalf("expected internal fallback, got %q", meta.UserMessage)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodePrecondition, "missing variant")
	if base.Code() != CodePrecondition {
		t.Fatalf("expected precondition code, got %s", base.Code())
	}
	if base.Message() != "missing variant" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeTransport, cause, "request failed")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("wrapped error should unwrap to cause")
	}
	if As(wrapped) == nil {
		t.Fatalf("As should find the typed error")
	}

	if Wrap(CodeTransport, nil, "no cause").Unwrap() != nil {
		t.Fatalf("wrapping nil should not fabricate a cause")
	}
}

func TestUserMessagePrefersCouponReason(t *testing.T) {
	err := New(CodeBusiness, "coupon rejected").WithReason(CouponReasonMinimumOrder)
	if got := UserMessage(err); got != "your order does not meet the coupon's minimum value" {
		t.Fatalf("unexpected user message %q", got)
	}

	plain := New(CodeBusiness, "variant out of stock")
	if got := UserMessage(plain); got != "variant out of stock" {
		t.Fatalf("business message should pass through, got %q", got)
	}

	if got := UserMessage(stdErrors.New("untyped")); got != "something went wrong" {
		t.Fatalf("untyped errors should get the generic message, got %q", got)
	}
}

func TestClassifyCoupon(t *testing.T) {
	if ClassifyCouponCode(EnvelopeCouponAlreadyUsed) != CouponReasonAlreadyUsed {
		t.Fatal("expected already-used reason")
	}
	if ClassifyCouponCode(999) != CouponReasonUnknown {
		t.Fatal("out-of-range codes must stay unknown")
	}
	if ClassifyCouponMessage("Cart is below the Minimum Order value") != CouponReasonMinimumOrder {
		t.Fatal("message fallback should match minimum order")
	}
	if ClassifyCouponMessage("Coupon EXPIRED last week") != CouponReasonInvalid {
		t.Fatal("message fallback should match expired")
	}
	if ClassifyCouponMessage("totally unrelated") != CouponReasonUnknown {
		t.Fatal("unmatched prose must stay unknown")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("tcp reset")
	err := Wrap(CodeTransport, cause, "get cart")
	dump := Dump(err)
	if dump.Code != CodeTransport {
		t.Fatalf("expected transport code, got %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected chain to include cause, got %v", dump.Chain)
	}
	if Dump(nil).TopMessage != "" {
		t.Fatal("nil dump should be empty")
	}
}
