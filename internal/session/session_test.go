package session

import "testing"

func TestSessionTokenLifecycle(t *testing.T) {
	t.Parallel()

	var redirected bool
	sess := New(func() { redirected = true })

	if sess.Authenticated() {
		t.Fatal("new session must be unauthenticated")
	}

	sess.SetToken("tok-1")
	if token, ok := sess.Token(); !ok || token != "tok-1" {
		t.Fatalf("unexpected token %q ok=%v", token, ok)
	}

	sess.ClearToken()
	if sess.Authenticated() {
		t.Fatal("cleared session must be unauthenticated")
	}

	sess.RequestLogin()
	if !redirected {
		t.Fatal("expected redirect signal")
	}
}

func TestSessionNilRedirectIsSafe(t *testing.T) {
	t.Parallel()

	sess := New(nil)
	sess.RequestLogin()
}
