package types

import (
	"encoding/json"
	"testing"
)

func TestEnvelopeDecode(t *testing.T) {
	raw := []byte(`{"code":0,"message":"ok","data":{"totalItemCount":2}}`)
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !env.OK() {
		t.Fatal("expected OK envelope")
	}
	if !env.HasData() {
		t.Fatal("expected data payload")
	}
}

func TestEnvelopeNullData(t *testing.T) {
	raw := []byte(`{"code":404,"message":"cart not found","data":null}`)
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.OK() {
		t.Fatal("expected failure envelope")
	}
	if env.HasData() {
		t.Fatal("null data must not count as a payload")
	}
}
