package domain

import "testing"

func TestSessionIDExtraction(t *testing.T) {
	cases := []struct {
		name string
		msg  Message
		want SessionID
		ok   bool
	}{
		{"client prompt", NewFromClient(SessionPrompt{SessionID: "s-1"}), "s-1", true},
		{"client cancel", NewFromClient(SessionCancel{SessionID: "s-2"}), "s-2", true},
		{"agent new result", NewFromAgent(SessionNewResult{SessionID: "s-3"}), "s-3", true},
		{"agent update", NewFromAgent(SessionUpdate{SessionID: "s-4"}), "s-4", true},
		{"initialize carries none", NewFromClient(Initialize{}), "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.msg.SessionID()
			if ok != tc.ok || got != tc.want {
				t.Fatalf("SessionID() = (%q, %v), want (%q, %v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestMessageName(t *testing.T) {
	if NewFromClient(Initialize{}).Name() != "Initialize" {
		t.Fatalf("expected Initialize")
	}
	if NewFromAgent(RequestPermission{}).Name() != "RequestPermission" {
		t.Fatalf("expected RequestPermission")
	}
}

func TestStopReasonValid(t *testing.T) {
	for _, r := range []StopReason{StopEndTurn, StopMaxTokens, StopMaxTurnRequests, StopRefusal, StopCancelled} {
		if !r.Valid() {
			t.Fatalf("expected %q to be valid", r)
		}
	}
	if StopReason("bogus").Valid() {
		t.Fatalf("expected bogus stop reason to be invalid")
	}
}

func TestUnknownUpdateVariantName(t *testing.T) {
	u := UnknownUpdate{Name: "custom_thing"}
	if u.variantName() != "custom_thing" {
		t.Fatalf("expected variant name to roundtrip")
	}
}
