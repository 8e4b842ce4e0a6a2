package xid

import "testing"

func TestShortUsesFirstEightHexUppercased(t *testing.T) {
	got := Short("3f2a9c1b-77de-4e0a-9b1c-0d5e6f7a8b9c")
	if got != "3F2A9C1B" {
		t.Fatalf("expected 3F2A9C1B, got %s", got)
	}
}

func TestShortKeepsShortIDs(t *testing.T) {
	if got := Short("ab-c"); got != "ABC" {
		t.Fatalf("expected ABC, got %s", got)
	}
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool, 64)
	for i := 0; i < 64; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestValid(t *testing.T) {
	if !Valid(New()) {
		t.Fatal("generated id should be valid")
	}
	if Valid("prod-mie-01") {
		t.Fatal("slug ids are not uuids")
	}
}
