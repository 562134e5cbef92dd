package api

import (
	"testing"
	"time"
)

func TestPendingCodeMatches(t *testing.T) {
	p := NewPendingCode("483920", time.Now().Add(5*time.Minute))

	if !p.Matches("483920") {
		t.Error("expected matching code to verify")
	}
	if p.Matches("483921") {
		t.Error("expected mismatched code to fail")
	}
	if p.Matches("") {
		t.Error("expected empty code to fail")
	}
}

func TestPendingCodeNil(t *testing.T) {
	var p *PendingCode

	if p.Matches("483920") {
		t.Error("nil pending code must never match")
	}
	if !p.Expired(time.Now()) {
		t.Error("nil pending code must always be expired")
	}
}

func TestPendingCodeExpired(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewPendingCode("483920", expiry)

	if p.Expired(expiry.Add(-time.Second)) {
		t.Error("code should be valid before expiry")
	}
	if !p.Expired(expiry) {
		t.Error("code should be expired exactly at expiry")
	}
	if !p.Expired(expiry.Add(time.Second)) {
		t.Error("code should be expired after expiry")
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAttorney, RoleParalegal, RolePartner, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("role %q should be valid", r)
		}
	}
	if Role("Intern").Valid() {
		t.Error("unknown role should be invalid")
	}
	if Role("").Valid() {
		t.Error("empty role should be invalid")
	}
}

func TestStatusValidation(t *testing.T) {
	if !CaseInProgress.Valid() || CaseStatus("Archived").Valid() {
		t.Error("case status validation broken")
	}
	if !TaskOnHold.Valid() || TaskStatus("Done").Valid() {
		t.Error("task status validation broken")
	}
	if !InvoiceOverdue.Valid() || InvoiceStatus("Void").Valid() {
		t.Error("invoice status validation broken")
	}
	if !PriorityHigh.Valid() || Priority("Urgent").Valid() {
		t.Error("priority validation broken")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("NewID returned empty string")
		}
		if seen[id] {
			t.Fatalf("NewID returned duplicate %q", id)
		}
		seen[id] = true
	}
}
