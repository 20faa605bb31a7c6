// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wizard

import (
	"strings"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLinearFlow(t *testing.T) {
	w := New()
	if w.Step != StepDestination {
		t.Fatalf("new wizard step = %q, want %q", w.Step, StepDestination)
	}

	if err := w.SetDestination("Dubai Marina"); err != nil {
		t.Fatalf("SetDestination: %v", err)
	}
	if w.Step != StepDates {
		t.Fatalf("step after destination = %q, want %q", w.Step, StepDates)
	}

	if _, err := w.SetCheckIn(day("2026-09-10")); err != nil {
		t.Fatalf("SetCheckIn: %v", err)
	}
	if err := w.SetCheckOut(day("2026-09-14")); err != nil {
		t.Fatalf("SetCheckOut: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next from dates: %v", err)
	}

	if err := w.SetGuests(2, 1); err != nil {
		t.Fatalf("SetGuests: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next from guests: %v", err)
	}
	if w.Step != StepDone {
		t.Fatalf("final step = %q, want %q", w.Step, StepDone)
	}

	u, err := w.ListingsURL()
	if err != nil {
		t.Fatalf("ListingsURL: %v", err)
	}
	for _, part := range []string{
		"area=Dubai+Marina",
		"check_in=2026-09-10",
		"check_out=2026-09-14",
		"adults=2",
		"children=1",
	} {
		if !strings.Contains(u, part) {
			t.Errorf("ListingsURL %q missing %q", u, part)
		}
	}
	if !strings.HasPrefix(u, "/properties?") {
		t.Errorf("ListingsURL %q should target /properties", u)
	}
}

func TestCheckInAfterCheckOutAdvancesCheckOut(t *testing.T) {
	w := New()
	if err := w.SetDestination("Downtown"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.SetCheckIn(day("2026-09-10")); err != nil {
		t.Fatal(err)
	}
	if err := w.SetCheckOut(day("2026-09-12")); err != nil {
		t.Fatal(err)
	}

	// Picking a later check-in pushes check-out to the next day and asks
	// the client to focus the check-out control.
	focus, err := w.SetCheckIn(day("2026-09-15"))
	if err != nil {
		t.Fatalf("SetCheckIn: %v", err)
	}
	if focus != FocusCheckOut {
		t.Errorf("focus = %q, want %q", focus, FocusCheckOut)
	}
	if got := w.CheckOut.Format(DateLayout); got != "2026-09-16" {
		t.Errorf("check-out after auto-advance = %s, want 2026-09-16", got)
	}
}

func TestCheckOutMustFollowCheckIn(t *testing.T) {
	w := New()
	if err := w.SetDestination("JBR"); err != nil {
		t.Fatal(err)
	}
	if err := w.SetCheckOut(day("2026-09-12")); err == nil {
		t.Error("SetCheckOut without check-in should fail")
	}
	if _, err := w.SetCheckIn(day("2026-09-10")); err != nil {
		t.Fatal(err)
	}
	if err := w.SetCheckOut(day("2026-09-10")); err == nil {
		t.Error("same-day check-out should fail")
	}
	if err := w.SetCheckOut(day("2026-09-09")); err == nil {
		t.Error("check-out before check-in should fail")
	}
}

func TestNoSkipping(t *testing.T) {
	w := New()

	if err := w.SetGuests(2, 0); err == nil {
		t.Error("SetGuests in destination step should fail")
	}
	if _, err := w.SetCheckIn(day("2026-09-10")); err == nil {
		t.Error("SetCheckIn in destination step should fail")
	}
	if _, err := w.ListingsURL(); err == nil {
		t.Error("ListingsURL before completion should fail")
	}

	if err := w.SetDestination("Marina"); err != nil {
		t.Fatal(err)
	}
	if err := w.Next(); err == nil {
		t.Error("Next without dates should fail")
	}
}

func TestBack(t *testing.T) {
	w := New()
	if err := w.SetDestination("Marina"); err != nil {
		t.Fatal(err)
	}
	w.Back()
	if w.Step != StepDestination {
		t.Fatalf("step after Back = %q, want %q", w.Step, StepDestination)
	}
	// Back at the first step stays put.
	w.Back()
	if w.Step != StepDestination {
		t.Fatalf("step after second Back = %q, want %q", w.Step, StepDestination)
	}
	// Earlier input survives going back and forward again.
	if w.Area != "Marina" {
		t.Errorf("area lost after Back: %q", w.Area)
	}
}

func TestGuestValidation(t *testing.T) {
	w := New()
	if err := w.SetDestination("Marina"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.SetCheckIn(day("2026-09-10")); err != nil {
		t.Fatal(err)
	}
	if err := w.SetCheckOut(day("2026-09-12")); err != nil {
		t.Fatal(err)
	}
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}

	if err := w.SetGuests(0, 0); err == nil {
		t.Error("zero adults should fail")
	}
	if err := w.SetGuests(2, -1); err == nil {
		t.Error("negative children should fail")
	}
}
