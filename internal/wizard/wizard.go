// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package wizard implements the customer search flow: a linear state
// machine stepping through destination, dates and guests before encoding
// the accumulated parameters into a listings URL. There is no skipping
// and no branching; cancelling discards all in-progress state.
package wizard

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Step identifies one wizard state.
type Step string

// Wizard steps, in order.
const (
	StepDestination Step = "destination"
	StepDates       Step = "dates"
	StepGuests      Step = "guests"
	StepDone        Step = "done"
)

var stepOrder = []Step{StepDestination, StepDates, StepGuests, StepDone}

// Focus hints tell the client which control should receive focus next.
const (
	FocusCheckIn  = "check_in"
	FocusCheckOut = "check_out"
)

// DateLayout is the wire format for wizard dates.
const DateLayout = "2006-01-02"

// Wizard holds the accumulated search parameters and the current step.
type Wizard struct {
	Step     Step       `json:"step"`
	Area     string     `json:"area"`
	CheckIn  *time.Time `json:"check_in,omitempty"`
	CheckOut *time.Time `json:"check_out,omitempty"`
	Adults   int        `json:"adults"`
	Children int        `json:"children"`
}

// New starts a wizard at the destination step.
func New() *Wizard {
	return &Wizard{Step: StepDestination, Adults: 1}
}

// SetDestination records the area and advances to the dates step.
func (w *Wizard) SetDestination(area string) error {
	if w.Step != StepDestination {
		return fmt.Errorf("destination not editable in step %q", w.Step)
	}
	if area == "" {
		return fmt.Errorf("destination is required")
	}
	w.Area = area
	w.Step = StepDates
	return nil
}

// SetCheckIn records the check-in date. Picking a check-in on or after the
// current check-out auto-advances check-out to the next day; the returned
// focus hint then points at the check-out control.
func (w *Wizard) SetCheckIn(day time.Time) (focus string, err error) {
	if w.Step != StepDates {
		return "", fmt.Errorf("dates not editable in step %q", w.Step)
	}
	day = truncate(day)
	w.CheckIn = &day

	if w.CheckOut != nil && !day.Before(*w.CheckOut) {
		next := day.AddDate(0, 0, 1)
		w.CheckOut = &next
	}
	return FocusCheckOut, nil
}

// SetCheckOut records the check-out date; it must fall after check-in.
func (w *Wizard) SetCheckOut(day time.Time) error {
	if w.Step != StepDates {
		return fmt.Errorf("dates not editable in step %q", w.Step)
	}
	if w.CheckIn == nil {
		return fmt.Errorf("check-in must be picked first")
	}
	day = truncate(day)
	if !day.After(*w.CheckIn) {
		return fmt.Errorf("check-out must be after check-in")
	}
	w.CheckOut = &day
	return nil
}

// Next advances to the following step. The dates step requires both dates;
// leaving the guests step requires at least one adult.
func (w *Wizard) Next() error {
	switch w.Step {
	case StepDestination:
		return fmt.Errorf("use SetDestination to leave the destination step")
	case StepDates:
		if w.CheckIn == nil || w.CheckOut == nil {
			return fmt.Errorf("both dates are required")
		}
		w.Step = StepGuests
		return nil
	case StepGuests:
		if w.Adults < 1 {
			return fmt.Errorf("at least one adult is required")
		}
		w.Step = StepDone
		return nil
	default:
		return fmt.Errorf("cannot advance from step %q", w.Step)
	}
}

// Back moves to the previous step. Going back from destination is a no-op.
func (w *Wizard) Back() {
	for i, s := range stepOrder {
		if s == w.Step && i > 0 {
			w.Step = stepOrder[i-1]
			return
		}
	}
}

// SetGuests records the party size.
func (w *Wizard) SetGuests(adults, children int) error {
	if w.Step != StepGuests {
		return fmt.Errorf("guests not editable in step %q", w.Step)
	}
	if adults < 1 {
		return fmt.Errorf("at least one adult is required")
	}
	if children < 0 {
		return fmt.Errorf("children cannot be negative")
	}
	w.Adults = adults
	w.Children = children
	return nil
}

// ListingsURL encodes the accumulated parameters into the listings page
// query string. Only valid once every step has been completed.
func (w *Wizard) ListingsURL() (string, error) {
	if w.Step != StepDone {
		return "", fmt.Errorf("wizard not complete: in step %q", w.Step)
	}

	params := url.Values{}
	params.Set("area", w.Area)
	params.Set("check_in", w.CheckIn.Format(DateLayout))
	params.Set("check_out", w.CheckOut.Format(DateLayout))
	params.Set("adults", strconv.Itoa(w.Adults))
	params.Set("children", strconv.Itoa(w.Children))

	return "/properties?" + params.Encode(), nil
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
