package grading

import (
	"errors"
	"testing"
)

func TestTransitions(t *testing.T) {
	allowed := []struct{ from, to SheetStatus }{
		{StatusProcessing, StatusGraded},
		{StatusProcessing, StatusFailed},
		{StatusGraded, StatusApproved},
		{StatusFailed, StatusProcessing},
	}
	for _, c := range allowed {
		if !CanTransition(c.from, c.to) {
			t.Errorf("%s -> %s should be allowed", c.from, c.to)
		}
	}

	forbidden := []struct{ from, to SheetStatus }{
		{StatusApproved, StatusGraded},
		{StatusApproved, StatusProcessing},
		{StatusApproved, StatusApproved},
		{StatusGraded, StatusProcessing},
		{StatusGraded, StatusFailed},
		{StatusFailed, StatusGraded},
		{StatusProcessing, StatusApproved},
	}
	for _, c := range forbidden {
		if CanTransition(c.from, c.to) {
			t.Errorf("%s -> %s should be forbidden", c.from, c.to)
		}
	}
}

func TestCheckTransitionError(t *testing.T) {
	err := CheckTransition(StatusApproved, StatusProcessing)
	if err == nil {
		t.Fatal("expected error for approved -> processing")
	}
	var tErr *InvalidTransitionError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected InvalidTransitionError, got %T", err)
	}
	if tErr.From != StatusApproved || tErr.To != StatusProcessing {
		t.Errorf("unexpected error fields: %+v", tErr)
	}

	if err := CheckTransition(StatusGraded, StatusApproved); err != nil {
		t.Errorf("graded -> approved: %v", err)
	}
}

func TestTerminal(t *testing.T) {
	if !StatusApproved.Terminal() || !StatusFailed.Terminal() {
		t.Error("approved and failed are terminal")
	}
	if StatusProcessing.Terminal() || StatusGraded.Terminal() {
		t.Error("processing and graded are not terminal")
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []SheetStatus{StatusProcessing, StatusGraded, StatusApproved, StatusFailed} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if SheetStatus("archived").Valid() {
		t.Error("archived should not be valid")
	}
}
