package main

import (
	"reflect"
	"testing"
)

// TestRecordWeight_AppendsNewDate: a sample on a fresh date grows the ledger
// by one.
func TestRecordWeight_AppendsNewDate(t *testing.T) {
	history := []weightSample{{Date: "2026-08-18", Weight: 80.5}}
	got := recordWeight(history, "2026-08-19", 80.0)

	want := []weightSample{
		{Date: "2026-08-18", Weight: 80.5},
		{Date: "2026-08-19", Weight: 80.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recordWeight = %v, want %v", got, want)
	}
}

// TestRecordWeight_SameDaySameValue: re-recording the current value on the
// same day changes nothing — length and value stay put.
func TestRecordWeight_SameDaySameValue(t *testing.T) {
	history := []weightSample{{Date: "2026-08-19", Weight: 80.0}}
	got := recordWeight(history, "2026-08-19", 80.0)

	if !reflect.DeepEqual(got, history) {
		t.Errorf("same-day same-value write changed the ledger: %v", got)
	}
}

// TestRecordWeight_SameDayNewValue: a corrected weight on the same day
// overwrites in place, no new entry.
func TestRecordWeight_SameDayNewValue(t *testing.T) {
	history := []weightSample{
		{Date: "2026-08-18", Weight: 80.5},
		{Date: "2026-08-19", Weight: 80.0},
	}
	got := recordWeight(history, "2026-08-19", 79.5)

	if len(got) != 2 {
		t.Fatalf("ledger length = %d, want 2", len(got))
	}
	if got[1].Weight != 79.5 {
		t.Errorf("last sample weight = %v, want 79.5", got[1].Weight)
	}
	if got[0] != history[0] {
		t.Errorf("earlier sample disturbed: %v", got[0])
	}
}

// TestRecordWeight_EmptyHistory: the first ever sample just appends.
func TestRecordWeight_EmptyHistory(t *testing.T) {
	got := recordWeight(nil, "2026-08-19", 80.0)
	want := []weightSample{{Date: "2026-08-19", Weight: 80.0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recordWeight = %v, want %v", got, want)
	}
}

// TestRecordWeight_DoesNotMutateInput: the ledger is value-semantics; callers
// hold the old slice until the new one is persisted.
func TestRecordWeight_DoesNotMutateInput(t *testing.T) {
	history := []weightSample{{Date: "2026-08-19", Weight: 80.0}}
	_ = recordWeight(history, "2026-08-19", 75.0)

	if history[0].Weight != 80.0 {
		t.Errorf("input slice mutated: %v", history)
	}
}
