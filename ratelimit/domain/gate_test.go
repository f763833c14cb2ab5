package domain

import (
	"testing"
	"time"
)

func TestWindow_Validate(t *testing.T) {
	if err := DefaultWindow.Validate(); err != nil {
		t.Fatalf("expected default window to be valid, got %v", err)
	}
	if err := (Window{Capacity: 0, Interval: time.Second}).Validate(); err == nil {
		t.Fatalf("expected error for zero capacity")
	}
	if err := (Window{Capacity: 5, Interval: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}
