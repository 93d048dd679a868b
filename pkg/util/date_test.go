package util

import (
	"testing"
	"time"
)

func TestParseDateCalendar(t *testing.T) {
	got, ok := ParseDate("2023-04-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseDateRFC3339(t *testing.T) {
	got, ok := ParseDate("2023-04-10T15:04:05Z")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestParseDateInvalid(t *testing.T) {
	if _, ok := ParseDate("10/04/2023"); ok {
		t.Fatalf("expected failure")
	}
	if _, ok := ParseDate(""); ok {
		t.Fatalf("expected failure on empty")
	}
}

func TestParseDateDefault(t *testing.T) {
	def := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	got := ParseDateDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestFormatDate(t *testing.T) {
	got := FormatDate(time.Date(2023, 4, 10, 13, 0, 0, 0, time.UTC))
	if got != "2023-04-10" {
		t.Fatalf("unexpected format %q", got)
	}
}
