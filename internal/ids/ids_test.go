package ids

import (
	"testing"
	"time"
)

func TestNewIsSortable(t *testing.T) {
	a := New()
	b := New()
	if _, ok := Time(a); !ok {
		t.Fatalf("generated id does not decode: %s", a)
	}
	if a >= b {
		t.Fatalf("ids are not monotonic: %s >= %s", a, b)
	}
	if _, ok := Time("not-an-id"); ok {
		t.Fatalf("garbage decoded")
	}
}

func TestTime(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	got, ok := Time(NewAt(at))
	if !ok || !got.Equal(at) {
		t.Fatalf("Time()=%v %v, want %v", got, ok, at)
	}
	if _, ok := Time(""); ok {
		t.Fatalf("empty id decoded")
	}
}
