package stats

import (
	"strings"
	"testing"
)

func TestNew_RegistersDefaults(t *testing.T) {
	s := New()
	counters := s.Counters()
	if len(counters) != len(DefaultNames) {
		t.Fatalf("Counters() len = %d, want %d", len(counters), len(DefaultNames))
	}
	for i, c := range counters {
		if c.Name != DefaultNames[i] || c.Value != 0 {
			t.Errorf("Counters()[%d] = %+v, want %s=0", i, c, DefaultNames[i])
		}
	}
}

func TestAdd(t *testing.T) {
	s := New()
	s.Add(DupTitles, 2)
	s.Inc(DupTitles)
	s.Add(DupTitles, 0)
	s.Add(DupTitles, -4)

	if got := s.Get(DupTitles); got != 3 {
		t.Errorf("Get(%s) = %d, want 3", DupTitles, got)
	}
}

func TestAdd_UnknownCounterAppendsInOrder(t *testing.T) {
	s := New()
	s.Inc("custom")
	counters := s.Counters()
	last := counters[len(counters)-1]
	if last.Name != "custom" || last.Value != 1 {
		t.Errorf("last counter = %+v, want custom=1", last)
	}
}

func TestString(t *testing.T) {
	s := New()
	s.Add(DupKeys, 2)
	s.Inc("custom")
	got := s.String()
	if !strings.HasPrefix(got, CitesFound+"=0 ") {
		t.Errorf("String() = %q, want report order starting with %s", got, CitesFound)
	}
	if !strings.Contains(got, " dup_keys=2 ") || !strings.HasSuffix(got, " custom=1") {
		t.Errorf("String() = %q", got)
	}
}
