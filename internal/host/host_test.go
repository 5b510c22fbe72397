package host

import "testing"

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory("seed")
	got, err := m.GetNotes()
	if err != nil {
		t.Fatalf("GetNotes: %v", err)
	}
	if got != "seed" {
		t.Fatalf("unexpected notes: %q", got)
	}
	if err := m.SetNotes("changed"); err != nil {
		t.Fatalf("SetNotes: %v", err)
	}
	got, _ = m.GetNotes()
	if got != "changed" {
		t.Fatalf("unexpected notes after set: %q", got)
	}
}

func TestMemoryRefreshCallback(t *testing.T) {
	m := NewMemory("")
	called := 0
	m.OnRefresh(func() { called++ })
	m.Refresh()
	m.Refresh()
	if called != 2 || m.Refreshes() != 2 {
		t.Fatalf("expected 2 refreshes, got callback=%d counter=%d", called, m.Refreshes())
	}
}
