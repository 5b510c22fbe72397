package host

import "sync"

// Notes is the opaque text slot owned by the open project.
type Notes interface {
	GetNotes() (string, error)
	SetNotes(notes string) error
}

// Host is the full capability set consumed by the metadata store.
type Host interface {
	Notes
	// Refresh asks the application to redraw after a write. Hosts without a
	// UI implement it as a no-op.
	Refresh()
}

// Memory is an in-process Host backed by a string.
type Memory struct {
	mu        sync.Mutex
	notes     string
	refreshes int
	onRefresh func()
}

// NewMemory returns a Memory host seeded with notes.
func NewMemory(notes string) *Memory {
	return &Memory{notes: notes}
}

// OnRefresh registers a callback invoked on every Refresh.
func (m *Memory) OnRefresh(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRefresh = fn
}

func (m *Memory) GetNotes() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notes, nil
}

func (m *Memory) SetNotes(notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = notes
	return nil
}

func (m *Memory) Refresh() {
	m.mu.Lock()
	m.refreshes++
	fn := m.onRefresh
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Refreshes reports how many times Refresh has been called.
func (m *Memory) Refreshes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshes
}
