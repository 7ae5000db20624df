package receipt

import (
	"sync"

	"dockhand/internal/core/apperror"
	"dockhand/internal/core/id"
	"dockhand/internal/domain/catalog"
	"dockhand/internal/domain/location"
)

// Manager is the registry of live composer sessions. The caches are shared
// read-only across sessions; each session owns its draft exclusively.
type Manager struct {
	mu       sync.RWMutex
	sessions map[id.ID]*Composer

	source    OrderSource
	catalog   *catalog.Cache
	hierarchy *location.Hierarchy
	gateway   Gateway
}

// NewManager creates a session manager wired to the shared caches and the
// submission gateway.
func NewManager(source OrderSource, cat *catalog.Cache, hierarchy *location.Hierarchy, gateway Gateway) *Manager {
	return &Manager{
		sessions:  make(map[id.ID]*Composer),
		source:    source,
		catalog:   cat,
		hierarchy: hierarchy,
		gateway:   gateway,
	}
}

// Create opens a new composer session and returns its id.
func (m *Manager) Create() (id.ID, *Composer) {
	sessionID := id.New()
	composer := NewComposer(m.source, m.catalog, m.hierarchy, m.gateway)

	m.mu.Lock()
	m.sessions[sessionID] = composer
	m.mu.Unlock()

	return sessionID, composer
}

// Get returns the composer for a session id.
func (m *Manager) Get(sessionID id.ID) (*Composer, error) {
	m.mu.RLock()
	composer, ok := m.sessions[sessionID]
	m.mu.RUnlock()

	if !ok {
		return nil, apperror.NewNotFound("session", sessionID.String())
	}
	return composer, nil
}

// Remove discards a session. Called on cancel and after successful submit.
func (m *Manager) Remove(sessionID id.ID) {
	m.mu.Lock()
	composer, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if ok {
		composer.Discard()
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
