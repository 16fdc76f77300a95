// README: Single-active-flow manager; one booking flow per session at a time.
package flow

import (
	"sync"

	"github.com/TaggTeeM/taggteemflagg/internal/config"
	"github.com/TaggTeeM/taggteemflagg/internal/types"
)

// Manager holds the one in-progress booking flow. Starting a new flow while
// one is active abandons the old one first, the way navigating back to the
// booking screen threw away the previous draft.
type Manager struct {
	mu      sync.Mutex
	deps    Deps
	cfg     config.FlowConfig
	current *Controller
}

func NewManager(deps Deps, cfg config.FlowConfig) *Manager {
	return &Manager{deps: deps, cfg: cfg}
}

func (m *Manager) Start(userID types.ID, fix *types.Coordinate) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		_ = m.current.Abandon()
		m.current = nil
	}
	c := New(m.deps, m.cfg, userID)
	if err := c.Start(fix); err != nil {
		c.Close()
		return nil, err
	}
	m.current = c
	return c, nil
}

func (m *Manager) Current() (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, ErrNoFlow
	}
	return m.current, nil
}

// Abandon ends the active flow, if any. Ending a flow that already reached a
// terminal stage just clears it.
func (m *Manager) Abandon() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ErrNoFlow
	}
	err := m.current.Abandon()
	m.current.Close()
	m.current = nil
	if err == ErrInvalidStage {
		return nil
	}
	return err
}
