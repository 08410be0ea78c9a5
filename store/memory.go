package store

import (
	"slices"
	"sync"

	"github.com/signadot/go-dyn/ir"
)

// Memory is a store held in memory.  It is safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	vals map[string]*ir.Node
}

func NewMemory() *Memory {
	return &Memory{vals: map[string]*ir.Node{}}
}

func (m *Memory) Get(key string) (any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.vals[key]
	if !ok {
		return nil, false, nil
	}
	return n.Clone(), true, nil
}

// Set stores v under key.  A nil v removes key.
func (m *Memory) Set(key string, v any) error {
	if v == nil {
		m.mu.Lock()
		delete(m.vals, key)
		m.mu.Unlock()
		return nil
	}
	n, err := toNode(key, v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vals == nil {
		m.vals = map[string]*ir.Node{}
	}
	m.vals[key] = n.Clone()
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]string, 0, len(m.vals))
	for k := range m.vals {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}
