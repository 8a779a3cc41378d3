package cart

import "sync"

// MemoryPersister 进程内持久化实现，用于测试与无数据库场景
type MemoryPersister struct {
	mu    sync.Mutex
	saved *State
}

// NewMemoryPersister 创建内存持久化器
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

// Load 返回上次保存的状态，未保存过则返回规范空购物车
func (p *MemoryPersister) Load() (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saved == nil {
		return NewState(), nil
	}
	return p.saved.Clone(), nil
}

// Save 保存状态快照
func (p *MemoryPersister) Save(state State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	clone := state.Clone()
	p.saved = &clone
	return nil
}
