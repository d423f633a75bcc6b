package journal

import (
	"context"
	"sync"

	"github.com/zeromicro/go-zero/core/syncx"
)

// Store 按目录缓存索引，同一目录的并发加载只执行一次
type Store struct {
	flight syncx.SingleFlight

	mu    sync.Mutex
	cache map[string]*Index
}

// NewStore 创建Store
func NewStore() *Store {
	return &Store{
		flight: syncx.NewSingleFlight(),
		cache:  make(map[string]*Index),
	}
}

// Index 返回dir的索引，没有缓存时加载
func (s *Store) Index(ctx context.Context, dir string) (*Index, error) {
	s.mu.Lock()
	ix, ok := s.cache[dir]
	s.mu.Unlock()
	if ok {
		return ix, nil
	}

	v, err := s.flight.Do(dir, func() (any, error) {
		// 合并进来的调用方共享这次加载，不能被第一个调用方的取消带走
		ix, err := Load(context.WithoutCancel(ctx), dir)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[dir] = ix
		s.mu.Unlock()
		return ix, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

// Invalidate 丢弃dir的缓存，下次Index重新加载
func (s *Store) Invalidate(dir string) {
	s.mu.Lock()
	delete(s.cache, dir)
	s.mu.Unlock()
}
