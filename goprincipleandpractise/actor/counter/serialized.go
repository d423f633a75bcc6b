package counter

import (
	"sync"
	"sync/atomic"

	"github.com/zeromicro/go-zero/core/syncx"
)

// Mutex 互斥锁保护的计数器
type Mutex struct {
	mu    sync.Mutex
	value int64
}

func (c *Mutex) Increment() {
	c.mu.Lock()
	c.value++
	c.mu.Unlock()
}

func (c *Mutex) Value() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Barrier 用go-zero的syncx.Barrier做串行点，Guard内的代码同一时刻只有一个goroutine执行
type Barrier struct {
	barrier syncx.Barrier
	value   int64
}

func (c *Barrier) Increment() {
	c.barrier.Guard(func() {
		c.value++
	})
}

func (c *Barrier) Value() (v int64) {
	c.barrier.Guard(func() {
		v = c.value
	})
	return
}

// SpinLock 自旋锁版本，临界区极短时可以省掉goroutine挂起/唤醒
type SpinLock struct {
	lock  syncx.SpinLock
	value int64
}

func (c *SpinLock) Increment() {
	c.lock.Lock()
	c.value++
	c.lock.Unlock()
}

func (c *SpinLock) Value() int64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.value
}

// Atomic 单个机器字的原子累加，可线性化，但只适用于状态本身就是一个整数的场景
type Atomic struct {
	value atomic.Int64
}

func (c *Atomic) Increment() { c.value.Add(1) }
func (c *Atomic) Value() int64 { return c.value.Load() }
