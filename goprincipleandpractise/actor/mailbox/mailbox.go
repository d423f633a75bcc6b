// Package mailbox 用"一个goroutine + 一个channel"实现actor隔离：
// 状态只归属于owner goroutine，其他goroutine只能投递消息，由owner按FIFO顺序逐个执行，
// 所以被隔离的状态不需要再加锁。
//
// 注意：
//   - 不要在job里对同一个actor调用Do/Ask/Stop，owner goroutine会等待自己，造成死锁。
//   - Do在ctx结束时会提前返回，但已经入队的job仍然会被执行。
package mailbox

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	"github.com/zeromicro/go-zero/core/logx"
)

// DefaultCapacity 默认邮箱容量
const DefaultCapacity = 1024

var (
	// ErrStopped actor已停止，不再接收新消息
	ErrStopped = errors.New("mailbox: actor stopped")
	// ErrJobPanicked job执行过程中panic，actor本身继续运行
	ErrJobPanicked = errors.New("mailbox: job panicked")
)

type options struct {
	name     string
	capacity int
}

// Option 配置actor
type Option func(*options)

// WithName 设置actor名称，仅用于日志
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithCapacity 设置邮箱容量，0表示无缓冲邮箱（投递方与owner直接交接）
func WithCapacity(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.capacity = n
		}
	}
}

type job[S any] struct {
	fn   func(*S)
	done chan error // Tell投递的job为nil
}

// Actor 独占一份类型为S的状态，所有对状态的访问都在owner goroutine上串行执行
type Actor[S any] struct {
	name  string
	state S

	mu      sync.RWMutex // 保护stopped与close(jobs)的先后关系
	stopped bool
	jobs    chan job[S]
	done    chan struct{}
}

// New 创建actor并启动owner goroutine
func New[S any](state S, opts ...Option) *Actor[S] {
	o := options{name: "actor", capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}

	a := &Actor[S]{
		name:  o.name,
		state: state,
		jobs:  make(chan job[S], o.capacity),
		done:  make(chan struct{}),
	}
	go a.loop()
	return a
}

// Do 投递fn并等待其在owner goroutine上执行完毕
func (a *Actor[S]) Do(ctx context.Context, fn func(*S)) error {
	done := make(chan error, 1)
	if err := a.enqueue(ctx, job[S]{fn: fn, done: done}); err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tell 只投递不等待，邮箱满时阻塞
func (a *Actor[S]) Tell(fn func(*S)) error {
	return a.enqueue(context.Background(), job[S]{fn: fn})
}

// Ask 在actor上执行fn并取回结果
func Ask[S, R any](ctx context.Context, a *Actor[S], fn func(*S) R) (R, error) {
	var r R
	if err := a.Do(ctx, func(s *S) { r = fn(s) }); err != nil {
		var zero R
		return zero, err
	}
	return r, nil
}

// Stop 停止接收新消息，等已入队的消息处理完后返回。可重复调用。
func (a *Actor[S]) Stop() {
	a.mu.Lock()
	if !a.stopped {
		a.stopped = true
		close(a.jobs)
	}
	a.mu.Unlock()

	<-a.done
}

// Done owner goroutine退出后关闭
func (a *Actor[S]) Done() <-chan struct{} {
	return a.done
}

func (a *Actor[S]) enqueue(ctx context.Context, j job[S]) error {
	// 持有读锁期间jobs不会被close，send不会panic
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.stopped {
		return ErrStopped
	}

	select {
	case a.jobs <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Actor[S]) loop() {
	defer close(a.done)

	for j := range a.jobs {
		err := a.run(j.fn)
		if j.done != nil {
			j.done <- err
		}
	}
}

func (a *Actor[S]) run(fn func(*S)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("mailbox %s: job panicked: %v\n%s", a.name, r, debug.Stack())
			err = ErrJobPanicked
		}
	}()

	fn(&a.state)
	return nil
}
