// Package counter 同一个计数器的多种写法：一个不做任何同步的对照组，
// 其余都把每次访问收敛到一个串行域（互斥锁、actor邮箱、全局actor……）。
//
// 对照实验见 scenario 包：N个worker各自累加M次，最后比较期望值N*M与实际值。
package counter

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Counter 计数器
type Counter interface {
	Increment()
	Value() int64
}

// Kind 计数器实现种类
type Kind string

const (
	KindUnsafe   Kind = "unsafe"
	KindMutex    Kind = "mutex"
	KindActor    Kind = "actor"
	KindBarrier  Kind = "barrier"
	KindSpinLock Kind = "spinlock"
	KindAtomic   Kind = "atomic"
	KindGlobal   Kind = "global"
)

// ErrUnknownKind 未知的计数器种类
var ErrUnknownKind = errors.New("counter: unknown kind")

// Kinds 返回全部种类，第一个是不安全的对照组
func Kinds() []Kind {
	return []Kind{KindUnsafe, KindMutex, KindActor, KindBarrier, KindSpinLock, KindAtomic, KindGlobal}
}

// ParseKind 解析种类名，大小写不敏感
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Serialized 该种类是否保证每次累加恰好生效一次
func (k Kind) Serialized() bool {
	return k != KindUnsafe
}

func (k Kind) String() string {
	return string(k)
}

type options struct {
	yield           bool
	mailboxCapacity int
}

// Option 构造选项
type Option func(*options)

// WithYield unsafe计数器在读和写之间让出调度，放大竞争窗口
func WithYield(yield bool) Option {
	return func(o *options) {
		o.yield = yield
	}
}

// WithMailboxCapacity actor计数器的邮箱容量
func WithMailboxCapacity(n int) Option {
	return func(o *options) {
		o.mailboxCapacity = n
	}
}

// New 按种类创建计数器。KindGlobal返回进程唯一的Shared()，不是新实例。
// 实现了io.Closer的计数器用完需要Close。
func New(kind Kind, opts ...Option) (Counter, error) {
	var o options
	o.mailboxCapacity = -1
	for _, opt := range opts {
		opt(&o)
	}

	switch kind {
	case KindUnsafe:
		return &Unsafe{yield: o.yield}, nil
	case KindMutex:
		return new(Mutex), nil
	case KindActor:
		return NewActor(o.mailboxCapacity), nil
	case KindBarrier:
		return new(Barrier), nil
	case KindSpinLock:
		return new(SpinLock), nil
	case KindAtomic:
		return new(Atomic), nil
	case KindGlobal:
		return Shared(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Close 如果c持有资源（例如actor的goroutine）就释放
func Close(c Counter) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
