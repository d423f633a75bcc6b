package mailbox

import (
	"context"
	"sync"
)

var (
	globalOnce  sync.Once
	globalActor *Actor[struct{}]
)

// Global 进程级唯一的串行域，第一次使用时创建，永不停止。
// 不属于任何具体数据的状态（包级变量等）只要只在这里访问，就不需要额外加锁。
func Global() *Actor[struct{}] {
	globalOnce.Do(func() {
		globalActor = New(struct{}{}, WithName("global"))
	})
	return globalActor
}

// RunGlobal 在全局串行域上执行fn并等待完成
func RunGlobal(ctx context.Context, fn func()) error {
	return Global().Do(ctx, func(*struct{}) { fn() })
}
