package counter

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"actor-notes/goprincipleandpractise/actor/mailbox"
)

// sharedValue 只允许在mailbox.Global()上读写
var sharedValue int64

var shared = sharedCounter{}

// Shared 进程唯一的计数器，状态隔离在全局串行域上。没有构造函数，每次返回同一个实例。
func Shared() Counter {
	return shared
}

type sharedCounter struct{}

func (sharedCounter) Increment() {
	if err := mailbox.RunGlobal(context.Background(), func() { sharedValue++ }); err != nil {
		logx.Errorf("counter: shared increment dropped: %v", err)
	}
}

func (sharedCounter) Value() (v int64) {
	if err := mailbox.RunGlobal(context.Background(), func() { v = sharedValue }); err != nil {
		logx.Errorf("counter: shared read failed: %v", err)
	}
	return
}
