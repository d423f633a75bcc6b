package counter

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"actor-notes/goprincipleandpractise/actor/mailbox"
)

// Actor 计数值归属于一个actor，Increment/Value都是投递到邮箱的消息，
// 由owner goroutine按到达顺序逐个处理。调用方会阻塞到消息处理完毕。
type Actor struct {
	box *mailbox.Actor[int64]
}

// NewActor capacity<0时使用默认邮箱容量
func NewActor(capacity int) *Actor {
	opts := []mailbox.Option{mailbox.WithName("counter")}
	if capacity >= 0 {
		opts = append(opts, mailbox.WithCapacity(capacity))
	}
	return &Actor{box: mailbox.New[int64](0, opts...)}
}

// IncrementContext 累加一次，actor已关闭时返回mailbox.ErrStopped
func (c *Actor) IncrementContext(ctx context.Context) error {
	return c.box.Do(ctx, func(v *int64) { *v++ })
}

// ValueContext 读取当前值
func (c *Actor) ValueContext(ctx context.Context) (int64, error) {
	return mailbox.Ask(ctx, c.box, func(v *int64) int64 { return *v })
}

// Increment Close之后调用不会生效，只记录错误日志
func (c *Actor) Increment() {
	if err := c.IncrementContext(context.Background()); err != nil {
		logx.Errorf("counter: increment dropped: %v", err)
	}
}

func (c *Actor) Value() int64 {
	v, err := c.ValueContext(context.Background())
	if err != nil {
		logx.Errorf("counter: read failed: %v", err)
	}
	return v
}

// Close 停止actor，等待已入队的消息处理完
func (c *Actor) Close() error {
	c.box.Stop()
	return nil
}
