package performance

import (
	"context"

	"actor-notes/goprincipleandpractise/actor/counter"
	"actor-notes/goprincipleandpractise/actor/mailbox"
)

// SerializedKinds 参与对比的串行化计数器（unsafe不参与，它没有并发安全语义）
func SerializedKinds() []counter.Kind {
	var kinds []counter.Kind
	for _, k := range counter.Kinds() {
		if k.Serialized() {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// TellThenRead 用Tell投递n次累加后用Ask读取一次。
// 邮箱FIFO保证读到的是n次累加之后的值
func TellThenRead(a *mailbox.Actor[int64], n int) int64 {
	for i := 0; i < n; i++ {
		_ = a.Tell(func(v *int64) { *v++ })
	}
	v, _ := mailbox.Ask(context.Background(), a, func(v *int64) int64 { return *v })
	return v
}
