package performance

import (
	"context"
	"fmt"
	"testing"

	"actor-notes/goprincipleandpractise/actor/counter"
	"actor-notes/goprincipleandpractise/actor/mailbox"
)

func TestTellThenRead(t *testing.T) {
	a := mailbox.New[int64](0, mailbox.WithCapacity(8))
	defer a.Stop()

	if got := TellThenRead(a, 1000); got != 1000 {
		t.Fatalf("got %d, want 1000", got)
	}
}

/*
对比各种串行化计数器在并发累加下的开销。

执行命令:

	go test -run '^$' -bench '^BenchmarkIncrement' -benchtime=3s -count=5 -benchmem .

关注指标:
  - ns/op: 单次累加的延迟
  - allocs/op: actor/global每次Do都要分配一个done channel

预期结论:
 1. atomic最快，只有一条原子指令，但只适用于状态是单个整数的场景。
 2. mutex/barrier/spinlock同一量级，barrier只是在mutex外面包了一层闭包。
 3. actor/global比锁慢一个数量级：每次操作都要经过channel投递和goroutine切换，
    换来的是状态所有权清晰，消息里可以做任意复杂的修改。
*/
func BenchmarkIncrement(b *testing.B) {
	for _, kind := range SerializedKinds() {
		b.Run(kind.String(), func(b *testing.B) {
			c, err := counter.New(kind)
			if err != nil {
				b.Fatal(err)
			}
			defer counter.Close(c)

			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					c.Increment()
				}
			})
		})
	}
}

/*
邮箱容量对actor吞吐的影响：Tell只投递不等待，容量决定投递方能领先owner多少。

执行命令:

	go test -run '^$' -bench '^BenchmarkMailboxCapacity' -benchtime=3s -count=3 -benchmem .

预期结论:
 1. 容量0时每次投递都要等owner接手，投递方和owner频繁切换。
 2. 容量增大后投递可以批量进行，超过一定值后收益不再明显。
*/
func BenchmarkMailboxCapacity(b *testing.B) {
	for _, capacity := range []int{0, 16, 1024} {
		b.Run(fmt.Sprintf("cap=%d", capacity), func(b *testing.B) {
			a := mailbox.New[int64](0, mailbox.WithCapacity(capacity))
			defer a.Stop()

			for b.Loop() {
				TellThenRead(a, 100)
			}
		})
	}
}

/*
Do与Tell对比：Do等待每条消息处理完，Tell只投递。

执行命令:

	go test -run '^$' -bench '^BenchmarkDoVsTell' -benchmem .
*/
func BenchmarkDoVsTell(b *testing.B) {
	b.Run("do", func(b *testing.B) {
		a := mailbox.New[int64](0)
		defer a.Stop()
		ctx := context.Background()
		for b.Loop() {
			_ = a.Do(ctx, func(v *int64) { *v++ })
		}
	})
	b.Run("tell", func(b *testing.B) {
		a := mailbox.New[int64](0)
		defer a.Stop()
		for b.Loop() {
			_ = a.Tell(func(v *int64) { *v++ })
		}
	})
}
