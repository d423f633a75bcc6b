package trap

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"actor-notes/goprincipleandpractise/actor/counter"
	"actor-notes/goprincipleandpractise/actor/mailbox"
)

// RunAllTraps 演示actor/计数器相关的陷阱（供外部go run调用）
func RunAllTraps() {
	trapLostUpdate()
	trapCopiedMutex()
	trapStoppedActor()
}

// ============================================================
// 陷阱1：counter++不是原子操作，并发下丢失更新
// ============================================================

// LostUpdate 100个goroutine各累加1000次，分别返回unsafe和actor计数器的结果
// 用 go test -race 可检测到unsafe计数器的数据竞争
func LostUpdate() (unsafe, serialized int64) {
	u := counter.NewUnsafe(true)
	a := counter.NewActor(-1)
	defer a.Close()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				u.Increment() // 数据竞争：读-改-写之间没有互斥
				a.Increment()
			}
		}()
	}
	wg.Wait()

	return u.Value(), a.Value()
}

func trapLostUpdate() {
	fmt.Println("=== 陷阱1：counter++丢失更新 ===")
	unsafe, serialized := LostUpdate()
	fmt.Printf("期望: 100000, unsafe: %d (丢失 %d), actor: %d\n", unsafe, 100000-unsafe, serialized)
	fmt.Println("正确做法: 所有访问收敛到同一个串行域（锁或actor）")
	fmt.Println()
}

// ============================================================
// 陷阱2：按值传递带锁的计数器
// 副本有自己的锁和自己的值，每个副本都是一个独立的串行域，原值不会变
// ============================================================

func incrementCopy(c counter.Mutex) {
	c.Increment()
}

// CopiedMutex 对副本累加10次后返回原计数器的值（始终为0）
func CopiedMutex() int64 {
	var c counter.Mutex
	for i := 0; i < 10; i++ {
		incrementCopy(c)
	}
	return c.Value()
}

func trapCopiedMutex() {
	fmt.Println("=== 陷阱2：按值传递带锁的计数器 ===")
	fmt.Println("对副本累加10次后原计数器的值:", CopiedMutex())
	fmt.Println("正确做法: 传指针，go vet 的 copylocks 检查会报告这种写法")
	fmt.Println()
}

// ============================================================
// 陷阱3：actor关闭后继续投递
// Increment没有返回值，关闭后的调用被静默丢弃（只打日志），需要感知时用IncrementContext
// ============================================================

// StoppedActor 关闭actor后再投递，返回投递错误
func StoppedActor() error {
	a := counter.NewActor(-1)
	_ = a.Close()
	return a.IncrementContext(context.Background())
}

func trapStoppedActor() {
	fmt.Println("=== 陷阱3：actor关闭后继续投递 ===")
	err := StoppedActor()
	fmt.Println("关闭后投递:", err, "| 是ErrStopped:", errors.Is(err, mailbox.ErrStopped))
	fmt.Println("正确做法: 由创建者负责Close，且在所有调用方结束之后")
	fmt.Println()
}
