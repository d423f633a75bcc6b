package scenario

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/zeromicro/go-zero/core/threading"
	"golang.org/x/sync/errgroup"
)

// Spawner 并发单元的调度方式
type Spawner string

const (
	// SpawnGoroutine 每个单元一个goroutine
	SpawnGoroutine Spawner = "goroutine"
	// SpawnPool 固定GOMAXPROCS个worker从channel里领取单元
	SpawnPool Spawner = "pool"
	// SpawnRoutineGroup go-zero的threading.RoutineGroup
	SpawnRoutineGroup Spawner = "routinegroup"
)

// Spawners 返回全部调度方式
func Spawners() []Spawner {
	return []Spawner{SpawnGoroutine, SpawnPool, SpawnRoutineGroup}
}

// ParseSpawner 解析调度方式，空串返回SpawnGoroutine
func ParseSpawner(s string) (Spawner, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return SpawnGoroutine, nil
	}
	for _, sp := range Spawners() {
		if Spawner(name) == sp {
			return sp, nil
		}
	}
	return "", fmt.Errorf("scenario: unknown spawner %q", s)
}

// spawn 启动units个并发单元执行unit，无条件等待全部结束
func (sp Spawner) spawn(units int, unit func()) error {
	switch sp {
	case SpawnGoroutine, "":
		var g errgroup.Group
		for i := 0; i < units; i++ {
			g.Go(func() error {
				unit()
				return nil
			})
		}
		return g.Wait()
	case SpawnPool:
		workerPool(units, runtime.GOMAXPROCS(0), unit)
		return nil
	case SpawnRoutineGroup:
		rg := threading.NewRoutineGroup()
		for i := 0; i < units; i++ {
			rg.Run(unit)
		}
		rg.Wait()
		return nil
	default:
		return fmt.Errorf("scenario: unknown spawner %q", sp)
	}
}

// workerPool 固定数量的worker从jobs channel领取单元，单元数少于worker数时按单元数启动
func workerPool(units, workers int, unit func()) {
	if workers > units {
		workers = units
	}

	jobs := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				unit()
			}
		}()
	}

	for i := 0; i < units; i++ {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()
}
