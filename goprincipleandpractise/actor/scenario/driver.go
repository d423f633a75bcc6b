package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"actor-notes/goprincipleandpractise/actor/counter"
)

// Driver 运行场景
type Driver struct {
	spawner         Spawner
	yield           bool
	mailboxCapacity int
}

// DriverOption 配置Driver
type DriverOption func(*Driver)

// WithSpawner 设置调度方式
func WithSpawner(sp Spawner) DriverOption {
	return func(d *Driver) {
		d.spawner = sp
	}
}

// WithYield unsafe计数器读写之间让出调度
func WithYield(yield bool) DriverOption {
	return func(d *Driver) {
		d.yield = yield
	}
}

// WithMailboxCapacity actor计数器的邮箱容量，<0使用默认值
func WithMailboxCapacity(n int) DriverOption {
	return func(d *Driver) {
		d.mailboxCapacity = n
	}
}

// NewDriver 默认每个单元一个goroutine
func NewDriver(opts ...DriverOption) *Driver {
	d := &Driver{spawner: SpawnGoroutine, mailboxCapacity: -1}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run 为本次运行新建一个计数器（global种类除外，它是进程唯一的，结果按差值计算），
// 启动s.Workers个单元各自顺序累加s.PerWorker次，等待全部结束后读取并比较。
// 运行开始后不响应取消。
func (d *Driver) Run(ctx context.Context, s Scenario, kind counter.Kind) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	c, err := counter.New(kind, counter.WithYield(d.yield), counter.WithMailboxCapacity(d.mailboxCapacity))
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := counter.Close(c); err != nil {
			logx.WithContext(ctx).Errorf("close %s counter: %v", kind, err)
		}
	}()

	var before int64
	if kind == counter.KindGlobal {
		before = c.Value()
	}

	start := time.Now()
	err = d.spawner.spawn(s.Workers, func() {
		for i := 0; i < s.PerWorker; i++ {
			c.Increment()
		}
	})
	if err != nil {
		return Result{}, fmt.Errorf("run %s on %s: %w", s, kind, err)
	}
	actual := c.Value() - before
	elapsed := time.Since(start)

	expected := s.Expected()
	return Result{
		Scenario: s,
		Kind:     kind,
		Spawner:  d.spawner,
		Run:      1,
		Expected: expected,
		Actual:   actual,
		Lost:     expected - actual,
		Match:    actual == expected,
		Elapsed:  elapsed,
	}, nil
}

// RunPlan 依次运行plan中的每个场景、每个种类、每次重复；onResult返回错误时停止。
// 只在两次运行之间检查ctx。
func (d *Driver) RunPlan(ctx context.Context, plan Plan, onResult func(Result) error) (Summary, error) {
	var sum Summary
	if err := plan.Validate(); err != nil {
		return sum, err
	}

	for _, s := range plan.Scenarios {
		for _, kind := range plan.Kinds {
			for run := 1; run <= plan.repeat(); run++ {
				if err := ctx.Err(); err != nil {
					return sum, err
				}

				r, err := d.Run(ctx, s, kind)
				if err != nil {
					return sum, err
				}
				r.Run = run
				sum.add(r)

				if onResult != nil {
					if err := onResult(r); err != nil {
						return sum, err
					}
				}
			}
		}
	}

	return sum, nil
}
