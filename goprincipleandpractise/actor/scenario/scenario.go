// Package scenario 对照实验的驱动：workers个并发单元各自对同一个计数器累加perWorker次，
// 全部结束后读取最终值，与期望值workers*perWorker比较。
//
// 不匹配只是一个被报告的结果，不是错误：unsafe计数器丢失更新是预期现象，
// 串行化计数器不匹配才说明实现有bug。没有重试，也没有恢复逻辑。
package scenario

import (
	"errors"
	"fmt"
	"math"
	"time"

	"actor-notes/goprincipleandpractise/actor/counter"
)

// ErrInvalidScenario 场景参数非法
var ErrInvalidScenario = errors.New("scenario: invalid scenario")

// Scenario 一次实验的参数，只在一次运行中存在
type Scenario struct {
	Workers   int
	PerWorker int
}

// DefaultScenarios 三个典型场景：
//   - 100000x1: 并发度最高，每个单元只累加一次
//   - 1x100000: 没有并发，任何计数器都必须精确
//   - 100x1000: 中等并发
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Workers: 100000, PerWorker: 1},
		{Workers: 1, PerWorker: 100000},
		{Workers: 100, PerWorker: 1000},
	}
}

// Validate Workers>=1，PerWorker>=0，乘积不能溢出int64
func (s Scenario) Validate() error {
	if s.Workers < 1 {
		return fmt.Errorf("%w: workers=%d, want >= 1", ErrInvalidScenario, s.Workers)
	}
	if s.PerWorker < 0 {
		return fmt.Errorf("%w: perWorker=%d, want >= 0", ErrInvalidScenario, s.PerWorker)
	}
	if s.PerWorker > 0 && int64(s.Workers) > math.MaxInt64/int64(s.PerWorker) {
		return fmt.Errorf("%w: %s overflows int64", ErrInvalidScenario, s)
	}
	return nil
}

// Expected 期望的最终值
func (s Scenario) Expected() int64 {
	return int64(s.Workers) * int64(s.PerWorker)
}

func (s Scenario) String() string {
	return fmt.Sprintf("%dx%d", s.Workers, s.PerWorker)
}

// Result 一次运行的结果
type Result struct {
	Scenario Scenario
	Kind     counter.Kind
	Spawner  Spawner
	Run      int // 第几次重复，从1开始
	Expected int64
	Actual   int64
	Lost     int64
	Match    bool
	Elapsed  time.Duration
}

func (r Result) String() string {
	status := "MATCH"
	if !r.Match {
		status = "MISMATCH"
	}
	return fmt.Sprintf("%-8s kind=%s scenario=%s run=%d expected=%d actual=%d lost=%d elapsed=%s",
		status, r.Kind, r.Scenario, r.Run, r.Expected, r.Actual, r.Lost, r.Elapsed)
}

// Plan 场景 x 计数器种类 x 重复次数
type Plan struct {
	Scenarios []Scenario
	Kinds     []counter.Kind
	Repeat    int
}

// Validate 至少一个场景、一个种类，Repeat为0时按1处理
func (p Plan) Validate() error {
	if len(p.Scenarios) == 0 {
		return fmt.Errorf("%w: empty plan", ErrInvalidScenario)
	}
	if len(p.Kinds) == 0 {
		return fmt.Errorf("%w: no counter kinds", ErrInvalidScenario)
	}
	if p.Repeat < 0 {
		return fmt.Errorf("%w: repeat=%d", ErrInvalidScenario, p.Repeat)
	}
	for _, s := range p.Scenarios {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p Plan) repeat() int {
	if p.Repeat < 1 {
		return 1
	}
	return p.Repeat
}

// Summary 一个Plan的汇总
type Summary struct {
	Runs                 int
	Mismatches           int
	SerializedMismatches int
	Lost                 int64
}

func (s *Summary) add(r Result) {
	s.Runs++
	s.Lost += r.Lost
	if r.Match {
		return
	}
	s.Mismatches++
	if r.Kind.Serialized() {
		s.SerializedMismatches++
	}
}

// Healthy 串行化计数器从未出现不匹配
func (s Summary) Healthy() bool {
	return s.SerializedMismatches == 0
}
