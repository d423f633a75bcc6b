package report

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/zeromicro/go-zero/core/logx"

	"actor-notes/goprincipleandpractise/actor/scenario"
)

// Console 每个结果一行人类可读文本。
// 只有串行计数器丢了更新时才额外打一条结构化错误日志，其余结果只看这一行文本。
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole 输出到w
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Write(ctx context.Context, r scenario.Result) error {
	if !r.Match && r.Kind.Serialized() {
		logx.WithContext(ctx).Errorw("serialized counter lost updates",
			logx.Field("kind", r.Kind),
			logx.Field("scenario", r.Scenario.String()),
			logx.Field("run", r.Run),
			logx.Field("expected", r.Expected),
			logx.Field("actual", r.Actual),
			logx.Field("lost", r.Lost),
			logx.Field("elapsed", r.Elapsed.String()),
		)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.w, r.String())
	return err
}

// WriteSummary 输出汇总行
func (c *Console) WriteSummary(s scenario.Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "runs=%d mismatches=%d serialized_mismatches=%d lost=%d healthy=%v\n",
		s.Runs, s.Mismatches, s.SerializedMismatches, s.Lost, s.Healthy())
	return err
}

func (c *Console) Close() error {
	return nil
}
