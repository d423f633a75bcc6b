package report

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"actor-notes/goprincipleandpractise/actor/scenario"
)

// JSONLines 每个结果一行JSON
type JSONLines struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// NewJSONLines 输出到w，Close不会关闭w
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{w: w}
}

// newJSONLinesFile Close时关闭文件
func newJSONLinesFile(w io.WriteCloser) *JSONLines {
	return &JSONLines{w: w, closer: w}
}

func (j *JSONLines) Write(_ context.Context, r scenario.Result) error {
	data, err := sonic.Marshal(NewRecord(r, time.Now()))
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	_, err = j.w.Write(data)
	return err
}

func (j *JSONLines) Close() error {
	if j.closer == nil {
		return nil
	}
	return j.closer.Close()
}
