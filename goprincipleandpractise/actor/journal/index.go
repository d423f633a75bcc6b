package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
)

// Index 按日期排序的笔记集合
type Index struct {
	notes []Note
	byTag map[string][]int
}

// TagCount 标签及其笔记数
type TagCount struct {
	Tag   string
	Count int
}

// NewIndex notes按日期、slug排序后建立索引
func NewIndex(notes []Note) *Index {
	sorted := append([]Note(nil), notes...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Slug < sorted[j].Slug
	})

	ix := &Index{notes: sorted, byTag: make(map[string][]int)}
	for i, n := range sorted {
		for _, t := range n.Tags {
			ix.byTag[t] = append(ix.byTag[t], i)
		}
	}
	return ix
}

// Load 并发解析dir下所有笔记；文件名不符合规则的.md文件被忽略，
// front matter写坏的笔记记一条错误日志后跳过，不影响其他笔记
func Load(ctx context.Context, dir string) (*Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read notes dir: %w", err)
	}

	return mr.MapReduce(func(source chan<- string) {
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
				source <- filepath.Join(dir, e.Name())
			}
		}
	}, func(path string, writer mr.Writer[Note], cancel func(error)) {
		content, err := os.ReadFile(path)
		if err != nil {
			cancel(fmt.Errorf("read note: %w", err))
			return
		}
		n, err := ParseNote(path, content)
		if errors.Is(err, ErrNotNote) {
			return
		}
		if errors.Is(err, ErrBadFrontMatter) {
			logx.Errorw("skip note", logx.Field("path", path), logx.Field("error", err.Error()))
			return
		}
		if err != nil {
			cancel(err)
			return
		}
		writer.Write(n)
	}, func(pipe <-chan Note, writer mr.Writer[*Index], cancel func(error)) {
		var notes []Note
		for n := range pipe {
			notes = append(notes, n)
		}
		writer.Write(NewIndex(notes))
	}, mr.WithContext(ctx))
}

// Len 笔记数
func (ix *Index) Len() int {
	return len(ix.notes)
}

// Notes 全部笔记，按日期升序
func (ix *Index) Notes() []Note {
	return append([]Note(nil), ix.notes...)
}

// ByTag 带有tag的笔记
func (ix *Index) ByTag(tag string) []Note {
	idx := ix.byTag[strings.ToLower(strings.TrimSpace(tag))]
	out := make([]Note, 0, len(idx))
	for _, i := range idx {
		out = append(out, ix.notes[i])
	}
	return out
}

// Tags 全部标签，按名称排序
func (ix *Index) Tags() []TagCount {
	out := make([]TagCount, 0, len(ix.byTag))
	for t, idx := range ix.byTag {
		out = append(out, TagCount{Tag: t, Count: len(idx)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// Between 日期在[from, to]之间的笔记，零值表示不限
func (ix *Index) Between(from, to time.Time) []Note {
	var out []Note
	for _, n := range ix.notes {
		if !from.IsZero() && n.Date.Before(from) {
			continue
		}
		if !to.IsZero() && n.Date.After(to) {
			continue
		}
		out = append(out, n)
	}
	return out
}
