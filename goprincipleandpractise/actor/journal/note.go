// Package journal 索引按日期命名的markdown笔记：YYYY-MM-DD-slug.md，
// 可选的front matter（两行---之间的YAML）里写title和tags。
package journal

import (
	"bufio"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/conf"
)

const dateLayout = "2006-01-02"

var (
	// ErrNotNote 文件名不符合YYYY-MM-DD-slug.md
	ErrNotNote = errors.New("journal: not a note")
	// ErrBadFrontMatter front matter不是合法的YAML，或字段类型不对（例如title: 2024）
	ErrBadFrontMatter = errors.New("journal: bad front matter")
)

var nameRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)\.md$`)

// Note 一篇笔记
type Note struct {
	Date  time.Time
	Slug  string
	Title string
	Tags  []string
	Path  string
	Body  string
}

type frontMatter struct {
	Title string   `json:",optional"`
	Tags  []string `json:",optional"`
}

// ParseNote 解析一篇笔记，name可以带目录
func ParseNote(name string, content []byte) (Note, error) {
	m := nameRe.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return Note{}, fmt.Errorf("%w: %s", ErrNotNote, name)
	}
	date, err := time.Parse(dateLayout, m[1])
	if err != nil {
		return Note{}, fmt.Errorf("%w: %s: %v", ErrNotNote, name, err)
	}

	n := Note{Date: date, Slug: m[2], Path: name}
	body := string(content)

	if meta, rest, ok := splitFrontMatter(body); ok {
		// 空的front matter（两行---紧挨着）conf无法解析，直接当作没有字段
		if strings.TrimSpace(meta) != "" {
			var fm frontMatter
			if err := conf.LoadFromYamlBytes([]byte(meta), &fm); err != nil {
				return Note{}, fmt.Errorf("%w: %s: %v", ErrBadFrontMatter, name, err)
			}
			n.Title = strings.TrimSpace(fm.Title)
			n.Tags = normalizeTags(fm.Tags)
		}
		body = rest
	}

	n.Body = body
	if n.Title == "" {
		n.Title = firstHeading(body)
	}
	if n.Title == "" {
		n.Title = n.Slug
	}
	return n, nil
}

// splitFrontMatter 内容以"---"行开头时，返回front matter和剩余正文
func splitFrontMatter(s string) (meta, rest string, ok bool) {
	s = strings.TrimPrefix(s, "\ufeff")
	if !strings.HasPrefix(s, "---\n") && !strings.HasPrefix(s, "---\r\n") {
		return "", s, false
	}
	_, after, _ := strings.Cut(s, "\n")

	lines := strings.SplitAfter(after, "\n")
	offset := 0
	for _, line := range lines {
		if strings.TrimRight(line, "\r\n") == "---" {
			return after[:offset], after[offset+len(line):], true
		}
		offset += len(line)
	}
	return "", s, false
}

func firstHeading(body string) string {
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// normalizeTags 小写、去空白、去重、排序
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
