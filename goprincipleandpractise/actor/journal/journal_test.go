package journal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const actorNote = `---
title: Actor隔离
tags: [Actor, concurrency, actor]
---
# 不会被用到的标题

actor内部的状态只能由actor自己访问。
`

func TestParseNoteFrontMatter(t *testing.T) {
	n, err := ParseNote("notes/2024-03-01-actor-isolation.md", []byte(actorNote))
	if err != nil {
		t.Fatal(err)
	}

	if n.Slug != "actor-isolation" || n.Title != "Actor隔离" {
		t.Fatalf("note = %+v", n)
	}
	if !n.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v", n.Date)
	}
	if len(n.Tags) != 2 || n.Tags[0] != "actor" || n.Tags[1] != "concurrency" {
		t.Fatalf("tags = %v", n.Tags)
	}
	if n.Body[0] != '#' {
		t.Fatalf("body should start after front matter: %q", n.Body)
	}
}

func TestParseNoteTitleFallback(t *testing.T) {
	n, err := ParseNote("2024-03-02-global-actor.md", []byte("intro\n\n# Global actor\n"))
	if err != nil {
		t.Fatal(err)
	}
	if n.Title != "Global actor" || len(n.Tags) != 0 {
		t.Fatalf("note = %+v", n)
	}

	n, err = ParseNote("2024-03-03-scratch.md", []byte("no heading"))
	if err != nil {
		t.Fatal(err)
	}
	if n.Title != "scratch" {
		t.Fatalf("title = %q, want slug", n.Title)
	}
}

func TestParseNoteUnterminatedFrontMatter(t *testing.T) {
	n, err := ParseNote("2024-03-04-dashes.md", []byte("---\nnot closed\n# Dashes\n"))
	if err != nil {
		t.Fatal(err)
	}
	if n.Title != "Dashes" {
		t.Fatalf("title = %q", n.Title)
	}
}

func TestParseNoteRejectsBadNames(t *testing.T) {
	for _, name := range []string{"README.md", "2024-3-1-x.md", "2024-13-01-x.md", "2024-03-01-x.txt", "2024-03-01.md"} {
		if _, err := ParseNote(name, nil); !errors.Is(err, ErrNotNote) {
			t.Errorf("%s: err = %v, want ErrNotNote", name, err)
		}
	}
}

func writeNotes(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func sampleDir(t *testing.T) string {
	return writeNotes(t, map[string]string{
		"2024-03-01-actor-isolation.md": actorNote,
		"2024-03-05-race.md":            "---\ntags: [race, concurrency]\n---\n# 数据竞争\n",
		"2024-02-20-mutex.md":           "---\ntags: [lock]\n---\n# Mutex\n",
		"README.md":                     "# 不是笔记\n",
		"2024-03-05-notes.txt":          "ignored",
	})
}

func TestLoad(t *testing.T) {
	ix, err := Load(context.Background(), sampleDir(t))
	if err != nil {
		t.Fatal(err)
	}

	if ix.Len() != 3 {
		t.Fatalf("len = %d, want 3", ix.Len())
	}
	notes := ix.Notes()
	if notes[0].Slug != "mutex" || notes[2].Slug != "race" {
		t.Fatalf("order = %s, %s, %s", notes[0].Slug, notes[1].Slug, notes[2].Slug)
	}

	if got := ix.ByTag("Concurrency"); len(got) != 2 {
		t.Fatalf("ByTag(concurrency) = %d notes, want 2", len(got))
	}
	if got := ix.ByTag("missing"); len(got) != 0 {
		t.Fatalf("ByTag(missing) = %v", got)
	}

	tags := ix.Tags()
	want := []TagCount{{"actor", 1}, {"concurrency", 2}, {"lock", 1}, {"race", 1}}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v", tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tags = %v, want %v", tags, want)
		}
	}

	march := ix.Between(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	if len(march) != 2 {
		t.Fatalf("Between = %d notes, want 2", len(march))
	}
}

func TestLoadEmptyDir(t *testing.T) {
	ix, err := Load(context.Background(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ix.Len() != 0 || len(ix.Tags()) != 0 {
		t.Fatalf("index = %+v", ix)
	}
}

func TestParseNoteEmptyFrontMatter(t *testing.T) {
	for _, content := range []string{
		"---\n---\n# 空的front matter\n",
		"---\r\n\r\n---\r\n# 空的front matter\r\n",
	} {
		n, err := ParseNote("2024-03-02-empty.md", []byte(content))
		if err != nil {
			t.Fatalf("%q: %v", content, err)
		}
		if n.Title != "空的front matter" || len(n.Tags) != 0 {
			t.Fatalf("%q: note = %+v", content, n)
		}
		if strings.Contains(n.Body, "---") {
			t.Fatalf("%q: body keeps front matter: %q", content, n.Body)
		}
	}
}

func TestParseNoteBadFrontMatter(t *testing.T) {
	_, err := ParseNote("2024-03-01-broken.md", []byte("---\ntags: [unclosed\n---\nbody\n"))
	if !errors.Is(err, ErrBadFrontMatter) {
		t.Fatalf("err = %v, want ErrBadFrontMatter", err)
	}
}

func TestLoadSkipsBadFrontMatter(t *testing.T) {
	dir := writeNotes(t, map[string]string{
		"2024-03-01-good.md":   "# Good\n",
		"2024-03-02-empty.md":  "---\n---\n# Empty front matter\n",
		"2024-03-03-broken.md": "---\ntags: [unclosed\n---\nbody\n",
		"2024-03-04-number.md": "---\ntitle: 2024\n---\nbody\n",
	})
	ix, err := Load(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	notes := ix.Notes()
	if len(notes) != 2 {
		t.Fatalf("len = %d, want 2", len(notes))
	}
	if notes[0].Title != "Good" || notes[1].Title != "Empty front matter" {
		t.Fatalf("titles = %q, %q", notes[0].Title, notes[1].Title)
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("want error for missing dir")
	}
}

func TestStoreCachesAndCollapsesLoads(t *testing.T) {
	dir := sampleDir(t)
	s := NewStore()

	var wg sync.WaitGroup
	got := make([]*Index, 20)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ix, err := s.Index(context.Background(), dir)
			if err != nil {
				t.Error(err)
				return
			}
			got[i] = ix
		}()
	}
	wg.Wait()

	for i := 1; i < len(got); i++ {
		if got[i] != got[0] {
			t.Fatalf("index %d differs from index 0", i)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, "2024-04-01-new.md"), []byte("# New\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cached, _ := s.Index(context.Background(), dir)
	if cached.Len() != 3 {
		t.Fatalf("cached len = %d, want 3", cached.Len())
	}

	s.Invalidate(dir)
	fresh, err := s.Index(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Len() != 4 {
		t.Fatalf("fresh len = %d, want 4", fresh.Len())
	}
}

func TestStoreIgnoresCallerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ix, err := NewStore().Index(ctx, sampleDir(t))
	if err != nil {
		t.Fatalf("Index with canceled ctx: %v", err)
	}
	if ix.Len() != 3 {
		t.Fatalf("len = %d, want 3", ix.Len())
	}
}

func TestLoadRepoNotes(t *testing.T) {
	ix, err := Load(context.Background(), filepath.Join("..", "..", "..", "notes"))
	if err != nil {
		t.Fatal(err)
	}
	if ix.Len() < 4 {
		t.Fatalf("len = %d, want >= 4", ix.Len())
	}
	if len(ix.ByTag("actor")) < 3 {
		t.Fatalf("actor notes = %d, want >= 3", len(ix.ByTag("actor")))
	}
}
