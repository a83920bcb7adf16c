package catalog

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return c
}

func TestBundledArticlesLoad(t *testing.T) {
	c := mustDefault(t)
	articles := c.Articles()
	if len(articles) < 6 {
		t.Fatalf("expected bundled articles, got %d", len(articles))
	}
	for i, a := range articles {
		if a.ID != i+1 {
			t.Fatalf("articles not ordered by id: %d at %d", a.ID, i)
		}
		if a.Title == "" || a.Content == "" {
			t.Fatalf("article %d missing title or content", a.ID)
		}
	}
	if stats := c.Stats(); stats.ArticlesWritten != len(articles) || stats.ActiveBounties != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestArticleLookup(t *testing.T) {
	c := mustDefault(t)
	a, err := c.Article(1)
	if err != nil || a.ID != 1 {
		t.Fatalf("Article(1) = %+v, %v", a, err)
	}
	if _, err := c.Article(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchMatchesTitleContentAndTags(t *testing.T) {
	c := mustDefault(t)

	if got := c.Search("nonexistentterm123"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}

	got := c.Search("EXPLOIT")
	if len(got) == 0 {
		t.Fatal("expected matches for exploit")
	}
	for _, a := range got {
		hay := strings.ToLower(a.Title + " " + a.Content + " " + strings.Join(a.Tags, " "))
		if !strings.Contains(hay, "exploit") {
			t.Fatalf("article %d does not mention exploit", a.ID)
		}
	}

	byTag := c.Search("leaderboard")
	if len(byTag) != 1 || byTag[0].ID != 6 {
		t.Fatalf("unexpected tag search result %+v", byTag)
	}

	if got := c.Search("   "); got != nil {
		t.Fatal("blank term should match nothing")
	}
}

func TestSampleContractIsStable(t *testing.T) {
	c := mustDefault(t)
	a := c.SampleContract("0xABC")
	b := c.SampleContract("0xabc")
	if a.Name != b.Name {
		t.Fatalf("address selection should ignore case: %s vs %s", a.Name, b.Name)
	}
	if a.Source == "" {
		t.Fatal("empty contract source")
	}
}

func TestVisualizationLookup(t *testing.T) {
	c := mustDefault(t)
	v, err := c.Visualization("The DAO")
	if err != nil || v.Name != "the-dao" {
		t.Fatalf("Visualization = %+v, %v", v, err)
	}
	if _, err := c.Visualization("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserArticlesShadowBundled(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("override.md", "---\nid: 1\ntitle: Replaced\ntags: [local]\n---\nlocal body")
	write("new.md", "---\nid: 42\ntitle: Local Story\n---\nbody")
	write("broken.md", "---\nid: 43\ntitle: [unterminated\n")
	write("noid.md", "---\ntitle: No id\n---\nbody")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	a, err := c.Article(1)
	if err != nil || a.Title != "Replaced" || a.Content != "local body" {
		t.Fatalf("override not applied: %+v, %v", a, err)
	}
	if _, err := c.Article(42); err != nil {
		t.Fatalf("new article missing: %v", err)
	}
	if _, err := c.Article(43); err == nil {
		t.Fatal("malformed article should be skipped")
	}
}

func TestMissingUserDirIsReported(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := filepath.Join(t.TempDir(), "no-such-dir")
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Articles()) == 0 {
		t.Fatal("bundled articles should still load")
	}
	out := buf.String()
	if !strings.Contains(out, "user article directory not loaded") || !strings.Contains(out, "no-such-dir") {
		t.Fatalf("expected a warning naming the directory, got:\n%s", out)
	}
}

func TestParseArticleErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no frontmatter", "just text"},
		{"unterminated", "---\nid: 1\ntitle: x\n"},
		{"no title", "---\nid: 1\n---\nbody"},
		{"bad yaml", "---\nid: [1\n---\nbody"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseArticle([]byte(tt.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
