package catalog

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CosmoTheDev/rekt-terminal/models"
	"go.yaml.in/yaml/v3"
)

// loadArticles reads the bundled articles and merges any user-provided ones
// from extraDir. User articles shadow bundled ones with the same id.
func loadArticles(extraDir string) ([]models.Article, error) {
	byID := make(map[int]models.Article)

	entries, err := bundledFS.ReadDir("articles")
	if err != nil {
		return nil, fmt.Errorf("catalog: reading embedded articles: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := bundledFS.ReadFile("articles/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("catalog: reading %s: %w", entry.Name(), err)
		}
		a, err := parseArticle(data)
		if err != nil {
			return nil, fmt.Errorf("catalog: parse bundled %q: %w", entry.Name(), err)
		}
		byID[a.ID] = *a
	}

	if extraDir != "" {
		err := filepath.WalkDir(extraDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == extraDir {
					return err
				}
				slog.Warn("catalog: skipping unreadable user article path", "path", path, "error", err)
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
				return nil
			}
			data, err := os.ReadFile(path) // #nosec G304 -- user article directory
			if err != nil {
				slog.Warn("catalog: skipping unreadable user article", "file", path, "error", err)
				return nil
			}
			a, err := parseArticle(data)
			if err != nil {
				slog.Warn("catalog: skipping malformed user article", "file", path, "error", err)
				return nil
			}
			if a.ID <= 0 {
				slog.Warn("catalog: skipping user article without id", "file", path)
				return nil
			}
			byID[a.ID] = *a
			return nil
		})
		if err != nil {
			slog.Warn("catalog: user article directory not loaded", "dir", extraDir, "error", err)
		}
	}

	out := make([]models.Article, 0, len(byID))
	for _, a := range byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// parseArticle extracts YAML frontmatter and the markdown body.
func parseArticle(data []byte) (*models.Article, error) {
	const delim = "---"

	data = bytes.TrimLeft(data, " \t\n\r")
	if !bytes.HasPrefix(data, []byte(delim)) {
		return nil, fmt.Errorf("missing YAML frontmatter")
	}

	rest := bytes.TrimPrefix(data, []byte(delim))
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, fmt.Errorf("unterminated YAML frontmatter (missing closing ---)")
	}

	frontmatter := rest[:idx]
	body := strings.TrimSpace(string(rest[idx+len("\n"+delim):]))

	var a models.Article
	if err := yaml.Unmarshal(frontmatter, &a); err != nil {
		return nil, fmt.Errorf("invalid YAML frontmatter: %w", err)
	}
	if strings.TrimSpace(a.Title) == "" {
		return nil, fmt.Errorf("article has no title")
	}
	a.Content = body
	return &a, nil
}
