// Package catalog holds the read-only content served by the terminal:
// articles, bounties, feed items and the other static listings.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"sync"

	"github.com/CosmoTheDev/rekt-terminal/models"
)

//go:embed articles/*.md contracts/*.sol
var bundledFS embed.FS

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("not found")

// SampleContract is an embedded Solidity source used for address scans.
type SampleContract struct {
	Name   string
	Source string
}

// Catalog is an immutable snapshot of all static content.
type Catalog struct {
	articles  []models.Article
	contracts []SampleContract
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog built from bundled content only.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load("")
	})
	return defaultCat, defaultErr
}

// Load builds a catalog from bundled content plus articles in extraDir
// (optional).
func Load(extraDir string) (*Catalog, error) {
	articles, err := loadArticles(extraDir)
	if err != nil {
		return nil, err
	}
	contracts, err := loadContracts()
	if err != nil {
		return nil, err
	}
	return &Catalog{articles: articles, contracts: contracts}, nil
}

func loadContracts() ([]SampleContract, error) {
	entries, err := bundledFS.ReadDir("contracts")
	if err != nil {
		return nil, fmt.Errorf("catalog: reading embedded contracts: %w", err)
	}
	out := make([]SampleContract, 0, len(entries))
	for _, e := range entries {
		data, err := bundledFS.ReadFile("contracts/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("catalog: reading %s: %w", e.Name(), err)
		}
		out = append(out, SampleContract{Name: e.Name(), Source: string(data)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) == 0 {
		return nil, fmt.Errorf("catalog: no bundled contracts")
	}
	return out, nil
}

// Articles returns every article ordered by id.
func (c *Catalog) Articles() []models.Article {
	return append([]models.Article(nil), c.articles...)
}

// Article looks up a single article by id.
func (c *Catalog) Article(id int) (models.Article, error) {
	for _, a := range c.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Article{}, fmt.Errorf("article %d: %w", id, ErrNotFound)
}

// Search returns articles whose title, content or tags contain term,
// case-insensitively.
func (c *Catalog) Search(term string) []models.Article {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}
	var out []models.Article
	for _, a := range c.articles {
		if articleMatches(a, needle) {
			out = append(out, a)
		}
	}
	return out
}

func articleMatches(a models.Article, needle string) bool {
	if strings.Contains(strings.ToLower(a.Title), needle) ||
		strings.Contains(strings.ToLower(a.Content), needle) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// SampleContract picks a bundled contract for address. The choice is stable
// for a given address (case-insensitive).
func (c *Catalog) SampleContract(address string) SampleContract {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(address))))
	return c.contracts[int(h.Sum32()%uint32(len(c.contracts)))]
}

// Visualization looks up an exploit walkthrough by name, ignoring case and
// separators.
func (c *Catalog) Visualization(name string) (models.ExploitVisualization, error) {
	want := normalizeKey(name)
	for _, v := range visualizations {
		if normalizeKey(v.Name) == want {
			return v, nil
		}
	}
	return models.ExploitVisualization{}, fmt.Errorf("visualization %q: %w", name, ErrNotFound)
}

// VisualizationNames lists the available walkthroughs.
func (c *Catalog) VisualizationNames() []string {
	names := make([]string, len(visualizations))
	for i, v := range visualizations {
		names[i] = v.Name
	}
	return names
}

// Bounties returns the open and closed bounty listings.
func (c *Catalog) Bounties() []models.Bounty {
	return append([]models.Bounty(nil), bounties...)
}

func (c *Catalog) Platforms() []models.BountyPlatform {
	return append([]models.BountyPlatform(nil), platforms...)
}

// Feed returns ticker items, newest first.
func (c *Catalog) Feed() []models.FeedItem {
	return append([]models.FeedItem(nil), feed...)
}

func (c *Catalog) Recaps() []models.Recap {
	return append([]models.Recap(nil), recaps...)
}

func (c *Catalog) Points() []models.PointsEntry {
	return append([]models.PointsEntry(nil), points...)
}

func (c *Catalog) Tiers() []models.SubscriptionTier {
	return append([]models.SubscriptionTier(nil), tiers...)
}

func (c *Catalog) Roadmap() []models.RoadmapItem {
	return append([]models.RoadmapItem(nil), roadmap...)
}

func (c *Catalog) Parlour() []models.ParlourTopic {
	return append([]models.ParlourTopic(nil), parlour...)
}

func (c *Catalog) Visualizations() []models.ExploitVisualization {
	return append([]models.ExploitVisualization(nil), visualizations...)
}

// Stats returns the headline numbers. ArticlesWritten reflects the loaded
// articles.
func (c *Catalog) Stats() models.PlatformStats {
	s := stats
	s.ArticlesWritten = len(c.articles)
	s.ActiveBounties = 0
	for _, b := range bounties {
		if b.Status == "open" {
			s.ActiveBounties++
		}
	}
	return s
}

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
