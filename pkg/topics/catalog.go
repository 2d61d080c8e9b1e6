// Package topics manages the debate topic catalog: named subjects with the
// two opposing positions the debaters will argue.
package topics

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"FightBot/pkg/logger"
)

// Topic is one debate subject with its two opposing positions.
type Topic struct {
	ID          string `json:"id"`
	Topic       string `json:"topic"`
	Position1   string `json:"position1"`
	Position2   string `json:"position2"`
	Category    string `json:"category,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	Description string `json:"description,omitempty"`
}

// UnknownIDError reports a topic lookup miss. Like persona lookups, this
// is a configuration error surfaced before the debate starts.
type UnknownIDError struct {
	ID        string
	Available []string
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("unknown topic %q (available: %s)", e.ID, strings.Join(e.Available, ", "))
}

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	Category   string
	Difficulty string
}

// Catalog holds debate topics loaded from a JSON file.
type Catalog struct {
	path   string
	topics map[string]Topic
	log    *logger.Logger
}

type catalogFile struct {
	DebateTopics []Topic `json:"debate_topics"`
}

// Load reads the topic catalog from path. A missing file yields an empty
// catalog with a warning; the operator can still supply a free-form topic.
func Load(path string, log *logger.Logger) (*Catalog, error) {
	c := &Catalog{path: path, topics: map[string]Topic{}, log: log}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Warnf("topics file %s not found, starting with an empty catalog", path)
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read topic catalog: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse topic catalog %s: %w", path, err)
	}
	for _, t := range file.DebateTopics {
		c.topics[t.ID] = t
	}

	log.Infof("loaded %d debate topics from %s", len(c.topics), path)
	return c, nil
}

// Get returns the topic for id.
func (c *Catalog) Get(id string) (Topic, error) {
	t, ok := c.topics[id]
	if !ok {
		return Topic{}, &UnknownIDError{ID: id, Available: c.IDs()}
	}
	return t, nil
}

// IDs returns the sorted topic identifiers.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.topics))
	for id := range c.topics {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns topics matching the filter, sorted by id.
func (c *Catalog) List(f Filter) []Topic {
	var out []Topic
	for _, t := range c.topics {
		if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
			continue
		}
		if f.Difficulty != "" && !strings.EqualFold(t.Difficulty, f.Difficulty) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Categories returns the distinct categories, sorted.
func (c *Catalog) Categories() []string {
	return c.distinct(func(t Topic) string { return t.Category })
}

// Difficulties returns the distinct difficulty levels, sorted.
func (c *Catalog) Difficulties() []string {
	return c.distinct(func(t Topic) string { return t.Difficulty })
}

func (c *Catalog) distinct(field func(Topic) string) []string {
	seen := map[string]struct{}{}
	for _, t := range c.topics {
		if v := field(t); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Search returns topics whose text fields contain the keyword,
// case-insensitive, sorted by id.
func (c *Catalog) Search(keyword string) []Topic {
	kw := strings.ToLower(keyword)
	var out []Topic
	for _, t := range c.topics {
		haystack := strings.ToLower(strings.Join([]string{
			t.Topic, t.Position1, t.Position2, t.Category, t.Description,
		}, " "))
		if strings.Contains(haystack, kw) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Add registers a topic. With save set, the catalog file is rewritten.
func (c *Catalog) Add(t Topic, save bool) error {
	if t.ID == "" {
		return fmt.Errorf("topic id must not be empty")
	}
	c.topics[t.ID] = t
	c.log.Infof("added topic %q", t.ID)
	if save {
		return c.Save()
	}
	return nil
}

// Save writes the catalog back to its file.
func (c *Catalog) Save() error {
	file := catalogFile{DebateTopics: c.List(Filter{})}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal topic catalog: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("save topic catalog: %w", err)
	}
	c.log.Infof("saved %d topics to %s", len(c.topics), c.path)
	return nil
}
