// Package persona manages the personality and debate-style catalog: named
// templates that control a debater's tone and the session's formatting and
// opening prompt. Unknown identifiers are configuration errors surfaced
// before any agent is constructed, never mid-debate.
package persona

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"FightBot/pkg/logger"
)

// DefaultStyleID is used when an opening prompt is requested for an
// unknown style.
const DefaultStyleID = "casual"

// Personality is a named template controlling a debater's argument style
// via its seed system message.
type Personality struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
}

// DebateStyle is a named template controlling formatting and the opening
// prompt shared by both debaters.
type DebateStyle struct {
	OpeningPrompt string `json:"opening_prompt"`
	Format        string `json:"format"`
}

// UnknownIDError reports a lookup of an identifier that is not present in
// the catalog. It is a configuration error: it fails agent construction,
// not a running debate.
type UnknownIDError struct {
	Kind      string // "personality" or "debate style"
	ID        string
	Available []string
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("unknown %s %q (available: %s)", e.Kind, e.ID, strings.Join(e.Available, ", "))
}

// Catalog holds the personality and debate-style templates loaded from a
// JSON configuration file.
type Catalog struct {
	path          string
	personalities map[string]Personality
	styles        map[string]DebateStyle
	log           *logger.Logger
}

type catalogFile struct {
	Personalities map[string]Personality `json:"personalities"`
	DebateStyles  map[string]DebateStyle `json:"debate_styles"`
}

// Load reads the catalog from path. A missing or malformed file is an
// error: the engine cannot assemble prompts without it.
func Load(path string, log *logger.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona catalog: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse persona catalog %s: %w", path, err)
	}

	c := &Catalog{
		path:          path,
		personalities: file.Personalities,
		styles:        file.DebateStyles,
		log:           log,
	}
	if c.personalities == nil {
		c.personalities = map[string]Personality{}
	}
	if c.styles == nil {
		c.styles = map[string]DebateStyle{}
	}

	log.Infof("loaded %d personalities and %d debate styles from %s",
		len(c.personalities), len(c.styles), path)
	return c, nil
}

// Personality returns the personality for id.
func (c *Catalog) Personality(id string) (Personality, error) {
	p, ok := c.personalities[id]
	if !ok {
		return Personality{}, &UnknownIDError{Kind: "personality", ID: id, Available: c.PersonalityIDs()}
	}
	return p, nil
}

// Style returns the debate style for id.
func (c *Catalog) Style(id string) (DebateStyle, error) {
	s, ok := c.styles[id]
	if !ok {
		return DebateStyle{}, &UnknownIDError{Kind: "debate style", ID: id, Available: c.StyleIDs()}
	}
	return s, nil
}

// PersonalityIDs returns the sorted personality identifiers.
func (c *Catalog) PersonalityIDs() []string {
	ids := make([]string, 0, len(c.personalities))
	for id := range c.personalities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StyleIDs returns the sorted debate-style identifiers.
func (c *Catalog) StyleIDs() []string {
	ids := make([]string, 0, len(c.styles))
	for id := range c.styles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Personalities returns a copy of the full personality map, for listings.
func (c *Catalog) Personalities() map[string]Personality {
	out := make(map[string]Personality, len(c.personalities))
	for id, p := range c.personalities {
		out[id] = p
	}
	return out
}

// BuildSystemPrompt assembles the seed system message for one debater:
// personality prompt, topic, supported position, then the style's
// formatting directive.
func (c *Catalog) BuildSystemPrompt(personalityID, topic, position, styleID string) (string, error) {
	p, err := c.Personality(personalityID)
	if err != nil {
		return "", err
	}
	s, err := c.Style(styleID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s The topic is: %s. You support the position that %s. %s",
		p.SystemPrompt, topic, position, s.Format), nil
}

// OpeningPrompt returns the opening prompt for styleID, falling back to
// the default style when the id is unknown.
func (c *Catalog) OpeningPrompt(styleID string) string {
	if s, ok := c.styles[styleID]; ok {
		return s.OpeningPrompt
	}
	if s, ok := c.styles[DefaultStyleID]; ok {
		return s.OpeningPrompt
	}
	return "Please present your opening argument."
}

// AddPersonality registers a new personality. With save set, the catalog
// file is rewritten.
func (c *Catalog) AddPersonality(id string, p Personality, save bool) error {
	c.personalities[id] = p
	c.log.Infof("added personality %q", id)
	if save {
		return c.Save()
	}
	return nil
}

// Save writes the catalog back to its file.
func (c *Catalog) Save() error {
	data, err := json.MarshalIndent(catalogFile{
		Personalities: c.personalities,
		DebateStyles:  c.styles,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal persona catalog: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("save persona catalog: %w", err)
	}
	c.log.Infof("persona catalog saved to %s", c.path)
	return nil
}
