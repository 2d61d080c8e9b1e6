package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FightBot/pkg/logger"
)

const testCatalog = `{
  "personalities": {
    "logical": {
      "name": "Logical Analyst",
      "description": "analytical responses",
      "system_prompt": "Argue with cold logic."
    },
    "emotional": {
      "name": "Passionate Advocate",
      "description": "passionate arguments",
      "system_prompt": "Argue with passion."
    }
  },
  "debate_styles": {
    "casual": {
      "opening_prompt": "Please present your opening argument.",
      "format": "Keep it short."
    },
    "formal": {
      "opening_prompt": "Deliver your opening statement.",
      "format": "Be formal."
    }
  }
}`

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "personalities.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0644))

	c, err := Load(path, logger.NewNop())
	require.NoError(t, err)
	return c
}

func TestLoad(t *testing.T) {
	c := loadTestCatalog(t)
	assert.Equal(t, []string{"emotional", "logical"}, c.PersonalityIDs())
	assert.Equal(t, []string{"casual", "formal"}, c.StyleIDs())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), logger.NewNop())
	assert.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := Load(path, logger.NewNop())
	assert.Error(t, err)
}

func TestUnknownLookups(t *testing.T) {
	c := loadTestCatalog(t)

	_, err := c.Personality("sarcastic")
	var unknownErr *UnknownIDError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "personality", unknownErr.Kind)
	assert.Contains(t, unknownErr.Available, "logical")

	_, err = c.Style("town_hall")
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "debate style", unknownErr.Kind)
}

func TestBuildSystemPrompt(t *testing.T) {
	c := loadTestCatalog(t)

	prompt, err := c.BuildSystemPrompt("logical", "AI regulation", "AI should be regulated", "casual")
	require.NoError(t, err)
	assert.Equal(t,
		"Argue with cold logic. The topic is: AI regulation. "+
			"You support the position that AI should be regulated. Keep it short.",
		prompt)
}

func TestBuildSystemPrompt_UnknownIDs(t *testing.T) {
	c := loadTestCatalog(t)

	_, err := c.BuildSystemPrompt("nope", "topic", "position", "casual")
	assert.Error(t, err)

	_, err = c.BuildSystemPrompt("logical", "topic", "position", "nope")
	assert.Error(t, err)
}

func TestOpeningPrompt(t *testing.T) {
	c := loadTestCatalog(t)

	assert.Equal(t, "Deliver your opening statement.", c.OpeningPrompt("formal"))
	// Unknown styles fall back to the default style.
	assert.Equal(t, "Please present your opening argument.", c.OpeningPrompt("town_hall"))
}

func TestAddPersonalityAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personalities.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0644))

	c, err := Load(path, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, c.AddPersonality("sarcastic", Personality{
		Name:         "Sarcastic Commentator",
		Description:  "wit and irony",
		SystemPrompt: "Argue with clever sarcasm.",
	}, true))

	reloaded, err := Load(path, logger.NewNop())
	require.NoError(t, err)
	p, err := reloaded.Personality("sarcastic")
	require.NoError(t, err)
	assert.Equal(t, "Sarcastic Commentator", p.Name)
}
