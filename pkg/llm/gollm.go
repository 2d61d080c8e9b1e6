package llm

import (
	"context"
	"strings"

	"github.com/teilomillet/gollm"
	gollmllm "github.com/teilomillet/gollm/llm"
)

// simpleQuerier is the slice of gollm.LLM the client needs for one-shot
// prompts. Kept as an interface so tests can stub it.
type simpleQuerier interface {
	Generate(ctx context.Context, prompt *gollm.Prompt, opts ...gollmllm.GenerateOption) (string, error)
}

// mapProviderName determines the canonical provider name from an explicit
// name, the model prefix, or the API key prefix. Defaults to "openai" for
// any OpenAI-compatible endpoint.
func mapProviderName(providerName, model, apiKey string) string {
	switch name := strings.ToLower(strings.TrimSpace(providerName)); name {
	case "openai", "anthropic", "groq", "mistral", "deepseek", "ollama", "openrouter":
		return name
	}

	lowerModel := strings.ToLower(model)
	switch {
	case strings.HasPrefix(lowerModel, "claude"):
		return "anthropic"
	case strings.HasPrefix(lowerModel, "deepseek"):
		return "deepseek"
	case strings.HasPrefix(lowerModel, "mistral") || strings.HasPrefix(lowerModel, "mixtral"):
		return "mistral"
	}

	if strings.HasPrefix(apiKey, "sk-ant-") {
		return "anthropic"
	}
	return "openai"
}

// newGollmInstance creates a configured gollm.LLM for one-shot queries.
// gollm's validator rejects keys that don't match the provider's standard
// format, which is expected for third-party OpenAI-compatible endpoints;
// callers treat a nil instance as "use direct HTTP".
func newGollmInstance(apiKey, model, providerName string) (gollm.LLM, error) {
	return gollm.NewLLM(
		gollm.SetProvider(providerName),
		gollm.SetModel(model),
		gollm.SetAPIKey(apiKey),
		gollm.SetLogLevel(gollm.LogLevelOff),
		gollm.SetMaxRetries(0), // retry policy lives in this package
	)
}

func (c *Client) gollmQuery(ctx context.Context, prompt string) (string, error) {
	return c.gollmLLM.Generate(ctx, gollm.NewPrompt(prompt))
}
