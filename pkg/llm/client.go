// Package llm provides the completion client adapter: it turns a
// conversation snapshot plus one new input into a single assistant message
// against an OpenAI-compatible chat completion endpoint. The adapter is
// stateless between calls; all conversation state lives with the agents.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"FightBot/pkg/logger"
	"FightBot/pkg/utils"
)

// Client handles communication with the chat completion API.
type Client struct {
	baseURL      string
	apiKey       string
	model        string
	providerName string

	temperature *float64
	topP        *float64
	maxTokens   *int

	retry      utils.RetryConfig
	httpClient *http.Client
	gollmLLM   simpleQuerier
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithSampling sets the sampling parameters sent with every request. Nil
// values are omitted from the wire request.
func WithSampling(temperature, topP *float64, maxTokens *int) Option {
	return func(c *Client) {
		c.temperature = temperature
		c.topP = topP
		c.maxTokens = maxTokens
	}
}

// WithRetry overrides the default backoff configuration.
func WithRetry(rc utils.RetryConfig) Option {
	return func(c *Client) { c.retry = rc }
}

// WithTimeout bounds each completion round-trip. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a completion client. providerName may be empty, in
// which case it is detected from the model name and API key.
func NewClient(baseURL, apiKey, model, providerName string, log *logger.Logger, opts ...Option) *Client {
	mapped := mapProviderName(providerName, model, apiKey)

	c := &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		model:        model,
		providerName: mapped,
		retry:        utils.DefaultRetryConfig(),
		// Completions can take a while; the bound exists so a hung
		// upstream fails the turn instead of wedging the debate.
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Optional gollm instance for one-shot queries (debate verdicts).
	// Non-critical: on failure everything goes through direct HTTP.
	c.gollmLLM, _ = newGollmInstance(apiKey, model, mapped)

	return c
}

// ProviderName returns the canonical provider name in use.
func (c *Client) ProviderName() string { return c.providerName }

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

func (c *Client) endpoint() string {
	return c.baseURL + "/chat/completions"
}

// Complete sends history plus one new user-role message and returns the
// top assistant candidate. Retryable failures (429, 5xx, network faults)
// are retried with bounded exponential backoff; the request body is built
// once, so a retry re-sends the identical pending turn. All other
// failures, and retry exhaustion, surface as *TransportError.
func (c *Client) Complete(ctx context.Context, history []Message, input string) (Message, error) {
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: input})

	body, err := json.Marshal(ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		TopP:        c.topP,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return Message{}, fmt.Errorf("marshal chat request: %w", err)
	}

	var out Message
	operation := func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
		if reqErr != nil {
			return utils.Permanent(fmt.Errorf("create request: %w", reqErr))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			if ctx.Err() != nil {
				return utils.Permanent(ctx.Err())
			}
			return &TransportError{Err: doErr}
		}
		defer resp.Body.Close()

		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return &TransportError{Err: fmt.Errorf("read response: %w", readErr)}
		}

		if resp.StatusCode != http.StatusOK {
			apiErr := newStatusError(resp.StatusCode, respBody)
			if !utils.IsRetryableStatus(resp.StatusCode) {
				return utils.Permanent(apiErr)
			}
			if resp.StatusCode == http.StatusTooManyRequests {
				wait := utils.RetryAfter(resp.Header, 0)
				if wait > 0 {
					c.log.Warnf("rate limited, upstream asks for %s", wait)
					time.Sleep(wait)
				}
			}
			return apiErr
		}

		var parsed ChatResponse
		if jsonErr := json.Unmarshal(respBody, &parsed); jsonErr != nil {
			return utils.Permanent(&TransportError{
				StatusCode: resp.StatusCode,
				Body:       utils.Truncate(string(respBody), maxErrorBody),
				Err:        jsonErr,
			})
		}
		if len(parsed.Choices) == 0 {
			return utils.Permanent(&TransportError{
				StatusCode: resp.StatusCode,
				Body:       "no response choices returned",
			})
		}

		out = parsed.Choices[0].Message
		out.Role = RoleAssistant
		c.log.Debugf("completion ok: %d messages in, %d tokens total",
			len(messages), parsed.Usage.TotalTokens)
		return nil
	}

	if err := utils.RetryWithContext(ctx, operation, c.retry); err != nil {
		return Message{}, err
	}
	return out, nil
}

// SimpleQuery sends a single standalone prompt and returns the text reply.
// Goes through gollm when available, otherwise through Complete with an
// empty history.
func (c *Client) SimpleQuery(ctx context.Context, prompt string) (string, error) {
	if c.gollmLLM != nil {
		if text, err := c.gollmQuery(ctx, prompt); err == nil {
			return text, nil
		}
		// fall through to direct HTTP on gollm failure
	}
	msg, err := c.Complete(ctx, nil, prompt)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}
