package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	model          = "claude-3-haiku-20240307"
	maxTokens      = 128
)

// Unknown is returned when the model cannot map the text to a command.
const Unknown = "/unknown"

const systemPrompt = `You translate short operator messages from a food-processing workshop into exactly one command.
Commands:
/cashin <amount> <description>   money put into the petty cash box
/cashout <amount> <description>  money taken out of the petty cash box
/balance                         current petty cash balance
/production <kilos_in> <kilos_out>  a processing batch
/summary                         this week's summary
Messages may be in French or English. Amounts are plain numbers without currency or thousands separators.
Answer with the command line only. If nothing fits, answer /unknown.`

// Client turns free text into a slash command.
type Client interface {
	TranslateToCommand(ctx context.Context, input string) (string, error)
}

type anthropicClient struct {
	httpClient *resty.Client
}

// NewClient creates a configured Anthropic client. An empty baseURL uses
// the public API.
func NewClient(apiKey, baseURL string) Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &anthropicClient{httpClient: client}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// TranslateToCommand asks the model for the command matching input. The
// answer is reduced to its first line and forced to start with a slash.
func (c *anthropicClient) TranslateToCommand(ctx context.Context, input string) (string, error) {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		// Prefill the slash so the reply starts as a command.
		Messages: []message{
			{Role: "user", Content: input},
			{Role: "assistant", Content: "/"},
		},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post("/v1/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: status=%d body=%s", resp.StatusCode(), resp.String())
	}
	if len(respBody.Content) == 0 {
		return "", fmt.Errorf("empty response from anthropic")
	}

	text := strings.TrimSpace(respBody.Content[0].Text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	text = strings.Trim(text, "`")
	if text == "" {
		return Unknown, nil
	}
	if !strings.HasPrefix(text, "/") {
		text = "/" + text
	}
	return text, nil
}
