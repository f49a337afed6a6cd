package script

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
)

// Completion is one chat-completion request: a system instruction plus a
// user message.
type Completion struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// ChatProvider abstracts a text-generation service.
type ChatProvider interface {
	Complete(ctx context.Context, req Completion) (string, error)
	ModelName() string
}

// NewChatProvider returns a chat provider based on available credentials,
// preferring Cohere when a key is supplied.
func NewChatProvider(cohereKey, openaiKey string) ChatProvider {
	if cohereKey != "" {
		// Force HTTP/1.1 to avoid HTTP/2 protocol errors seen with the
		// Cohere endpoint.
		httpClient := &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
				ForceAttemptHTTP2: false,
			},
		}
		client := cohereclient.NewClient(
			cohereclient.WithToken(cohereKey),
			cohereclient.WithHTTPClient(httpClient),
		)
		return &CohereChat{client: client, model: "command-r-plus"}
	}

	if openaiKey != "" {
		client := openaiclient.NewClient(openaioption.WithAPIKey(openaiKey))
		return &OpenAIChat{client: &client, model: openaiclient.ChatModelGPT4}
	}

	return nil
}

// CohereChat implements ChatProvider using the Cohere Chat API.
// SDK: github.com/cohere-ai/cohere-go/v2
type CohereChat struct {
	client *cohereclient.Client
	model  string
}

func (c *CohereChat) ModelName() string { return c.model }

func (c *CohereChat) Complete(ctx context.Context, req Completion) (string, error) {
	chatReq := &cohere.ChatRequest{
		Message:     req.User,
		Model:       cohere.String(c.model),
		Temperature: cohere.Float64(req.Temperature),
	}
	if req.System != "" {
		chatReq.Preamble = cohere.String(req.System)
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = cohere.Int(req.MaxTokens)
	}

	resp, err := c.client.Chat(ctx, chatReq)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// OpenAIChat implements ChatProvider using the OpenAI Chat Completions API.
// SDK: github.com/openai/openai-go/v2
type OpenAIChat struct {
	client *openaiclient.Client
	model  openaiclient.ChatModel
}

func (o *OpenAIChat) ModelName() string { return string(o.model) }

func (o *OpenAIChat) Complete(ctx context.Context, req Completion) (string, error) {
	messages := make([]openaiclient.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openaiclient.SystemMessage(req.System))
	}
	messages = append(messages, openaiclient.UserMessage(req.User))

	params := openaiclient.ChatCompletionNewParams{
		Model:       o.model,
		Messages:    messages,
		Temperature: openaiclient.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openaiclient.Int(int64(req.MaxTokens))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
