package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"healthmate-be/pkg/llm"
)

// AzureProvider talks to an Azure OpenAI chat-completions deployment.
type AzureProvider struct {
	Endpoint   string
	Deployment string
	APIKey     string
	APIVersion string
	Client     *http.Client
}

// Ensure AzureProvider implements LLMProvider
var _ llm.LLMProvider = &AzureProvider{}

func NewAzureProvider(endpoint, deployment, apiKey, apiVersion string) *AzureProvider {
	return &AzureProvider{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		Deployment: deployment,
		APIKey:     apiKey,
		APIVersion: apiVersion,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type azureChatRequest struct {
	Messages    []azureMessage `json:"messages"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
}

type azureMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type azureChatResponse struct {
	Choices []struct {
		Message azureMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// --- Interface Implementation ---

func (a *AzureProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.2,
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]azureMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages[i] = azureMessage{Role: role, Content: msg.Content}
	}

	deployment := a.Deployment
	if options.Model != "" {
		deployment = options.Model
	}

	reqPayload := azureChatRequest{
		Messages:    messages,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		a.Endpoint, deployment, a.APIVersion)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", a.APIKey)

	resp, err := a.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("azure request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("azure error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var azureResp azureChatResponse
	if err := json.Unmarshal(bodyBytes, &azureResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if azureResp.Error != nil {
		return "", fmt.Errorf("azure error: %s (%s)", azureResp.Error.Message, azureResp.Error.Code)
	}
	if len(azureResp.Choices) == 0 {
		return "", fmt.Errorf("azure response has no choices")
	}

	return strings.TrimSpace(azureResp.Choices[0].Message.Content), nil
}

func (a *AzureProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	// Reuse Chat for simplicity as most new LLMs are chat-optimized
	return a.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
