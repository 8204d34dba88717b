package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	appcfg "github.com/folio-space/core/internal/config"
	"github.com/folio-space/core/internal/pkg/fetch"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
)

// errUnsupportedProvider marks a provider configuration the worker cannot
// drive; the session manager surfaces it with a dedicated user message.
var errUnsupportedProvider = errors.New("unsupported provider")

func selectProvider(cfg appcfg.AIConfig, assignment *appcfg.AIModelAssignment) *appcfg.AIProvider {
	var providerID, overrideModel string
	if assignment != nil {
		providerID = strings.TrimSpace(assignment.ProviderID)
		overrideModel = strings.TrimSpace(assignment.Model)
	}

	pick := func(provider appcfg.AIProvider) *appcfg.AIProvider {
		selected := provider
		if overrideModel != "" {
			selected.DefaultModel = overrideModel
		}
		return &selected
	}

	if providerID != "" {
		for _, provider := range cfg.Providers {
			if provider.Enabled && strings.TrimSpace(provider.ID) == providerID {
				return pick(provider)
			}
		}
	}
	for _, provider := range cfg.Providers {
		if provider.Enabled {
			return pick(provider)
		}
	}
	return nil
}

func findProvider(cfg appcfg.AIConfig, id string) *appcfg.AIProvider {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	for _, provider := range cfg.Providers {
		if provider.Enabled && strings.TrimSpace(provider.ID) == id {
			selected := provider
			return &selected
		}
	}
	return nil
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

func isOpenAICompatibleProviderType(raw string) bool {
	t := normalizeProviderType(raw)
	return t == "openai-compatible" || t == "openaicompatible"
}

func isAnthropicProviderType(raw string) bool {
	return normalizeProviderType(raw) == "anthropic"
}

func isOpenAIProviderType(raw string) bool {
	return normalizeProviderType(raw) == "openai"
}

// probeProvider checks the provider's models endpoint is reachable with the
// configured credentials. A failed probe is a downgrade signal, not an error
// the visitor sees.
func probeProvider(ctx context.Context, fetcher *fetch.Client, provider *appcfg.AIProvider) error {
	if provider == nil {
		return errors.New("no provider to probe")
	}

	var endpoint string
	headers := map[string]string{"accept": "application/json"}
	switch {
	case isAnthropicProviderType(provider.Type):
		endpoint = normalizeAnthropicModelsEndpoint(provider.Endpoint)
		headers["x-api-key"] = strings.TrimSpace(provider.APIKey)
		headers["anthropic-version"] = "2023-06-01"
	default:
		endpoint = normalizeOpenAIModelsEndpoint(provider.Endpoint)
		headers["authorization"] = "Bearer " + strings.TrimSpace(provider.APIKey)
	}

	resp, err := fetcher.Fetch(ctx, endpoint, fetch.Options{Headers: headers})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("probe %s: status %d", provider.ID, resp.Status)
	}
	return nil
}

// buildLanguageModel constructs the SDK-backed model for Anthropic and
// OpenAI providers. OpenAI-compatible providers use the raw HTTP path
// instead, which carries repetition_penalty natively.
func buildLanguageModel(provider *appcfg.AIProvider) (jetapi.LanguageModel, error) {
	if provider == nil {
		return nil, errors.New("AI provider is nil")
	}
	apiKey := strings.TrimSpace(provider.APIKey)
	if apiKey == "" {
		return nil, errors.New("AI provider api key is empty")
	}

	modelID := strings.TrimSpace(provider.DefaultModel)
	endpoint := strings.TrimSpace(provider.Endpoint)

	switch {
	case isAnthropicProviderType(provider.Type):
		if modelID == "" {
			modelID = "claude-haiku-4-5-20251001"
		}
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil

	case isOpenAIProviderType(provider.Type):
		if modelID == "" {
			modelID = "gpt-4o-mini"
		}
		opts := []openaioption.RequestOption{
			openaioption.WithAPIKey(apiKey),
			openaioption.WithMaxRetries(0),
		}
		if normalized := normalizeOpenAIBaseURL(endpoint); normalized != "" {
			opts = append(opts, openaioption.WithBaseURL(normalized))
		}
		client := openaiclient.NewClient(opts...)
		return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
	}

	return nil, fmt.Errorf("%w: %s", errUnsupportedProvider, provider.Type)
}

func generateWithModel(ctx context.Context, model jetapi.LanguageModel, prompt string, params GenerationParams) (string, error) {
	resp, err := jetai.GenerateText(
		ctx,
		[]jetapi.Message{&jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)}},
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(params.MaxTokens),
		jetai.WithTemperature(params.Temperature),
		jetai.WithTopP(TopP),
		jetai.WithStopSequences(StopTokens...),
		// The SDK has no repetition_penalty knob; frequency penalty is the
		// closest control. Penalty scales differ (OpenAI centers on 0), so
		// map 1.2 to 0.2.
		jetai.WithFrequencyPenalty(RepetitionPenalty-1),
	)
	if err != nil {
		return "", err
	}
	return extractTextFromResponse(resp)
}

func extractTextFromResponse(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errors.New("empty response from model")
	}
	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}
	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}

// generateOpenAICompatible drives any chat-completions endpoint directly and
// carries the full clamped decoding parameter set.
func generateOpenAICompatible(ctx context.Context, provider *appcfg.AIProvider, prompt string, params GenerationParams) (string, error) {
	if provider == nil {
		return "", errors.New("AI provider is nil")
	}
	if strings.TrimSpace(provider.APIKey) == "" {
		return "", errors.New("AI provider api key is empty")
	}

	endpoint := normalizeOpenAICompatibleEndpoint(provider.Endpoint)
	model := strings.TrimSpace(provider.DefaultModel)
	if model == "" {
		model = "gpt-4o-mini"
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":         params.MaxTokens,
		"temperature":        params.Temperature,
		"top_p":              TopP,
		"repetition_penalty": RepetitionPenalty,
		"stop":               StopTokens,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(provider.APIKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("chat completions error: %s", strings.TrimSpace(string(respBody)))
	}
	return extractCompletionText(respBody)
}

// extractCompletionText handles the two shapes a compatible endpoint may
// return: the standard choices array, or a bare message object.
func extractCompletionText(respBody []byte) (string, error) {
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			Text string `json:"text"`
		} `json:"choices"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("chat completions error: %s", result.Error.Message)
	}

	if len(result.Choices) > 0 {
		if text := result.Choices[0].Message.Content; strings.TrimSpace(text) != "" {
			return text, nil
		}
		if text := result.Choices[0].Text; strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	if text := result.Message.Content; strings.TrimSpace(text) != "" {
		return text, nil
	}
	return "", errors.New("empty response from model")
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		if path == "" {
			path = "/v1"
		} else {
			path += "/v1"
		}
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeOpenAICompatibleEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		cleaned := strings.TrimRight(base, "/")
		return strings.TrimSuffix(cleaned, "/v1")
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/v1")
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeOpenAIModelsEndpoint(raw string) string {
	return normalizeOpenAICompatibleEndpoint(raw) + "/v1/models"
}

func normalizeAnthropicModelsEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		base = "https://api.anthropic.com"
	}
	return strings.TrimRight(base, "/") + "/v1/models"
}
