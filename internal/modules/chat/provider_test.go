package chat

import (
	"context"
	"errors"
	"testing"

	jetapi "go.jetify.com/ai/api"
)

// recordingModel captures the call options the SDK generation path sends.
type recordingModel struct {
	opts jetapi.CallOptions
}

func (m *recordingModel) ProviderName() string                 { return "recording" }
func (m *recordingModel) ModelID() string                      { return "recording-model" }
func (m *recordingModel) SupportedUrls() []jetapi.SupportedURL { return nil }

func (m *recordingModel) Generate(_ context.Context, _ []jetapi.Message, opts jetapi.CallOptions) (*jetapi.Response, error) {
	m.opts = opts
	return &jetapi.Response{
		Content: []jetapi.ContentBlock{&jetapi.TextBlock{Text: "I built backend services in Go."}},
	}, nil
}

func (m *recordingModel) Stream(context.Context, []jetapi.Message, jetapi.CallOptions) (*jetapi.StreamResponse, error) {
	return nil, errors.New("streaming not supported")
}

func TestGenerateWithModelSendsClampedDecodingParams(t *testing.T) {
	model := &recordingModel{}

	// A caller asking for a long, hot generation still produces a bounded call.
	params := ClampParams(GenerationParams{MaxTokens: 500, Temperature: 1.0})

	text, err := generateWithModel(context.Background(), model, "Q: question\nA:", params)
	if err != nil {
		t.Fatalf("generateWithModel: %v", err)
	}
	if text == "" {
		t.Fatal("expected generated text")
	}

	if model.opts.MaxOutputTokens != MaxTokenBudget {
		t.Errorf("max output tokens = %d, want %d", model.opts.MaxOutputTokens, MaxTokenBudget)
	}
	if model.opts.Temperature == nil {
		t.Fatal("temperature not sent")
	}
	if *model.opts.Temperature != MaxTemperature {
		t.Errorf("temperature = %v, want %v", *model.opts.Temperature, MaxTemperature)
	}
	if model.opts.TopP != TopP {
		t.Errorf("top_p = %v, want %v", model.opts.TopP, TopP)
	}
	if len(model.opts.StopSequences) != len(StopTokens) {
		t.Fatalf("stop sequences = %q, want %q", model.opts.StopSequences, StopTokens)
	}
	for i, stop := range StopTokens {
		if model.opts.StopSequences[i] != stop {
			t.Errorf("stop sequence %d = %q, want %q", i, model.opts.StopSequences[i], stop)
		}
	}
	if model.opts.FrequencyPenalty != RepetitionPenalty-1 {
		t.Errorf("frequency penalty = %v, want %v", model.opts.FrequencyPenalty, RepetitionPenalty-1)
	}
}

func TestExtractTextFromResponseJoinsBlocks(t *testing.T) {
	resp := &jetapi.Response{Content: []jetapi.ContentBlock{
		&jetapi.TextBlock{Text: "Yes, "},
		&jetapi.TextBlock{Text: "three years of Go."},
	}}
	text, err := extractTextFromResponse(resp)
	if err != nil {
		t.Fatalf("extractTextFromResponse: %v", err)
	}
	if text != "Yes, three years of Go." {
		t.Errorf("text = %q", text)
	}

	if _, err := extractTextFromResponse(nil); err == nil {
		t.Error("expected error for nil response")
	}
	if _, err := extractTextFromResponse(&jetapi.Response{}); err == nil {
		t.Error("expected error for empty response")
	}
}
