package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/propfacts/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *SummarizeResponse
	err       error
	lastReq   SummarizeRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func TestNewSummarizer_DisabledProvider(t *testing.T) {
	summarizer, err := NewSummarizer(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summarizer.IsEnabled() {
		t.Error("Expected summarizer to be disabled")
	}
	if summarizer.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}

	summary, err := summarizer.GenerateSummary(context.Background(), testReport())
	if err != nil || summary != nil {
		t.Errorf("Expected nil summary and error when disabled, got %v, %v", summary, err)
	}
}

func TestNewSummarizer_UnknownProvider(t *testing.T) {
	if _, err := NewSummarizer(Config{Provider: "anthropic"}); err == nil {
		t.Fatal("Expected error for unsupported provider")
	}
}

func TestNewProvider_Ollama(t *testing.T) {
	p, err := NewProvider(Config{Provider: "ollama"})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("Expected ollama, got %s", p.Name())
	}
}

func TestSummarizer_GenerateSummary_ProviderUnavailable(t *testing.T) {
	summarizer := &Summarizer{
		provider: &MockProvider{name: "test-provider", available: false},
		config:   Config{StrictEvidence: true},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), testReport())
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if summary == nil {
		t.Fatal("Expected summary object with warnings")
	}
	if summary.Enabled {
		t.Error("Expected summary to be marked as disabled")
	}
	if len(summary.Warnings) == 0 || !strings.Contains(summary.Warnings[0], "not available") {
		t.Errorf("Expected warning about provider unavailability, got %v", summary.Warnings)
	}
}

func TestSummarizer_GenerateSummary_Success(t *testing.T) {
	mock := &MockProvider{
		name:      "test-provider",
		available: true,
		response: &SummarizeResponse{
			Summary:    "Two and three BHK units from 85 lakhs.",
			CitedURLs:  []string{"https://example.com/reviews"},
			Model:      "test-model",
			TokensUsed: 150,
		},
	}
	summarizer := &Summarizer{
		provider: mock,
		config:   Config{Model: "test-model", StrictEvidence: true},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.Enabled || summary.Provider != "test-provider" || summary.Model != "test-model" {
		t.Errorf("Unexpected summary metadata: %+v", summary)
	}
	if !summary.StrictEvidence {
		t.Error("Expected strict evidence mode to be enabled")
	}
	if summary.SummaryMD != "Two and three BHK units from 85 lakhs." {
		t.Errorf("Unexpected summary text: %s", summary.SummaryMD)
	}

	if len(mock.lastReq.EvidenceURLs) != 2 {
		t.Errorf("Expected result URLs as allowlist, got %v", mock.lastReq.EvidenceURLs)
	}

	foundTokens, foundCitations := false, false
	for _, warning := range summary.Warnings {
		if strings.Contains(warning, "Tokens used") {
			foundTokens = true
		}
		if strings.Contains(warning, "Verified") && strings.Contains(warning, "citations") {
			foundCitations = true
		}
	}
	if !foundTokens || !foundCitations {
		t.Errorf("Expected token and citation notes, got %v", summary.Warnings)
	}
}

func TestSummarizer_GenerateSummary_ProviderError(t *testing.T) {
	summarizer := &Summarizer{
		provider: &MockProvider{name: "test-provider", available: true, err: errors.New("API rate limit exceeded")},
		config:   Config{StrictEvidence: true},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), testReport())
	if err != nil {
		t.Errorf("Expected no error (graceful degradation), got %v", err)
	}
	if summary == nil || !summary.Enabled {
		t.Fatal("Expected enabled summary with error warning")
	}

	found := false
	for _, warning := range summary.Warnings {
		if strings.Contains(warning, "failed") && strings.Contains(warning, "rate limit") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected warning to mention error: %v", summary.Warnings)
	}
}

func TestRenderSeparateMarkdown(t *testing.T) {
	if RenderSeparateMarkdown(nil) != "" {
		t.Error("Expected empty markdown when nil")
	}
	if RenderSeparateMarkdown(&model.LLMSummary{Enabled: false}) != "" {
		t.Error("Expected empty markdown when disabled")
	}

	md := RenderSeparateMarkdown(&model.LLMSummary{
		Enabled:        true,
		Provider:       "openai",
		Model:          "gpt-4o-mini",
		StrictEvidence: true,
		SummaryMD:      "Apartments in North Bangalore from 85 lakhs.",
		Warnings:       []string{"Tokens used: 150", "Verified 1 citations against 3 result URLs"},
	})

	for _, section := range []string{
		"# LLM Summary",
		"GENERATED CONTENT",
		"determined independently",
		"**Provider**: openai",
		"**Model**: gpt-4o-mini",
		"**Strict Evidence Mode**: true",
		"Apartments in North Bangalore from 85 lakhs.",
		"## Notes",
		"- Tokens used: 150",
	} {
		if !strings.Contains(md, section) {
			t.Errorf("Expected markdown to contain %q", section)
		}
	}

	empty := RenderSeparateMarkdown(&model.LLMSummary{Enabled: true, Provider: "openai"})
	if !strings.Contains(empty, "No summary generated") {
		t.Error("Expected message about no summary")
	}
}

func TestBuildPrompt(t *testing.T) {
	report := testReport()
	prompt := BuildPrompt(report, report.SourceURLs())

	for _, want := range []string{
		`"luxury apartments in Bangalore"`,
		"- https://example.com/luxury-apartments",
		"- pricing: 85; 120",
		"- developer: (none)",
		"- configuration: 2 BHK",
		"2-3 sentence summary",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestJoinURLs(t *testing.T) {
	if got := joinURLs(nil); got != "(No source URLs available)" {
		t.Errorf("Unexpected empty rendering: %q", got)
	}

	urls := make([]string, 25)
	for i := range urls {
		urls[i] = "https://example.com/" + string(rune('a'+i))
	}
	got := joinURLs(urls)
	if !strings.Contains(got, "... and 5 more URLs") {
		t.Errorf("Expected truncation note, got %q", got)
	}
	if strings.Contains(got, "https://example.com/u") {
		t.Error("Expected URLs beyond the limit to be omitted")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "" || !cfg.StrictEvidence || cfg.Timeout != 30 {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}
