package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/propfacts/internal/extract"
	"github.com/ppiankov/propfacts/internal/llm"
	"github.com/ppiankov/propfacts/internal/logger"
	"github.com/ppiankov/propfacts/internal/model"
	"github.com/ppiankov/propfacts/internal/provider"
)

var (
	// ErrNoResults is returned when the provider found nothing for a query
	ErrNoResults = errors.New("no search results found")

	// ErrEmptyQuery is returned for blank queries
	ErrEmptyQuery = errors.New("query is empty")
)

// Recorder stores completed lookups
type Recorder interface {
	Record(ctx context.Context, report *model.Report) error
}

// cachingProvider is implemented by providers that can report cache hits
type cachingProvider interface {
	FetchCached(ctx context.Context, query string) ([]model.SearchResult, bool, error)
}

// Pipeline orchestrates search, extraction and the optional summary
type Pipeline struct {
	provider   provider.Provider
	extractor  extract.Extractor
	summarizer *llm.Summarizer // nil if disabled
	history    Recorder        // nil if disabled
	renderer   *Renderer
	config     *model.Config
	now        func() time.Time
}

// NewPipeline creates a pipeline around an already configured provider
func NewPipeline(cfg *model.Config, p provider.Provider) (*Pipeline, error) {
	extractor, err := extract.NewExtractor(cfg.Extract)
	if err != nil {
		return nil, err
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logger.Warn("failed to initialize LLM provider", "provider", cfg.LLM.Provider, "error", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		provider:   p,
		extractor:  extractor,
		summarizer: summarizer,
		renderer:   NewRenderer(cfg.Output.TopResults, cfg.Output.TopFacts),
		config:     cfg,
		now:        time.Now,
	}, nil
}

// SetHistory enables recording of successful lookups
func (p *Pipeline) SetHistory(r Recorder) {
	p.history = r
}

// Extractor returns the configured extractor
func (p *Pipeline) Extractor() extract.Extractor {
	return p.extractor
}

// Renderer returns the configured renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Lookup searches for query and extracts facts from the results
func (p *Pipeline) Lookup(ctx context.Context, query string) (*model.Report, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	start := p.now()
	results, cached, err := p.fetch(ctx, query)
	if err != nil {
		var perr *provider.ProviderError
		if !errors.As(err, &perr) {
			err = &provider.ProviderError{Provider: p.provider.Name(), Err: err}
		}
		return nil, err
	}
	logger.Info("search complete", "provider", p.provider.Name(), "query", query, "results", len(results), "cached", cached, "duration", p.now().Sub(start))

	if len(results) == 0 {
		return nil, ErrNoResults
	}

	report := p.BuildReport(query, results)
	report.Cached = cached

	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			logger.Warn("LLM summary generation failed", "error", err)
		} else if summary != nil {
			report.LLM = summary
		}
	}

	if p.history != nil {
		if err := p.history.Record(ctx, report); err != nil {
			logger.Warn("failed to record lookup history", "query", query, "error", err)
		}
	}

	return report, nil
}

// BuildReport runs extraction over results without contacting the provider
func (p *Pipeline) BuildReport(query string, results []model.SearchResult) *model.Report {
	report := &model.Report{
		Query:          query,
		Provider:       p.provider.Name(),
		FetchedAt:      p.now().UTC(),
		Results:        results,
		Mode:           p.extractor.Name(),
		PatternVersion: p.extractor.Version(),
	}

	if p.config.Extract.Details {
		report.FactDetails = p.extractor.ExtractFacts(results)
		report.Facts = model.FactSetFromFacts(report.FactDetails)
	} else {
		report.Facts = p.extractor.Extract(results)
	}

	logger.Debug("facts extracted", "query", query, "facts", report.Facts.Count(), "mode", report.Mode)
	return report
}

func (p *Pipeline) fetch(ctx context.Context, query string) ([]model.SearchResult, bool, error) {
	if cp, ok := p.provider.(cachingProvider); ok {
		return cp.FetchCached(ctx, query)
	}
	results, err := p.provider.Fetch(ctx, query)
	return results, false, err
}

// RenderReport prints the text report to w and writes the optional JSON
// and Markdown files. An LLM summary is written next to the Markdown file.
func (p *Pipeline) RenderReport(w io.Writer, report *model.Report, jsonPath string, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		logger.Info("wrote JSON report", "path", jsonPath)
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		logger.Info("wrote Markdown report", "path", mdPath)
	}

	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), llmPath); err != nil {
			logger.Warn("failed to write LLM summary", "path", llmPath, "error", err)
		} else {
			logger.Info("wrote LLM summary", "path", llmPath)
		}
	}

	return p.renderer.RenderText(w, report)
}
